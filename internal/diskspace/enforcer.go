// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

// Package diskspace enforces the image directory disk quota. When
// measured usage exceeds the configured limit, the oldest capture
// artifacts are deleted until usage falls to the reclaim watermark
// (90% of the limit), leaving headroom so enforcement does not run on
// every capture.
package diskspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/WarpSpeedNine/CosmiCam/internal/events"
	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
	"github.com/WarpSpeedNine/CosmiCam/internal/metrics"
	"github.com/WarpSpeedNine/CosmiCam/internal/models"
)

// ReclaimWatermark is the fraction of the quota usage is reduced to
// once enforcement triggers.
const ReclaimWatermark = 0.9

// artifactPrefix and artifactExt bound which files enforcement may
// delete. Anything else in the directory is left alone.
const (
	artifactPrefix = "image_"
	artifactExt    = ".jpg"
)

// ErrNoArtifacts is returned by Latest when the directory holds no
// displayable images.
var ErrNoArtifacts = errors.New("no artifacts in image directory")

// Report describes the outcome of one enforcement pass.
type Report struct {
	UsageBytes     int64 `json:"usage_bytes"`
	QuotaBytes     int64 `json:"quota_bytes"`
	BytesReclaimed int64 `json:"bytes_reclaimed"`
	FilesDeleted   int   `json:"files_deleted"`
	Enforced       bool  `json:"enforced"`
}

// Enforcer deletes the oldest capture artifacts when the image
// directory exceeds its quota.
type Enforcer struct {
	dir       string
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewEnforcer creates an Enforcer for dir. A nil publisher disables
// event emission.
func NewEnforcer(dir string, publisher events.Publisher) *Enforcer {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Enforcer{
		dir:       dir,
		publisher: publisher,
		logger:    logging.With().Str("component", "diskspace").Logger(),
	}
}

// Dir returns the directory the enforcer manages.
func (e *Enforcer) Dir() string { return e.dir }

// EnforceIfNeeded measures directory usage and, if it exceeds
// maxBytes, deletes the oldest artifacts until usage drops to the
// reclaim watermark. Deletion failures are logged and skipped; a pass
// that cannot reach the watermark still returns the partial result.
func (e *Enforcer) EnforceIfNeeded(maxBytes int64) (Report, error) {
	usage, err := DirectorySize(e.dir)
	if err != nil {
		return Report{}, fmt.Errorf("measure %s: %w", e.dir, err)
	}

	report := Report{UsageBytes: usage, QuotaBytes: maxBytes}
	if usage <= maxBytes {
		metrics.RecordEnforcement(usage, maxBytes, 0, 0)
		return report, nil
	}

	target := int64(float64(maxBytes) * ReclaimWatermark)
	artifacts, err := artifactsByAge(e.dir)
	if err != nil {
		return report, fmt.Errorf("list artifacts in %s: %w", e.dir, err)
	}

	for _, a := range artifacts {
		if usage <= target {
			break
		}
		if err := os.Remove(a.path); err != nil {
			e.logger.Warn().Err(err).Str("path", a.path).Msg("failed to delete artifact")
			continue
		}
		usage -= a.size
		report.BytesReclaimed += a.size
		report.FilesDeleted++
	}

	report.UsageBytes = usage
	report.Enforced = report.FilesDeleted > 0

	if usage > target {
		e.logger.Warn().
			Int64("usage_bytes", usage).
			Int64("target_bytes", target).
			Msg("quota enforcement could not reach watermark")
	}

	metrics.RecordEnforcement(usage, maxBytes, report.BytesReclaimed, report.FilesDeleted)

	if report.Enforced {
		e.logger.Info().
			Int64("bytes_reclaimed", report.BytesReclaimed).
			Int("files_deleted", report.FilesDeleted).
			Int64("usage_bytes", usage).
			Msg("disk quota enforced")
		_ = e.publisher.Publish(events.TopicQuotaEnforced, events.QuotaEnforced{
			BytesReclaimed: report.BytesReclaimed,
			FilesDeleted:   report.FilesDeleted,
			UsageBytes:     usage,
			Timestamp:      time.Now().UTC(),
		})
	}

	return report, nil
}

// DirectorySize returns the total size of regular files under dir.
// Symlinks are not followed, so a link cannot pull external trees into
// the measurement.
func DirectorySize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A file deleted mid-walk is not an error.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

type artifact struct {
	path    string
	size    int64
	modTime time.Time
}

// artifactsByAge lists deletable artifacts in dir, oldest first.
// Ordering is by modification time with filename as tiebreak, so the
// timestamped names keep same-second captures deterministic.
func artifactsByAge(dir string) ([]artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	artifacts := make([]artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, artifactPrefix) || !strings.HasSuffix(name, artifactExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		artifacts = append(artifacts, artifact{
			path:    filepath.Join(dir, name),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].modTime.Equal(artifacts[j].modTime) {
			return artifacts[i].path < artifacts[j].path
		}
		return artifacts[i].modTime.Before(artifacts[j].modTime)
	})
	return artifacts, nil
}

// displayableExts are the image types Latest will surface.
var displayableExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Latest returns the newest displayable image in dir.
func Latest(dir string) (models.Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return models.Artifact{}, fmt.Errorf("read %s: %w", dir, err)
	}

	var (
		found  bool
		latest models.Artifact
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !displayableExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return models.Artifact{}, err
		}
		if !found || info.ModTime().After(latest.Timestamp) {
			found = true
			latest = models.Artifact{
				Path:      filepath.Join(dir, entry.Name()),
				Timestamp: info.ModTime(),
			}
		}
	}

	if !found {
		return models.Artifact{}, ErrNoArtifacts
	}
	return latest, nil
}
