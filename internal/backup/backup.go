// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

// Package backup snapshots the settings store on a schedule and prunes
// old snapshots. Losing the store only costs tuned profiles and
// coordinates, but on a camera that has been dialed in over months
// that is worth a daily file.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
	"github.com/WarpSpeedNine/CosmiCam/internal/settings"
)

const (
	backupPrefix = "settings_"
	backupExt    = ".bak"

	filenameLayout = "settings_20060102_150405.bak"
)

// RetentionPolicy bounds how many snapshots survive a prune.
type RetentionPolicy struct {
	// MaxCount keeps at most this many snapshots, newest first.
	MaxCount int
	// MaxAge deletes snapshots older than this. The newest snapshot
	// is never deleted by age alone.
	MaxAge time.Duration
}

// DefaultRetentionPolicy keeps a week of daily snapshots.
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{MaxCount: 7, MaxAge: 7 * 24 * time.Hour}
}

// Manager writes and prunes settings snapshots.
type Manager struct {
	store  *settings.Store
	dir    string
	policy RetentionPolicy
	logger zerolog.Logger
	now    func() time.Time
}

// NewManager creates a Manager writing snapshots into dir.
func NewManager(store *settings.Store, dir string, policy RetentionPolicy) *Manager {
	if policy.MaxCount <= 0 {
		policy.MaxCount = DefaultRetentionPolicy().MaxCount
	}
	return &Manager{
		store:  store,
		dir:    dir,
		policy: policy,
		logger: logging.With().Str("component", "backup").Logger(),
		now:    time.Now,
	}
}

// Run writes one snapshot and applies retention.
func (m *Manager) Run() error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	path := filepath.Join(m.dir, m.now().Format(filenameLayout))
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := m.store.Backup(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize snapshot: %w", err)
	}

	m.logger.Info().Str("path", path).Msg("settings snapshot written")
	return m.prune()
}

// prune deletes snapshots beyond the retention policy.
func (m *Manager) prune() error {
	snapshots, err := m.list()
	if err != nil {
		return err
	}

	// Newest first; everything past MaxCount goes, as does anything
	// older than MaxAge except the newest snapshot.
	cutoff := time.Time{}
	if m.policy.MaxAge > 0 {
		cutoff = m.now().Add(-m.policy.MaxAge)
	}

	for i, snap := range snapshots {
		keep := i < m.policy.MaxCount && (cutoff.IsZero() || snap.modTime.After(cutoff) || i == 0)
		if keep {
			continue
		}
		if err := os.Remove(snap.path); err != nil {
			m.logger.Warn().Err(err).Str("path", snap.path).Msg("failed to prune snapshot")
			continue
		}
		m.logger.Debug().Str("path", snap.path).Msg("snapshot pruned")
	}
	return nil
}

type snapshot struct {
	path    string
	modTime time.Time
}

// list returns snapshots newest first.
func (m *Manager) list() ([]snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	snapshots := make([]snapshot, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, snapshot{
			path:    filepath.Join(m.dir, name),
			modTime: info.ModTime(),
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].modTime.After(snapshots[j].modTime)
	})
	return snapshots, nil
}

// Service runs snapshots on an interval under the supervisor.
type Service struct {
	manager  *Manager
	interval time.Duration
}

// NewService wraps manager with a daily default cadence.
func NewService(manager *Manager, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Service{manager: manager, interval: interval}
}

// Serve implements suture.Service. The first snapshot is written
// shortly after startup so a fresh install is covered before the
// first full interval elapses.
func (s *Service) Serve(ctx context.Context) error {
	initial := time.NewTimer(time.Minute)
	defer initial.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-initial.C:
		if err := s.manager.Run(); err != nil {
			s.manager.logger.Error().Err(err).Msg("startup snapshot failed")
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.manager.Run(); err != nil {
				s.manager.logger.Error().Err(err).Msg("scheduled snapshot failed")
			}
		}
	}
}

// String names the service for supervisor logs.
func (s *Service) String() string { return "settings-backup" }
