// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package diskspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeArtifact creates an artifact of size bytes with the given mod
// time so eviction order is deterministic.
func writeArtifact(t *testing.T, dir, name string, size int, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func TestEnforceNoOpUnderQuota(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeArtifact(t, dir, "image_20260101_000000.jpg", 1000, base)

	report, err := NewEnforcer(dir, nil).EnforceIfNeeded(10_000)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if report.Enforced || report.FilesDeleted != 0 || report.BytesReclaimed != 0 {
		t.Errorf("report = %+v, want no-op", report)
	}
	if report.UsageBytes != 1000 {
		t.Errorf("usage = %d, want 1000", report.UsageBytes)
	}
}

func TestEnforceDeletesOldestFirst(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	oldest := writeArtifact(t, dir, "image_20260101_000000.jpg", 4000, base)
	middle := writeArtifact(t, dir, "image_20260101_000100.jpg", 4000, base.Add(time.Minute))
	newest := writeArtifact(t, dir, "image_20260101_000200.jpg", 4000, base.Add(2*time.Minute))

	// 12000 bytes used against a 10000 byte quota; watermark is 9000,
	// so exactly one deletion suffices and it must be the oldest.
	report, err := NewEnforcer(dir, nil).EnforceIfNeeded(10_000)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if !report.Enforced || report.FilesDeleted != 1 || report.BytesReclaimed != 4000 {
		t.Errorf("report = %+v, want 1 file / 4000 bytes", report)
	}
	if _, err := os.Stat(oldest); !errors.Is(err, os.ErrNotExist) {
		t.Error("oldest artifact survived, want deleted")
	}
	for _, path := range []string{middle, newest} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("artifact %s deleted, want kept", filepath.Base(path))
		}
	}
}

func TestEnforceReclaimsToWatermark(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	// 120 files of 1000 bytes against a 100000 byte quota: usage must
	// fall to the 90000 watermark, deleting the 30 oldest.
	for i := 0; i < 120; i++ {
		writeArtifact(t, dir, artifactName(i), 1000, base.Add(time.Duration(i)*time.Second))
	}

	report, err := NewEnforcer(dir, nil).EnforceIfNeeded(100_000)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if report.FilesDeleted != 30 {
		t.Errorf("deleted %d files, want 30", report.FilesDeleted)
	}
	if report.UsageBytes != 90_000 {
		t.Errorf("usage after = %d, want 90000", report.UsageBytes)
	}
}

func artifactName(i int) string {
	return time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC).Format("image_20060102_150405.jpg")
}

func TestEnforceIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	foreign := writeArtifact(t, dir, "notes.txt", 50_000, base)
	kept := writeArtifact(t, dir, "image_20260101_000100.jpg", 1000, base.Add(time.Minute))

	// Foreign file pushes usage over quota but only artifacts may be
	// deleted, so the pass ends without reaching the watermark.
	report, err := NewEnforcer(dir, nil).EnforceIfNeeded(10_000)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("foreign file deleted, want kept")
	}
	if _, err := os.Stat(kept); err == nil {
		// The single artifact is fair game.
		t.Log("artifact deleted during partial reclamation")
	}
	if report.UsageBytes <= 10_000 {
		t.Errorf("usage = %d, expected partial reclamation above quota", report.UsageBytes)
	}
}

func TestDirectorySizeSkipsSymlinks(t *testing.T) {
	outside := t.TempDir()
	writeArtifact(t, outside, "image_20260101_000000.jpg", 100_000, time.Now())

	dir := t.TempDir()
	writeArtifact(t, dir, "image_20260101_000100.jpg", 1000, time.Now())
	if err := os.Symlink(outside, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	size, err := DirectorySize(dir)
	if err != nil {
		t.Fatalf("directory size: %v", err)
	}
	if size != 1000 {
		t.Errorf("size = %d, want 1000 (symlink target excluded)", size)
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()

	if _, err := Latest(dir); !errors.Is(err, ErrNoArtifacts) {
		t.Errorf("Latest(empty) = %v, want ErrNoArtifacts", err)
	}

	base := time.Now().Add(-time.Hour)
	writeArtifact(t, dir, "image_20260101_000000.jpg", 10, base)
	want := writeArtifact(t, dir, "capture.png", 10, base.Add(time.Minute))
	writeArtifact(t, dir, "notes.txt", 10, base.Add(2*time.Minute))

	got, err := Latest(dir)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.Path != want {
		t.Errorf("latest = %s, want %s (txt excluded)", got.Path, want)
	}
}
