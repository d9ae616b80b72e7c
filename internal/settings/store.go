// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package settings

import (
	"errors"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Document names recognized by the store.
const (
	DocCoordinates    = "coordinates"
	DocCameraProfiles = "camera_profiles"
	DocSystem         = "system_settings"
)

const settingsKeyPrefix = "settings:"

var (
	// ErrUnknownDocument is returned for a document name the store
	// does not manage.
	ErrUnknownDocument = errors.New("unknown settings document")

	// ErrDocumentNotFound is returned when a known document has no
	// stored value. Seeding on Open makes this unreachable in normal
	// operation.
	ErrDocumentNotFound = errors.New("settings document not found")
)

func knownDocument(name string) bool {
	switch name {
	case DocCoordinates, DocCameraProfiles, DocSystem:
		return true
	}
	return false
}

// Store is a BadgerDB-backed document store for runtime settings.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the settings database at path and seeds any
// missing documents with their defaults.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	s := &Store{db: db}
	if err := s.seedDefaults(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// OpenInMemory opens a non-persistent store, for tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory settings db: %w", err)
	}

	s := &Store{db: db}
	if err := s.seedDefaults(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Backup streams a full snapshot of the database to w, using Badger's
// online backup so readers and writers are not blocked.
func (s *Store) Backup(w io.Writer) error {
	if _, err := s.db.Backup(w, 0); err != nil {
		return fmt.Errorf("backup settings db: %w", err)
	}
	return nil
}

// seedDefaults writes the default value for every document that has no
// stored value yet. Existing documents are left untouched.
func (s *Store) seedDefaults() error {
	for name, def := range defaultDocuments() {
		err := s.db.Update(func(txn *badger.Txn) error {
			key := []byte(settingsKeyPrefix + name)
			_, err := txn.Get(key)
			if err == nil {
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check document %s: %w", name, err)
			}

			data, err := json.Marshal(def)
			if err != nil {
				return fmt.Errorf("marshal default %s: %w", name, err)
			}
			return txn.Set(key, data)
		})
		if err != nil {
			return fmt.Errorf("seed document %s: %w", name, err)
		}
	}
	return nil
}

// Get unmarshals the named document into out. Out must be a pointer.
func (s *Store) Get(name string, out any) error {
	if !knownDocument(name) {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, name)
	}

	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(settingsKeyPrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("get document %s: %w", name, err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, out); err != nil {
				return fmt.Errorf("unmarshal document %s: %w", name, err)
			}
			return nil
		})
	})
}

// GetDocument returns the named document as a generic map, for
// merge-based updates.
func (s *Store) GetDocument(name string) (map[string]any, error) {
	var doc map[string]any
	if err := s.Get(name, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Put overwrites the named document with doc.
func (s *Store) Put(name string, doc any) error {
	if !knownDocument(name) {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, name)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", name, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(settingsKeyPrefix+name), data)
	})
}

// Update merges patch over the stored document and writes the result
// back. Nested objects merge recursively; any other value in the patch
// replaces the stored one. The merged document is written atomically
// but readers between the read and the write may observe the old value.
func (s *Store) Update(name string, patch map[string]any) error {
	current, err := s.GetDocument(name)
	if err != nil {
		return err
	}
	return s.Put(name, mergeDocuments(current, patch))
}

// mergeDocuments returns base with patch applied. Base is modified in
// place.
func mergeDocuments(base, patch map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		pv, patchIsMap := v.(map[string]any)
		bv, baseIsMap := base[k].(map[string]any)
		if patchIsMap && baseIsMap {
			base[k] = mergeDocuments(bv, pv)
			continue
		}
		base[k] = v
	}
	return base
}
