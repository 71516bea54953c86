// Package store persists built profiles to a Pebble-backed key-value store,
// keyed by model kind and profile id, so a synthesis run can pick up a
// profile built in an earlier process.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog/log"

	"github.com/mariobadr/statistical-simulation/hrd"
	"github.com/mariobadr/statistical-simulation/mocktails"
	"github.com/mariobadr/statistical-simulation/stm"
)

// Kind names the modeling method a stored profile belongs to.
type Kind string

const (
	KindHRD       Kind = "hrd"
	KindSTM       Kind = "stm"
	KindMocktails Kind = "mocktails"
)

// Store wraps a Pebble database used purely as a profile sink: every value
// is a gob-encoded profile, keyed by kind and id.
type Store struct {
	db *pebble.DB
}

// Open creates or reopens a profile store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying Pebble handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func profileKey(kind Kind, id uint32) []byte {
	return []byte(fmt.Sprintf("%s/%010d", kind, id))
}

func (s *Store) put(kind Kind, id uint32, profile any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(profile); err != nil {
		return fmt.Errorf("store: encode %s profile %d: %w", kind, id, err)
	}

	if err := s.db.Set(profileKey(kind, id), buf.Bytes(), pebble.Sync); err != nil {
		return fmt.Errorf("store: write %s profile %d: %w", kind, id, err)
	}

	log.Debug().Str("kind", string(kind)).Uint32("id", id).Int("bytes", buf.Len()).Msg("stored profile")

	return nil
}

func (s *Store) get(kind Kind, id uint32, profile any) error {
	value, closer, err := s.db.Get(profileKey(kind, id))
	if err != nil {
		if err == pebble.ErrNotFound {
			return fmt.Errorf("store: %s profile %d: %w", kind, id, ErrProfileNotFound)
		}
		return fmt.Errorf("store: read %s profile %d: %w", kind, id, err)
	}
	defer closer.Close()

	return gob.NewDecoder(bytes.NewReader(value)).Decode(profile)
}

// PutHRD persists an HRD profile under id.
func (s *Store) PutHRD(id uint32, p *hrd.Profile) error {
	return s.put(KindHRD, id, p)
}

// GetHRD loads a previously persisted HRD profile.
func (s *Store) GetHRD(id uint32) (*hrd.Profile, error) {
	var p hrd.Profile
	if err := s.get(KindHRD, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PutSTM persists an STM profile under id.
func (s *Store) PutSTM(id uint32, p *stm.Profile) error {
	return s.put(KindSTM, id, p)
}

// GetSTM loads a previously persisted STM profile.
func (s *Store) GetSTM(id uint32) (*stm.Profile, error) {
	var p stm.Profile
	if err := s.get(KindSTM, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PutMocktails persists a mocktails profile under id.
func (s *Store) PutMocktails(id uint32, p *mocktails.Profile) error {
	return s.put(KindMocktails, id, p)
}

// GetMocktails loads a previously persisted mocktails profile.
func (s *Store) GetMocktails(id uint32) (*mocktails.Profile, error) {
	var p mocktails.Profile
	if err := s.get(KindMocktails, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
