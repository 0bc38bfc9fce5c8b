// Package bbolt implements the ports.DictionaryStore interface using bbolt
// (embedded B+ tree). Each dictionary gets its own top-level bucket. Within
// that bucket, "meta" holds the value policy and "entries" maps each keyword
// to its JSON-serialized value. Writes are transactional: a crash mid-write
// cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/corey/ahoc/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketMeta    = []byte("meta")
	bucketEntries = []byte("entries")
	keyPolicy     = []byte("policy")
)

// ErrNoDictionary is returned when writing to a dictionary that was never created.
var ErrNoDictionary = errors.New("dictionary does not exist")

// ErrPolicyConflict is returned when re-creating a dictionary with another policy.
var ErrPolicyConflict = errors.New("dictionary exists with a different policy")

// Store implements ports.DictionaryStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.DictionaryStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing database with a shared lock, so several
// readers can coexist with each other (but not with a writer).
func OpenReadOnly(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("bbolt open read-only: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// entryJSON is the stored form of an entry; the keyword is the bucket key.
type entryJSON struct {
	Value    string `json:"value,omitempty"`
	HasValue bool   `json:"has_value,omitempty"`
}

// CreateDictionary creates name with the given policy.
func (s *Store) CreateDictionary(name, policy string) error {
	if name == "" {
		return fmt.Errorf("empty dictionary name")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		dict, err := tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		meta, err := dict.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		if _, err := dict.CreateBucketIfNotExists(bucketEntries); err != nil {
			return err
		}
		if existing := meta.Get(keyPolicy); existing != nil {
			if string(existing) != policy {
				return fmt.Errorf("%w: %q uses %q, not %q", ErrPolicyConflict, name, existing, policy)
			}
			return nil
		}
		return meta.Put(keyPolicy, []byte(policy))
	})
}

// PutEntry inserts or replaces one entry.
func (s *Store) PutEntry(name string, entry ports.Entry) error {
	if entry.Keyword == "" {
		return fmt.Errorf("empty keyword")
	}
	data, err := json.Marshal(entryJSON{Value: entry.Value, HasValue: entry.HasValue})
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		eb, err := entries(tx, name)
		if err != nil {
			return err
		}
		return eb.Put([]byte(entry.Keyword), data)
	})
}

// DeleteEntry removes keyword and reports whether it was present.
func (s *Store) DeleteEntry(name, keyword string) (bool, error) {
	var found bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		eb, err := entries(tx, name)
		if err != nil {
			return err
		}
		if eb.Get([]byte(keyword)) == nil {
			return nil
		}
		found = true
		return eb.Delete([]byte(keyword))
	})
	return found, err
}

func entries(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	dict := tx.Bucket([]byte(name))
	if dict == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoDictionary, name)
	}
	eb := dict.Bucket(bucketEntries)
	if eb == nil {
		return nil, fmt.Errorf("%w: %q has no entries bucket", ErrNoDictionary, name)
	}
	return eb, nil
}

// LoadDictionary returns the dictionary with entries in keyword byte order.
// Returns nil, nil if no dictionary exists.
func (s *Store) LoadDictionary(name string) (*ports.Dictionary, error) {
	var d *ports.Dictionary

	err := s.db.View(func(tx *bolt.Tx) error {
		dict := tx.Bucket([]byte(name))
		if dict == nil {
			return nil
		}
		d = &ports.Dictionary{Name: name}
		if meta := dict.Bucket(bucketMeta); meta != nil {
			// Copy bytes out of the transaction (bbolt slices are only valid within tx)
			d.Policy = string(meta.Get(keyPolicy))
		}
		eb := dict.Bucket(bucketEntries)
		if eb == nil {
			return nil
		}
		return eb.ForEach(func(k, v []byte) error {
			var ej entryJSON
			if err := json.Unmarshal(v, &ej); err != nil {
				return fmt.Errorf("unmarshal entry %q: %w", k, err)
			}
			d.Entries = append(d.Entries, ports.Entry{
				Keyword:  string(k),
				Value:    ej.Value,
				HasValue: ej.HasValue,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if d != nil {
		d.Fingerprint = Fingerprint(d.Policy, d.Entries)
	}
	return d, nil
}

// ListDictionaries returns all dictionary names in sorted order.
func (s *Store) ListDictionaries() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}

// DropDictionary removes a dictionary and all its entries.
// Idempotent: dropping a nonexistent dictionary is not an error.
func (s *Store) DropDictionary(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(name)); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// Fingerprint hashes a policy and its entries in order. Two dictionaries with
// the same policy and the same entries in the same order hash identically.
func Fingerprint(policy string, entries []ports.Entry) uint64 {
	h := xxhash.New()
	h.WriteString(policy)
	h.Write([]byte{0})
	for _, e := range entries {
		h.WriteString(e.Keyword)
		if e.HasValue {
			h.Write([]byte{0, 1})
			h.WriteString(e.Value)
		} else {
			h.Write([]byte{0, 0})
		}
		h.Write([]byte{0})
	}
	return h.Sum64()
}
