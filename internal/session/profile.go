package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketProfiles = []byte("profiles")
	bucketMeta     = []byte("meta")
	keyCurrent     = []byte("current")
)

// Profile is a saved server + API key pair
type Profile struct {
	Name      string    `json:"name"`
	BaseURL   string    `json:"base_url"`
	APIKey    string    `json:"api_key"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session converts the profile into a request session
func (p *Profile) Session() *Session {
	return New(p.BaseURL, p.APIKey)
}

// ProfileStore persists profiles in a bbolt database
type ProfileStore struct {
	db *bolt.DB
}

// OpenProfileStore opens (or creates) the profile database at path
func OpenProfileStore(path string) (*ProfileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketProfiles); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketMeta); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create profile buckets: %w", err)
	}

	return &ProfileStore{db: db}, nil
}

// Close closes the underlying database
func (s *ProfileStore) Close() error {
	return s.db.Close()
}

// Save creates or replaces a profile
func (s *ProfileStore) Save(p *Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if p.BaseURL == "" {
		return fmt.Errorf("profile %q: base URL is required", p.Name)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketProfiles)

		now := time.Now()
		if existing := bucket.Get([]byte(p.Name)); existing != nil {
			var old Profile
			if err := json.Unmarshal(existing, &old); err == nil {
				p.CreatedAt = old.CreatedAt
			}
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now

		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		return bucket.Put([]byte(p.Name), data)
	})
}

// Get returns a profile by name, or nil when it does not exist
func (s *ProfileStore) Get(name string) (*Profile, error) {
	var p *Profile

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketProfiles).Get([]byte(name))
		if data == nil {
			return nil
		}
		p = &Profile{}
		return json.Unmarshal(data, p)
	})

	return p, err
}

// List returns all profiles sorted by name
func (s *ProfileStore) List() ([]*Profile, error) {
	var profiles []*Profile

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProfiles).ForEach(func(k, v []byte) error {
			p := &Profile{}
			if err := json.Unmarshal(v, p); err != nil {
				return fmt.Errorf("profile %q: %w", k, err)
			}
			profiles = append(profiles, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// Delete removes a profile; the current marker is cleared if it pointed at it
func (s *ProfileStore) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketProfiles)
		if bucket.Get([]byte(name)) == nil {
			return fmt.Errorf("profile %q not found", name)
		}
		if err := bucket.Delete([]byte(name)); err != nil {
			return err
		}

		meta := tx.Bucket(bucketMeta)
		if string(meta.Get(keyCurrent)) == name {
			return meta.Delete(keyCurrent)
		}
		return nil
	})
}

// SetCurrent marks the profile used when none is given explicitly
func (s *ProfileStore) SetCurrent(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketProfiles).Get([]byte(name)) == nil {
			return fmt.Errorf("profile %q not found", name)
		}
		return tx.Bucket(bucketMeta).Put(keyCurrent, []byte(name))
	})
}

// Current returns the current profile, or nil when none is selected
func (s *ProfileStore) Current() (*Profile, error) {
	var name string
	err := s.db.View(func(tx *bolt.Tx) error {
		name = string(tx.Bucket(bucketMeta).Get(keyCurrent))
		return nil
	})
	if err != nil || name == "" {
		return nil, err
	}
	return s.Get(name)
}
