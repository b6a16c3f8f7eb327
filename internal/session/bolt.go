package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketName = []byte("session")
	keyToken   = []byte("token")
	keyUser    = []byte("user")
)

// BoltStore keeps the session in a bbolt file, one bucket with the token and
// the JSON-encoded user.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

func NewBoltStore(db *bbolt.DB) *BoltStore {
	return &BoltStore{db: db}
}

// OpenBoltStore opens (or creates) the session file at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	return NewBoltStore(db), nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Load(ctx context.Context) (State, error) {
	var st State
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		st.Token = string(b.Get(keyToken))
		if raw := b.Get(keyUser); raw != nil {
			if err := json.Unmarshal(raw, &st.User); err != nil {
				return fmt.Errorf("decoding session user: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return State{}, err
	}
	return st, nil
}

func (s *BoltStore) Save(ctx context.Context, st State) error {
	raw, err := json.Marshal(st.User)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		if err := b.Put(keyToken, []byte(st.Token)); err != nil {
			return err
		}
		return b.Put(keyUser, raw)
	})
}

func (s *BoltStore) Clear(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketName) == nil {
			return nil
		}
		return tx.DeleteBucket(bucketName)
	})
}
