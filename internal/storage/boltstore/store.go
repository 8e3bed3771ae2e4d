// Package boltstore keeps player records in a bbolt database, one JSON value
// per username in the players bucket.
package boltstore

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	bbolt "go.etcd.io/bbolt"

	"github.com/totorewa/folderbot/internal/player"
)

var bucketPlayers = []byte("players")

// Store wraps a bbolt database. It implements player.Store.
type Store struct {
	bolt *bbolt.DB
}

// Open opens or creates the database file and ensures the players bucket
// exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPlayers)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltstore: create buckets: %w", err)
	}
	return &Store{bolt: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	if s.bolt != nil {
		return s.bolt.Close()
	}
	return nil
}

// Path returns the filesystem path of the underlying bbolt database.
func (s *Store) Path() string {
	if s.bolt != nil {
		return s.bolt.Path()
	}
	return ""
}

// LoadAll returns every player in key order.
func (s *Store) LoadAll(_ context.Context) ([]player.Player, error) {
	var players []player.Player
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPlayers).ForEach(func(k, v []byte) error {
			p := player.New(string(k))
			if err := json.Unmarshal(v, p); err != nil {
				return fmt.Errorf("boltstore: decode player %q: %w", k, err)
			}
			players = append(players, *p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return players, nil
}

// SaveAll replaces the bucket contents with players in one transaction.
func (s *Store) SaveAll(_ context.Context, players []player.Player) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketPlayers); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketPlayers)
		if err != nil {
			return err
		}
		for i := range players {
			data, err := json.Marshal(&players[i])
			if err != nil {
				return fmt.Errorf("boltstore: encode player %q: %w", players[i].Username, err)
			}
			if err := b.Put([]byte(players[i].Username), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Put persists a single player (write-through).
func (s *Store) Put(p player.Player) error {
	data, err := json.Marshal(&p)
	if err != nil {
		return fmt.Errorf("boltstore: encode player %q: %w", p.Username, err)
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPlayers).Put([]byte(p.Username), data)
	})
}
