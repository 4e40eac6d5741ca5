// Package store implements the storage of the action journal on top of a
// bbolt database.
package store

import (
	"time"

	bolt "go.etcd.io/bbolt"
	"src.intr.sh/pkg/logutil"
	. "src.intr.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

// Names of buckets.
const bucketAction = "action"

// initDB keeps the functions to initialize the database, run in a single
// transaction when a database is opened.
var initDB = map[string](func(*bolt.Tx) error){}

// DBStore is the permanent storage backend.
type DBStore interface {
	Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// Can be changed in tests.
var now = time.Now

// NewStore creates a new Store from the given file.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				logger.Printf("failed to %s: %v", name, err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *dbStore) Close() error {
	return s.db.Close()
}
