package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/zombor/bill-tracker/internal/bill"
)

const (
	snapshotBucketName = "snapshots"
	latestSnapshotKey  = "latest"
)

// ErrNoSnapshot is returned before the first successful poll has been stored.
var ErrNoSnapshot = errors.New("no snapshot stored")

// DB persists the latest poll snapshot across restarts.
type DB interface {
	// SaveSnapshot stores the snapshot as the latest result
	SaveSnapshot(snapshot *bill.Snapshot) error

	// GetSnapshot returns the latest stored snapshot, or ErrNoSnapshot
	GetSnapshot() (*bill.Snapshot, error)

	// Close closes the database
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(snapshotBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveSnapshot stores the snapshot under the fixed latest key. Only the
// latest poll result is kept; there is no cross-cycle history.
func (b *BoltDB) SaveSnapshot(snapshot *bill.Snapshot) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucketName))
		data, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("marshaling snapshot: %w", err)
		}
		return bucket.Put([]byte(latestSnapshotKey), data)
	})
}

// GetSnapshot returns the latest stored snapshot.
func (b *BoltDB) GetSnapshot() (*bill.Snapshot, error) {
	var snapshot *bill.Snapshot
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucketName))
		data := bucket.Get([]byte(latestSnapshotKey))
		if data == nil {
			return ErrNoSnapshot
		}
		return json.Unmarshal(data, &snapshot)
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
