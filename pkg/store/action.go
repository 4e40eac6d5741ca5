package store

import (
	"encoding/binary"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"
	"src.intr.sh/pkg/signals"
	. "src.intr.sh/pkg/store/storedefs"
)

func init() {
	initDB["initialize action journal"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketAction))
		return err
	}
}

// The value stored for each journal entry; the sequence number is the key.
type actionRecord struct {
	Action signals.Action `json:"action"`
	Time   time.Time      `json:"time"`
}

// NextActionSeq returns the sequence number the next journal entry will get.
func (s *dbStore) NextActionSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAction))
		seq = b.Sequence() + 1
		return nil
	})
	return int(seq), err
}

// AddAction adds a new entry to the journal, and returns its sequence number.
func (s *dbStore) AddAction(a signals.Action) (int, error) {
	value, err := json.Marshal(actionRecord{a, now()})
	if err != nil {
		return 0, err
	}
	var seq uint64
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAction))
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), value)
	})
	return int(seq), err
}

// Actions returns the journal entries with sequence numbers in [from, upto).
func (s *dbStore) Actions(from, upto int) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketAction)).Cursor()
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil && unmarshalSeq(k) < uint64(upto); k, v = c.Next() {
			entry, err := unmarshalEntry(k, v)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// LastAction returns the latest journal entry.
func (s *dbStore) LastAction() (Entry, error) {
	var entry Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		k, v := tx.Bucket([]byte(bucketAction)).Cursor().Last()
		if k == nil {
			return ErrNoAction
		}
		var err error
		entry, err = unmarshalEntry(k, v)
		return err
	})
	return entry, err
}

func unmarshalEntry(k, v []byte) (Entry, error) {
	var rec actionRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return Entry{}, err
	}
	return Entry{Seq: int(unmarshalSeq(k)), Action: rec.Action, Time: rec.Time}, nil
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
