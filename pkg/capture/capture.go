/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package capture records received PDU datagrams in a bbolt database,
// one bucket per exercise, keyed by an insertion sequence.
package capture

import (
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"
	"go.etcd.io/bbolt"

	"emsn.eu/stm/go-dis/pkg/dis"
	"emsn.eu/stm/go-dis/pkg/layers"
	"emsn.eu/stm/go-dis/pkg/log"
)

const (
	BucketNamePrefix = "exercise_"
)

type Store struct {
	DB *bbolt.DB
}

// Record is one captured datagram with its decoded header summary.
type Record struct {
	Seq       uint64      `json:"seq"`
	PduType   dis.PduType `json:"pduType"`
	Timestamp uint32      `json:"timestamp"`
	Length    uint16      `json:"length"`
	Data      []byte      `json:"data"`
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() {
	s.DB.Close()
}

func bucketName(exerciseID uint8) []byte {
	return []byte(fmt.Sprintf("%s%d", BucketNamePrefix, exerciseID))
}

func seqToKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// Put appends a raw datagram to the exercise bucket.
func (s *Store) Put(exerciseID uint8, data []byte) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(exerciseID))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqToKey(seq), data)
	})
}

// List returns up to limit most recent records for an exercise, newest
// first. Datagrams whose header does not decode are skipped.
func (s *Store) List(exerciseID uint8, limit int) ([]Record, error) {
	var records []Record
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName(exerciseID))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(records) >= limit {
				break
			}
			l := &layers.DISLayer{}
			if err := l.DecodeFromBytes(v, gopacket.NilDecodeFeedback); err != nil {
				log.Debug("Skipping captured datagram with bad header: %s", err)
				continue
			}
			records = append(records, Record{
				Seq:       binary.BigEndian.Uint64(k),
				PduType:   l.PduType,
				Timestamp: l.Timestamp,
				Length:    l.Length,
				Data:      append([]byte(nil), v...),
			})
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}
