// Package migrate replays a decoded snapshot into a local bbolt database,
// one bucket per source database index, so the keyspace can be queried
// without re-walking the original RDB file.
package migrate

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/rdbwalk/rdbwalk/protocol"
	"github.com/rdbwalk/rdbwalk/rdb"
)

// record is the self-describing envelope written for every key: a type
// tag plus its decoded payload, so a later reader never has to guess at
// the shape of Single or Items.
type record struct {
	Type   protocol.DataType `json:"type"`
	Single string            `json:"single,omitempty"`
	Items  []string          `json:"items,omitempty"`
	Expiry string            `json:"expiry,omitempty"`
}

// Loader drives an rdb.Parser to completion and writes every key/value
// entry it produces into a bbolt database.
type Loader struct {
	db        *bolt.DB
	log       *logrus.Logger
	entries   int
	bytesRead int64
}

// Open opens (or creates) the bbolt file at path.
func Open(path string, log *logrus.Logger) (*Loader, error) {
	db, err := bolt.Open(path, 0666, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening bolt store %q", path)
	}
	if log == nil {
		log = logrus.New()
	}
	return &Loader{db: db, log: log}, nil
}

// Close releases the underlying bbolt file.
func (l *Loader) Close() error {
	return l.db.Close()
}

// Stats summarizes a completed migration run.
type Stats struct {
	Databases int
	Keys      int
}

// Run pulls every entry from p and writes it into the store. A DbSelect
// entry switches the active bucket; a KeyValue entry is written into it;
// Eof stops the walk. Embedded views (ziplist/intset/sorted-set-as-ziplist)
// are fully drained into Items before being written, since bbolt values
// must be self-contained byte slices.
func (l *Loader) Run(p *rdb.Parser) (Stats, error) {
	var stats Stats
	bucket := "0"

	for {
		entry, err := p.Next()
		if err == io.EOF {
			l.bytesRead = p.BytesRead()
			return stats, nil
		}
		if err != nil {
			l.bytesRead = p.BytesRead()
			return stats, errors.Wrap(err, "decoding snapshot")
		}
		l.entries++

		switch entry.Kind {
		case rdb.EntryDbSelect:
			bucket = fmt.Sprintf("%d", entry.DbIndex)
			stats.Databases++
		case rdb.EntryKeyValue:
			rec, err := toRecord(entry)
			if err != nil {
				return stats, errors.Wrapf(err, "materializing key %q", entry.Key)
			}
			if err := l.put(bucket, entry.Key, rec); err != nil {
				return stats, err
			}
			stats.Keys++
			l.log.WithFields(logrus.Fields{"bucket": bucket, "key": string(entry.Key)}).Debug("migrated key")
		case rdb.EntryEof:
			l.bytesRead = p.BytesRead()
			return stats, nil
		}
	}
}

// RunningStats reports cumulative counters for an in-progress or
// completed Run call, for inspectapi's /stats endpoint.
type RunningStats struct {
	Entries   int
	BytesRead int64
}

func (l *Loader) RunningStats() RunningStats {
	return RunningStats{Entries: l.entries, BytesRead: l.bytesRead}
}

// Record is the exported shape of a migrated key, decoded back out of
// its JSON envelope for inspectapi responses.
type Record struct {
	Key    string            `json:"key"`
	Type   protocol.DataType `json:"type"`
	Single string            `json:"single,omitempty"`
	Items  []string          `json:"items,omitempty"`
	Expiry string            `json:"expiry,omitempty"`
}

// ListKeys decodes every key/value pair stored in bucket.
func (l *Loader) ListKeys(bucket string) ([]Record, error) {
	var out []Record
	err := l.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(bucket))
		if bkt == nil {
			return errors.Errorf("bucket %q not found", bucket)
		}
		return bkt.ForEach(func(k, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return errors.Wrapf(err, "unmarshaling key %q", k)
			}
			out = append(out, Record{
				Key:    string(k),
				Type:   rec.Type,
				Single: rec.Single,
				Items:  rec.Items,
				Expiry: rec.Expiry,
			})
			return nil
		})
	})
	return out, err
}

func toRecord(entry rdb.Entry) (record, error) {
	rec := record{Type: protocol.NameOf(entry.Value.Type)}
	if entry.Expiry.Unit != rdb.ExpiryNone {
		rec.Expiry = entry.Expiry.Unit.String()
	}

	switch entry.Value.Kind {
	case rdb.ValueSingle:
		rec.Single = string(entry.Value.Single)
	case rdb.ValueList, rdb.ValuePairs:
		for _, item := range entry.Value.Items {
			rec.Items = append(rec.Items, string(item))
		}
	case rdb.ValueView:
		for {
			el, ok, err := entry.Value.Embedded.Next()
			if err != nil {
				return record{}, err
			}
			if !ok {
				break
			}
			rec.Items = append(rec.Items, string(el))
		}
	}
	return rec, nil
}

func (l *Loader) put(bucket string, key []byte, rec record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshaling record")
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return bkt.Put(key, payload)
	})
}

// Get looks up a single migrated key, returning its JSON envelope as
// stored (not unmarshaled).
func (l *Loader) Get(bucket string, key []byte) ([]byte, error) {
	var payload []byte
	err := l.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(bucket))
		if bkt == nil {
			return errors.Errorf("bucket %q not found", bucket)
		}
		raw := bkt.Get(key)
		if raw == nil {
			return errors.Errorf("key %q not found in bucket %q", key, bucket)
		}
		payload = append(payload, raw...)
		return nil
	})
	return payload, err
}

// Buckets lists the database-index buckets currently in the store.
func (l *Loader) Buckets() ([]string, error) {
	var names []string
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}
