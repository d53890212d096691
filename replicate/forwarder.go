package replicate

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rdbwalk/rdbwalk/rdb"
)

// Forwarder drives an rdb.Parser to completion, issuing one or more RESP
// commands per entry over conn. It never writes snapshot bytes — only
// live protocol traffic derived from already-decoded entries.
type Forwarder struct {
	conn net.Conn
	r    *bufio.Reader
	log  *logrus.Logger
}

// NewForwarder wraps conn for replication.
func NewForwarder(conn net.Conn, log *logrus.Logger) *Forwarder {
	if log == nil {
		log = logrus.New()
	}
	return &Forwarder{conn: conn, r: bufio.NewReader(conn), log: log}
}

// Stats summarizes a completed replication run.
type Stats struct {
	Databases int
	Commands  int
}

// Run pulls every entry from p and forwards it as one or more RESP
// commands, waiting for and discarding each reply before continuing so
// that a connection failure is surfaced as soon as it happens.
func (f *Forwarder) Run(p *rdb.Parser) (Stats, error) {
	var stats Stats
	db := uint64(0)

	for {
		entry, err := p.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, errors.Wrap(err, "decoding snapshot")
		}

		switch entry.Kind {
		case rdb.EntryDbSelect:
			db = entry.DbIndex
			if err := f.send(EncodeCommand("SELECT", strconv.FormatUint(db, 10))); err != nil {
				return stats, err
			}
			stats.Commands++
			stats.Databases++
		case rdb.EntryKeyValue:
			n, err := f.forwardKeyValue(entry)
			if err != nil {
				return stats, err
			}
			stats.Commands += n
		case rdb.EntryEof:
			return stats, nil
		}
	}
}

func (f *Forwarder) forwardKeyValue(entry rdb.Entry) (int, error) {
	key := string(entry.Key)
	commands, err := commandsFor(key, entry.Value)
	if err != nil {
		return 0, errors.Wrapf(err, "building command for key %q", key)
	}
	if expireCmd := expireCommand(key, entry.Expiry); expireCmd != nil {
		commands = append(commands, expireCmd)
	}
	for _, args := range commands {
		if err := f.send(EncodeCommand(args...)); err != nil {
			return 0, err
		}
	}
	return len(commands), nil
}

// expireCommand builds the PEXPIREAT companion command for a decoded
// expiry, converting seconds to milliseconds so only one expiry command
// shape ever needs to be issued.
func expireCommand(key string, expiry rdb.Expiry) []string {
	switch expiry.Unit {
	case rdb.ExpirySeconds:
		secs := binary.LittleEndian.Uint32(expiry.Raw)
		return []string{"PEXPIREAT", key, strconv.FormatUint(uint64(secs)*1000, 10)}
	case rdb.ExpiryMilliseconds:
		ms := binary.LittleEndian.Uint64(expiry.Raw)
		return []string{"PEXPIREAT", key, strconv.FormatUint(ms, 10)}
	default:
		return nil
	}
}

// commandsFor materializes a decoded Value into the RESP commands that
// would recreate it on a live server.
func commandsFor(key string, v rdb.Value) ([][]string, error) {
	switch v.Kind {
	case rdb.ValueSingle:
		return [][]string{{"SET", key, string(v.Single)}}, nil

	case rdb.ValueList:
		return [][]string{append(listCommandName(v.Type), append([]string{key}, toStrings(v.Items)...)...)}, nil

	case rdb.ValuePairs:
		return [][]string{pairsCommand(key, v.Type, toStrings(v.Items))}, nil

	case rdb.ValueView:
		items, err := drain(v.Embedded)
		if err != nil {
			return nil, err
		}
		switch v.Type {
		case rdb.ValueTypeIntSet:
			return [][]string{append([]string{"SADD", key}, items...)}, nil
		case rdb.ValueTypeSortedSetAsZipList:
			return [][]string{pairsCommand(key, rdb.ValueTypeSortedSet, items)}, nil
		case rdb.ValueTypeHashMapAsZipList:
			return [][]string{pairsCommand(key, rdb.ValueTypeHash, items)}, nil
		default: // ValueTypeZipList: generic list, member order preserved
			return [][]string{append([]string{"RPUSH", key}, items...)}, nil
		}

	default:
		return nil, errors.Errorf("unsupported value kind %v", v.Kind)
	}
}

func listCommandName(t rdb.ValueType) []string {
	if t == rdb.ValueTypeSet {
		return []string{"SADD"}
	}
	return []string{"RPUSH"}
}

// pairsCommand reorders flattened pairs into the wire order each command
// expects: ZADD wants score before member, HSET wants field before value
// which is already the decoder's flattening order.
func pairsCommand(key string, t rdb.ValueType, items []string) []string {
	if t == rdb.ValueTypeSortedSet {
		args := []string{"ZADD", key}
		for i := 0; i+1 < len(items); i += 2 {
			args = append(args, items[i+1], items[i])
		}
		return args
	}
	return append([]string{"HSET", key}, items...)
}

func drain(view rdb.View) ([]string, error) {
	var out []string
	for {
		el, ok, err := view.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, string(el))
	}
}

func toStrings(items [][]byte) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = string(it)
	}
	return out
}

func (f *Forwarder) send(cmd []byte) error {
	if _, err := f.conn.Write(cmd); err != nil {
		return errors.Wrap(err, "writing command")
	}
	reply, err := ReadReply(f.r)
	if err != nil {
		return errors.Wrap(err, "reading reply")
	}
	f.log.WithField("reply", reply).Debug(fmt.Sprintf("forwarded %s", cmd))
	return nil
}
