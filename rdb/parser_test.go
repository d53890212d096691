package rdb

import (
	"bytes"
	"io"
	"testing"
)

func header(version string) []byte {
	return append([]byte("REDIS"), []byte(version)...)
}

// S1 — Empty DB: header, EOF opcode, 8 checksum bytes (version >= 5).
func TestScenarioEmptyDB(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(header("0006"))
	buf.WriteByte(0xFF)
	buf.Write([]byte{0, 1, 2, 3, 4, 5, 6, 7})

	p := NewParser(&buf)
	entry, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if entry.Kind != EntryEof {
		t.Fatalf("got kind %v, want Eof", entry.Kind)
	}
	want := [8]byte{0, 1, 2, 3, 4, 5, 6, 7}
	if entry.Checksum != want {
		t.Fatalf("got checksum %v, want %v", entry.Checksum, want)
	}

	_, err = p.Next()
	if err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

// S2 — Version gating: version < 5 means no checksum bytes are read and
// the surfaced checksum is all zeros.
func TestScenarioVersionGating(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(header("0004"))
	buf.WriteByte(0xFF)

	p := NewParser(&buf)
	entry, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if entry.Checksum != [8]byte{} {
		t.Fatalf("got checksum %v, want all zeros", entry.Checksum)
	}
}

// S3 — Single string value: DbSelect then a VALUE key/value pair then Eof.
func TestScenarioSingleStringValue(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(header("0006"))
	buf.Write([]byte{0xFE, 0x00}) // select db 0
	buf.WriteByte(0x00)           // value-type VALUE
	buf.Write([]byte{0x03, 'f', 'o', 'o'})
	buf.Write([]byte{0x03, 'b', 'a', 'r'})
	buf.WriteByte(0xFF)
	buf.Write(make([]byte, 8))

	p := NewParser(&buf)

	dbSelect, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if dbSelect.Kind != EntryDbSelect || dbSelect.DbIndex != 0 {
		t.Fatalf("got %+v", dbSelect)
	}

	kv, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if kv.Kind != EntryKeyValue {
		t.Fatalf("got kind %v, want KeyValue", kv.Kind)
	}
	if kv.Expiry.Unit != ExpiryNone {
		t.Fatalf("got expiry unit %v, want none", kv.Expiry.Unit)
	}
	if string(kv.Key) != "foo" {
		t.Fatalf("got key %q, want foo", kv.Key)
	}
	if kv.Value.Type != ValueTypeValue || string(kv.Value.Single) != "bar" {
		t.Fatalf("got value %+v", kv.Value)
	}

	eof, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if eof.Kind != EntryEof {
		t.Fatalf("got kind %v, want Eof", eof.Kind)
	}
}

// S5 — Milliseconds expiry carries the raw 8 bytes and the right unit.
func TestScenarioMillisecondsExpiry(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(header("0006"))
	buf.WriteByte(0xFC)
	ms := uint64(1_500_000_000_000)
	msBytes := []byte{
		byte(ms), byte(ms >> 8), byte(ms >> 16), byte(ms >> 24),
		byte(ms >> 32), byte(ms >> 40), byte(ms >> 48), byte(ms >> 56),
	}
	buf.Write(msBytes)
	buf.WriteByte(0x00) // VALUE
	buf.Write([]byte{0x01, 'k'})
	buf.Write([]byte{0x01, 'v'})
	buf.WriteByte(0xFF)
	buf.Write(make([]byte, 8))

	p := NewParser(&buf)
	kv, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if kv.Expiry.Unit != ExpiryMilliseconds {
		t.Fatalf("got unit %v, want milliseconds", kv.Expiry.Unit)
	}
	if !bytes.Equal(kv.Expiry.Raw, msBytes) {
		t.Fatalf("got raw %v, want %v", kv.Expiry.Raw, msBytes)
	}
}

// S6 — HASHMAP_AS_ZIPLIST value exposes a lazy [a, 1] sequence.
func TestScenarioHashMapAsZipList(t *testing.T) {
	blob := buildZipList(ziplistStrEntry("a"), ziplistStrEntry("1"))

	var buf bytes.Buffer
	buf.Write(header("0006"))
	buf.WriteByte(13) // HASHMAP_AS_ZIPLIST
	buf.Write([]byte{0x01, 'h'})
	buf.Write(append([]byte{byte(len(blob))}, blob...))
	buf.WriteByte(0xFF)
	buf.Write(make([]byte, 8))

	p := NewParser(&buf)
	kv, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	view := kv.Value.Embedded
	var got []string
	for {
		el, ok, err := view.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, string(el))
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "1" {
		t.Fatalf("got %v, want [a 1]", got)
	}
}

func TestInvalidMagicRejected(t *testing.T) {
	p := NewParser(bytes.NewReader([]byte("NOTREDIS0006")))
	_, err := p.Next()
	rdbErr, ok := err.(*Error)
	if !ok || rdbErr.Kind != InvalidMagic {
		t.Fatalf("got %v, want InvalidMagic", err)
	}
}

func TestUnsupportedVersionRejected(t *testing.T) {
	p := NewParser(bytes.NewReader(header("0009")))
	_, err := p.Next()
	rdbErr, ok := err.(*Error)
	if !ok || rdbErr.Kind != UnsupportedVersion {
		t.Fatalf("got %v, want UnsupportedVersion", err)
	}
}

func TestParserLatchesFirstError(t *testing.T) {
	p := NewParser(bytes.NewReader(header("0009")))
	_, err1 := p.Next()
	_, err2 := p.Next()
	if err1 != err2 {
		t.Fatalf("expected the same latched error, got %v then %v", err1, err2)
	}
}

func TestListAndSetYieldExactLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(header("0006"))
	buf.WriteByte(1) // LIST
	buf.Write([]byte{0x01, 'l'})
	buf.WriteByte(0x03) // length 3
	buf.Write([]byte{0x01, 'a'})
	buf.Write([]byte{0x01, 'b'})
	buf.Write([]byte{0x01, 'c'})
	buf.WriteByte(0xFF)
	buf.Write(make([]byte, 8))

	p := NewParser(&buf)
	kv, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if len(kv.Value.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(kv.Value.Items))
	}
}

func TestHashYieldsFlattenedPairs(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(header("0006"))
	buf.WriteByte(4) // HASH
	buf.Write([]byte{0x01, 'h'})
	buf.WriteByte(0x02) // length 2 pairs -> 4 flattened items
	buf.Write([]byte{0x01, 'f', 0x01, '1'})
	buf.Write([]byte{0x01, 'g', 0x01, '2'})
	buf.WriteByte(0xFF)
	buf.Write(make([]byte, 8))

	p := NewParser(&buf)
	kv, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if len(kv.Value.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(kv.Value.Items))
	}
}

func TestDeprecatedZipmapRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(header("0006"))
	buf.WriteByte(9) // ZIPMAP
	buf.Write([]byte{0x01, 'k'})

	p := NewParser(&buf)
	_, err := p.Next()
	rdbErr, ok := err.(*Error)
	if !ok || rdbErr.Kind != DeprecatedZipmap {
		t.Fatalf("got %v, want DeprecatedZipmap", err)
	}
}

func TestUnknownValueTypeRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(header("0006"))
	buf.WriteByte(200) // not a recognized value-type byte
	buf.Write([]byte{0x01, 'k'})

	p := NewParser(&buf)
	_, err := p.Next()
	rdbErr, ok := err.(*Error)
	if !ok || rdbErr.Kind != UnknownValueType {
		t.Fatalf("got %v, want UnknownValueType", err)
	}
}

func TestTruncatedStreamRejected(t *testing.T) {
	p := NewParser(bytes.NewReader([]byte("RED")))
	_, err := p.Next()
	rdbErr, ok := err.(*Error)
	if !ok || rdbErr.Kind != TruncatedStream {
		t.Fatalf("got %v, want TruncatedStream", err)
	}
}
