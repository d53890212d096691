package rdb

import (
	"encoding/binary"
	"strconv"
)

// zipListCursor is a forward-only cursor over an owned ziplist blob. It
// never mutates the blob; constructing a fresh cursor over the same bytes
// always yields the same sequence.
type zipListCursor struct {
	data []byte
	pos  int
	left int // remaining elements, -1 if unknown (count was 0xFFFF)
	done bool
}

// ZipList wraps an opaque ziplist blob and lazily yields its
// elements on demand via Next.
type ZipList struct {
	blob   []byte
	cursor *zipListCursor
}

// NewZipList constructs a lazy view over an owned ziplist blob.
func NewZipList(blob []byte) *ZipList { return &ZipList{blob: blob} }

// Iterate returns a fresh, independent cursor over the blob.
func (z *ZipList) Iterate() (*zipListCursor, error) {
	if len(z.blob) < 11 {
		return nil, newErr(MalformedZipList, "ziplist blob shorter than header")
	}
	count := binary.LittleEndian.Uint16(z.blob[8:10])
	left := int(count)
	if count == 0xFFFF {
		left = -1
	}
	return &zipListCursor{data: z.blob, pos: 10, left: left}, nil
}

// Next implements View by delegating to a single internal cursor created
// on first use, so a *ZipList itself can be handed out as a rdb.View.
func (z *ZipList) Next() ([]byte, bool, error) {
	if z.cursor == nil {
		c, err := z.Iterate()
		if err != nil {
			return nil, false, err
		}
		z.cursor = c
	}
	return z.cursor.Next()
}

// Next validates the trailing 0xFF end marker as it goes: whichever comes
// first, a declared count reaching zero or the marker byte, must agree
// with the other, or the blob is rejected as malformed.
func (c *zipListCursor) Next() ([]byte, bool, error) {
	if c.done {
		return nil, false, nil
	}
	if c.pos >= len(c.data) {
		return nil, false, newErr(MalformedZipList, "ran off end of blob before terminator")
	}
	if c.data[c.pos] == 0xFF {
		if c.left > 0 {
			return nil, false, newErr(MalformedZipList, "end marker before declared element count reached")
		}
		c.done = true
		return nil, false, nil
	}
	if c.left == 0 {
		return nil, false, newErr(MalformedZipList, "declared element count reached without end marker")
	}

	if err := c.skipPrevLen(); err != nil {
		return nil, false, err
	}

	element, err := c.readEntryPayload()
	if err != nil {
		return nil, false, err
	}
	if c.left > 0 {
		c.left--
	}
	return element, true, nil
}

func (c *zipListCursor) skipPrevLen() error {
	if c.pos >= len(c.data) {
		return newErr(MalformedZipList, "truncated prev-len byte")
	}
	p := c.data[c.pos]
	c.pos++
	if p == 254 {
		if c.pos+4 > len(c.data) {
			return newErr(MalformedZipList, "truncated 4-byte prev-len")
		}
		c.pos += 4
	}
	return nil
}

func (c *zipListCursor) readEntryPayload() ([]byte, error) {
	if c.pos >= len(c.data) {
		return nil, newErr(MalformedZipList, "truncated encoding byte")
	}
	e := c.data[c.pos]
	c.pos++

	switch {
	case e>>6 == 0x00: // 00: 6-bit string length
		n := int(e & 0x3f)
		return c.takeBytes(n)
	case e>>6 == 0x01: // 01: 14-bit string length
		if c.pos >= len(c.data) {
			return nil, newErr(MalformedZipList, "truncated 14-bit length")
		}
		next := c.data[c.pos]
		c.pos++
		n := (int(e&0x3f) << 8) | int(next)
		return c.takeBytes(n)
	case e>>6 == 0x02: // 10: skip byte, then 4-byte big-endian length
		if c.pos+4 > len(c.data) {
			return nil, newErr(MalformedZipList, "truncated 32-bit length")
		}
		n := int(binary.BigEndian.Uint32(c.data[c.pos : c.pos+4]))
		c.pos += 4
		return c.takeBytes(n)
	case e == 0xC0:
		raw, err := c.take(2)
		if err != nil {
			return nil, err
		}
		v := int16(binary.LittleEndian.Uint16(raw))
		return []byte(strconv.FormatInt(int64(v), 10)), nil
	case e == 0xD0:
		raw, err := c.take(4)
		if err != nil {
			return nil, err
		}
		v := int32(binary.LittleEndian.Uint32(raw))
		return []byte(strconv.FormatInt(int64(v), 10)), nil
	case e == 0xE0:
		raw, err := c.take(8)
		if err != nil {
			return nil, err
		}
		v := int64(binary.LittleEndian.Uint64(raw))
		return []byte(strconv.FormatInt(v, 10)), nil
	case e == 0xFE:
		raw, err := c.take(1)
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatInt(int64(int8(raw[0])), 10)), nil
	case e&0xF0 == 0xF0:
		// 4-bit immediate integer, values 0..12 after subtracting 1.
		v := int64(e&0x0F) - 1
		return []byte(strconv.FormatInt(v, 10)), nil
	default:
		return nil, newErr(MalformedZipList, "unrecognized encoding byte")
	}
}

func (c *zipListCursor) take(n int) ([]byte, error) {
	if c.pos+n > len(c.data) {
		return nil, newErr(MalformedZipList, "truncated fixed-width field")
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *zipListCursor) takeBytes(n int) ([]byte, error) {
	raw, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, raw)
	return out, nil
}
