package rdb

import (
	"encoding/binary"
	"strconv"
)

// IntSet wraps an opaque intset blob and lazily yields its elements
// as ASCII decimal strings on demand.
type IntSet struct {
	data  []byte
	width int
	count int
	next  int
}

// NewIntSet parses the intset header (element width, element count) and
// returns a lazy view. It validates the width eagerly because a bad width
// makes every subsequent element boundary meaningless.
func NewIntSet(blob []byte) (*IntSet, error) {
	if len(blob) < 8 {
		return nil, newErr(MalformedIntSet, "intset blob shorter than header")
	}
	width := int(binary.LittleEndian.Uint32(blob[0:4]))
	if width != 2 && width != 4 && width != 8 {
		return nil, newErr(MalformedIntSet, "unsupported intset element width")
	}
	count := int(binary.LittleEndian.Uint32(blob[4:8]))
	return &IntSet{data: blob[8:], width: width, count: count}, nil
}

// Next implements View.
func (s *IntSet) Next() ([]byte, bool, error) {
	if s.next >= s.count {
		return nil, false, nil
	}
	off := s.next * s.width
	if off+s.width > len(s.data) {
		return nil, false, newErr(MalformedIntSet, "truncated intset element")
	}
	raw := s.data[off : off+s.width]
	s.next++

	var v int64
	switch s.width {
	case 2:
		v = int64(int16(binary.LittleEndian.Uint16(raw)))
	case 4:
		v = int64(int32(binary.LittleEndian.Uint32(raw)))
	case 8:
		v = int64(binary.LittleEndian.Uint64(raw))
	}
	return []byte(strconv.FormatInt(v, 10)), true, nil
}
