package rdb

import (
	"encoding/binary"
	"strconv"
)

const (
	specialInt8  = 0
	specialInt16 = 1
	specialInt32 = 2
	specialLZF   = 3
)

// readStringEncoded decodes a length-prefixed raw string, or one
// of the four special encodings (three integer widths and LZF).
func (p *Parser) readStringEncoded() ([]byte, error) {
	length, special, err := p.readLengthOrSpecial()
	if err != nil {
		return nil, err
	}
	if !special {
		return p.src.readExact(int(length))
	}

	switch length {
	case specialInt8:
		b, err := p.src.readByte()
		if err != nil {
			return nil, err
		}
		// Deliberately unsigned: int8-special values round-trip
		// through an unsigned byte rather than a signed one.
		return []byte(strconv.FormatUint(uint64(b), 10)), nil
	case specialInt16:
		raw, err := p.src.readExact(2)
		if err != nil {
			return nil, err
		}
		v := binary.LittleEndian.Uint16(raw)
		return []byte(strconv.FormatUint(uint64(v), 10)), nil
	case specialInt32:
		raw, err := p.src.readExact(4)
		if err != nil {
			return nil, err
		}
		v := int32(binary.LittleEndian.Uint32(raw))
		return []byte(strconv.FormatInt(int64(v), 10)), nil
	case specialLZF:
		return p.readLZFString()
	default:
		return nil, newErr(UnknownSpecialEncoding, "string special subtype outside 0..3")
	}
}

// readLZFString reads the clen/ulen length prefixes, the compressed bytes,
// and expands them.
func (p *Parser) readLZFString() ([]byte, error) {
	clen, err := p.readLength()
	if err != nil {
		return nil, err
	}
	ulen, err := p.readLength()
	if err != nil {
		return nil, err
	}
	compressed, err := p.src.readExact(int(clen))
	if err != nil {
		return nil, err
	}
	dst := make([]byte, ulen)
	expandLZF(compressed, dst)
	return dst, nil
}

// readDouble decodes a length byte that is either a sentinel
// (-inf/inf/nan) or the count of following ASCII-decimal bytes.
func (p *Parser) readDouble() ([]byte, error) {
	b, err := p.src.readByte()
	if err != nil {
		return nil, err
	}
	switch b {
	case 255:
		return []byte("-inf"), nil
	case 254:
		return []byte("inf"), nil
	case 253:
		return []byte("nan"), nil
	default:
		return p.src.readExact(int(b))
	}
}
