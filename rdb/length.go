package rdb

import "encoding/binary"

// lengthFlag is the top two bits of a length-prefix byte.
type lengthFlag byte

const (
	flag6Bit  lengthFlag = 0x00
	flag14Bit lengthFlag = 0x01
	flag32Bit lengthFlag = 0x02
	flagSpecial lengthFlag = 0x03
)

// readLength decodes the 1/2/5-byte length-prefix encoding.
// It fails with UnexpectedSpecialEncoding if the byte's flag is the
// "special string" marker (11) — callers that can legitimately see a
// special encoding use readLengthOrSpecial instead.
func (p *Parser) readLength() (uint64, error) {
	length, special, err := p.readLengthOrSpecial()
	if err != nil {
		return 0, err
	}
	if special {
		return 0, newErr(UnexpectedSpecialEncoding, "length required but special-string flag seen")
	}
	return length, nil
}

// readLengthOrSpecial decodes the same 1/2/5-byte encoding but reports
// whether the byte carried the special-string flag (11) instead of
// failing. When special is true, the returned length is actually the
// 6-bit subtype selector.
func (p *Parser) readLengthOrSpecial() (length uint64, special bool, err error) {
	b, err := p.src.readByte()
	if err != nil {
		return 0, false, err
	}

	switch lengthFlag(b >> 6) {
	case flag6Bit:
		return uint64(b & 0x3f), false, nil
	case flag14Bit:
		next, err := p.src.readByte()
		if err != nil {
			return 0, false, err
		}
		return uint64(b&0x3f)<<8 | uint64(next), false, nil
	case flag32Bit:
		raw, err := p.src.readExact(4)
		if err != nil {
			return 0, false, err
		}
		v := binary.BigEndian.Uint32(raw)
		if v&0x80000000 != 0 {
			return 0, false, newErr(OversizedString, "32-bit big-endian length has sign bit set")
		}
		return uint64(v), false, nil
	default: // flagSpecial
		return uint64(b & 0x3f), true, nil
	}
}
