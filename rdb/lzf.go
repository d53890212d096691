package rdb

// expandLZF expands the LZF-compressed buffer src into dst, writing
// exactly len(dst) bytes. It trusts the caller's ulen exactly: a mismatch
// between src and dst is a bug in the producer, not something this
// function can recover from.
//
// A control byte's top 3 bits select a literal run (copy ctrl+1 bytes
// verbatim) or a back-reference (copy len bytes from dst at a negative
// offset, one byte at a time so a distance of 1 self-replicates the
// trailing pattern).
func expandLZF(src, dst []byte) {
	i, o := 0, 0
	for i < len(src) {
		ctrl := int(src[i])
		i++

		if ctrl < 1<<5 {
			// Literal run of ctrl+1 bytes.
			n := ctrl + 1
			copy(dst[o:o+n], src[i:i+n])
			i += n
			o += n
			continue
		}

		length := ctrl >> 5
		if length == 7 {
			length += int(src[i])
			i++
		}
		length += 2

		b := src[i]
		i++
		distance := ((ctrl & 0x1f) << 8) | int(b)
		ref := o - distance - 1

		for x := 0; x < length; x++ {
			dst[o] = dst[ref]
			ref++
			o++
		}
	}
}
