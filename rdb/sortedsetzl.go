package rdb

// SortedSetAsZipList wraps a ziplist blob whose entries alternate
// (value, score-ascii). It flattens pairs for the caller and
// rejects an odd element count, since a sorted set cannot have an
// unpaired member.
type SortedSetAsZipList struct {
	zl *ZipList
}

// NewSortedSetAsZipList constructs a lazy view over the embedded blob.
func NewSortedSetAsZipList(blob []byte) *SortedSetAsZipList {
	return &SortedSetAsZipList{zl: NewZipList(blob)}
}

// Next implements View, returning alternating value/score elements. It
// does not itself enforce evenness (a truncated pair surfaces as a normal
// end-of-stream from the underlying cursor); callers that need the parity
// invariant use ReadAll.
func (s *SortedSetAsZipList) Next() ([]byte, bool, error) {
	return s.zl.Next()
}

// ReadAll drains the view and validates that the total element count is
// even, returning MalformedSortedSetAsZipList otherwise.
func (s *SortedSetAsZipList) ReadAll() ([][]byte, error) {
	var out [][]byte
	for {
		el, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, el)
	}
	if len(out)%2 != 0 {
		return nil, newErr(MalformedSortedSetAsZipList, "odd element count")
	}
	return out, nil
}
