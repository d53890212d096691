package rdb

import "testing"

func TestSortedSetAsZipListEvenPairs(t *testing.T) {
	blob := buildZipList(ziplistStrEntry("member"), ziplistStrEntry("1.5"))
	zl := NewSortedSetAsZipList(blob)
	items, err := zl.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || string(items[0]) != "member" || string(items[1]) != "1.5" {
		t.Fatalf("got %v", items)
	}
}

func TestSortedSetAsZipListOddRejected(t *testing.T) {
	blob := buildZipList(ziplistStrEntry("member"))
	zl := NewSortedSetAsZipList(blob)
	_, err := zl.ReadAll()
	rdbErr, ok := err.(*Error)
	if !ok || rdbErr.Kind != MalformedSortedSetAsZipList {
		t.Fatalf("got %v, want MalformedSortedSetAsZipList", err)
	}
}
