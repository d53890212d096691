// Package protocol names the logical Redis data types that an rdb.Value
// can carry, independent of which on-disk encoding produced it.
// ValueTypeZipList and ValueTypeHashMapAsZipList, for instance, are both
// ziplist blobs on disk but surface as DataType List and Hash
// respectively — this package is the seam that keeps that mapping in one
// place.
package protocol

import "github.com/rdbwalk/rdbwalk/rdb"

// DataType is the logical Redis type a decoded value represents.
type DataType string

var (
	SelectDB  DataType = "SelectDB"
	String    DataType = "String"
	List      DataType = "List"
	Set       DataType = "Set"
	SortedSet DataType = "SortedSet"
	Hash      DataType = "Hash"
	Unknown   DataType = "Unknown"
)

// NameOf maps the raw on-disk value-type byte to its logical data type.
func NameOf(t rdb.ValueType) DataType {
	switch t {
	case rdb.ValueTypeValue:
		return String
	case rdb.ValueTypeList, rdb.ValueTypeZipList:
		return List
	case rdb.ValueTypeSet, rdb.ValueTypeIntSet:
		return Set
	case rdb.ValueTypeSortedSet, rdb.ValueTypeSortedSetAsZipList:
		return SortedSet
	case rdb.ValueTypeHash, rdb.ValueTypeZipMap, rdb.ValueTypeHashMapAsZipList:
		return Hash
	default:
		return Unknown
	}
}

// TypeObject is a read surface over a decoded value: a string form and a
// logical type. No package in this module implements it.
type TypeObject interface {
	String() string
	Type() DataType
}
