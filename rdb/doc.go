// Package rdb decodes the on-disk snapshot format of a Redis-compatible
// in-memory key-value store. It reads an arbitrary io.Reader and yields a
// lazy sequence of database-selection markers, key/value pairs, and a
// terminating end-of-file record.
//
// Parsing a snapshot
//
// Example of reading every entry from an RDB file:
//
//  f, err := os.Open("/var/lib/redis/dump.rdb")
//  if err != nil {
//  	log.Fatal(err)
//  }
//  p := rdb.NewParser(f)
//  defer p.Close()
//
//  for {
//  	entry, err := p.Next()
//  	if err == io.EOF {
//  		break
//  	}
//  	if err != nil {
//  		log.Fatal(err)
//  	}
//  	switch entry.Kind {
//  	case rdb.EntryDbSelect:
//  		fmt.Println("selected db", entry.DbIndex)
//  	case rdb.EntryKeyValue:
//  		fmt.Printf("%s (%s)\n", entry.Key, entry.Value.Type)
//  	case rdb.EntryEof:
//  		fmt.Println("checksum", entry.Checksum)
//  	}
//  }
//
// A Parser is single-use and single-threaded: Next() advances an internal
// cursor and the byte buffers it hands back are owned independently of
// that cursor, so callers may retain entries across further calls without
// copying them defensively.
//
// Decode failures are returned as *Error, which carries a Kind a caller
// can switch on instead of matching error strings. Once Next returns a
// non-nil error, the same error is returned on every later call — the
// parser does not attempt to resynchronize with the stream.
package rdb
