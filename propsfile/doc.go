// Package propsfile stores table-properties records in a self-contained,
// checksummed file so unique IDs can be recomputed for many table files
// offline.
//
// A file is written once with Write and read through a memory mapping:
//
//	if err := propsfile.Write(path, records); err != nil { ... }
//	r, err := propsfile.Open(path)
//	if err != nil { ... }
//	defer r.Close()
//	for p, err := range r.All() { ... }
//
// Layout, all integers little-endian:
//
//	[Header 32B][Offsets N×8B][Records][Footer 16B]
//
// Each record is a varint64 file number followed by the length-prefixed DB
// ID and session ID. The footer holds an xxHash64 of the offsets and
// records regions, checked by Verify.
package propsfile
