// Package sstid computes stable, universally unique identifiers for the table
// files of an LSM storage engine.
//
// A table file records three facts about its origin: the identity of its
// database (DB ID), the session that wrote it (a 20-character base-36 session
// ID) and its file number. From these, sstid derives a 128-bit ID, or a
// 192-bit extended ID, that is guaranteed unique among files written by one
// process and is unique across hosts with overwhelming probability. The IDs
// are persisted, so every function that produces them is long-term stable.
//
// # Basic Usage
//
// Computing the public ID of a file:
//
//	props := sstid.TableProperties{
//	    DBID:           []byte(dbID),
//	    DBSessionID:    sessionID,
//	    OrigFileNumber: 42,
//	}
//	id, err := sstid.GetUniqueIDFromTableProperties(props)
//	if err != nil {
//	    log.Fatal(err) // NotSupported: the file predates unique IDs
//	}
//	fmt.Println(sstid.UniqueIDToHumanString(id))
//
// Generating session IDs for a new writer:
//
//	gen := sstid.NewSessionIDGenerator()
//	session := gen.NextString()
//
// Computing many IDs in parallel:
//
//	results, err := sstid.UniqueIDs(ctx, props,
//	    sstid.WithWorkers(8),
//	    sstid.WithTemporaryFallback())
//
// # Internal and external IDs
//
// GetSSTInternalUniqueID produces a structured internal ID: word 0 is the
// session's lower half and word 1 mixes a hash of the DB ID with the file
// number. InternalUniqueIDToExternal passes the first 128 bits through an
// invertible mix so every prefix of the public ID has full entropy. The
// all-zero ID maps to itself in both directions and is reserved as null.
//
// # Package Structure
//
//   - Public API: unique_id.go (ID types, transforms, encodings),
//     session.go (session ID codec, generator), table_properties.go
//   - Batch computation: batch.go, options.go (Option, With* functions)
//   - Hashing: hashing/ (Hash64, Hash2x64, bijective mixer), internal/xxph3/
//   - Encoding: coding/ (fixed-width and varint), internal/basechars/
//   - Errors: status/ (Status value), errors/ (sentinels)
//   - File names: filename/
//   - Persisted property sets: propsfile/
package sstid
