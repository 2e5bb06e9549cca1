package sstid

import (
	"fmt"
	"strings"

	"github.com/tamirms/sstid/coding"
	sstiderrors "github.com/tamirms/sstid/errors"
	"github.com/tamirms/sstid/hashing"
)

// Offsets added before the external mixing step so that an all-zero internal
// ID maps to an all-zero external ID. The values carry no other meaning.
const (
	HiOffsetForZero uint64 = 17391078804906429400
	LoOffsetForZero uint64 = 6417269962128484497
)

// UniqueID64x2 is a 128-bit unique ID stored as [lower, upper].
// The zero value is the null ID and is never produced for a real file.
type UniqueID64x2 [2]uint64

// UniqueID64x3 is a 192-bit unique ID stored as [lower, mid, upper].
// Its first two words equal the UniqueID64x2 built from the same inputs.
type UniqueID64x3 [3]uint64

// UniqueID64x2Null returns the reserved null 128-bit ID.
func UniqueID64x2Null() UniqueID64x2 { return UniqueID64x2{} }

// UniqueID64x3Null returns the reserved null 192-bit ID.
func UniqueID64x3Null() UniqueID64x3 { return UniqueID64x3{} }

func (id UniqueID64x2) IsNull() bool { return id == UniqueID64x2{} }
func (id UniqueID64x3) IsNull() bool { return id == UniqueID64x3{} }

// UniqueIDPtr is a view over the words of a UniqueID64x2 or UniqueID64x3 so
// the internal/external transforms can be written once for both widths.
// It must not outlive the ID it was taken from.
type UniqueIDPtr struct {
	words []uint64
}

// Ptr returns a view over id.
func (id *UniqueID64x2) Ptr() UniqueIDPtr { return UniqueIDPtr{words: id[:]} }

// Ptr returns a view over id.
func (id *UniqueID64x3) Ptr() UniqueIDPtr { return UniqueIDPtr{words: id[:]} }

// Extended reports whether the view covers a 192-bit ID.
func (p UniqueIDPtr) Extended() bool { return len(p.words) == 3 }

// InternalUniqueIDToExternal converts an internal ID in place to its public
// form. The first 128 bits pass through a bijective mix, so every prefix of
// the external ID has full entropy. The transform is 1-to-1 on the first 128
// bits and on the full 192 bits, and must stay stable forever.
func InternalUniqueIDToExternal(p UniqueIDPtr) {
	w := p.words
	hi, lo := hashing.BijectiveHash2x64(w[1]+HiOffsetForZero, w[0]+LoOffsetForZero)
	w[0] = lo
	w[1] = hi
	if p.Extended() {
		w[2] += lo + hi
	}
}

// ExternalUniqueIDToInternal inverts InternalUniqueIDToExternal in place.
func ExternalUniqueIDToInternal(p UniqueIDPtr) {
	w := p.words
	lo, hi := w[0], w[1]
	if p.Extended() {
		w[2] -= lo + hi
	}
	hi, lo = hashing.BijectiveUnhash2x64(hi, lo)
	w[0] = lo - LoOffsetForZero
	w[1] = hi - HiOffsetForZero
}

// ToExternal returns the external form of an internal ID.
func (id UniqueID64x2) ToExternal() UniqueID64x2 {
	InternalUniqueIDToExternal(id.Ptr())
	return id
}

// ToInternal returns the internal form of an external ID.
func (id UniqueID64x2) ToInternal() UniqueID64x2 {
	ExternalUniqueIDToInternal(id.Ptr())
	return id
}

func (id UniqueID64x3) ToExternal() UniqueID64x3 {
	InternalUniqueIDToExternal(id.Ptr())
	return id
}

func (id UniqueID64x3) ToInternal() UniqueID64x3 {
	ExternalUniqueIDToInternal(id.Ptr())
	return id
}

// GetSSTInternalUniqueID fills id with the internal unique ID of a table file.
// It computes the 192-bit form and keeps the first two words; id is left
// unchanged on error.
func (id *UniqueID64x2) GetSSTInternalUniqueID(dbID []byte, dbSessionID string, fileNumber uint64, force bool) error {
	var x3 UniqueID64x3
	if err := x3.GetSSTInternalUniqueID(dbID, dbSessionID, fileNumber, force); err != nil {
		return err
	}
	id[0], id[1] = x3[0], x3[1]
	return nil
}

// GetSSTInternalUniqueID fills id with the internal unique ID of a table file
// identified by its DB identity, the session that created it and its file
// number.
//
// Missing inputs or a malformed session ID fail with a NotSupported status
// unless force is set. With force, a session ID that does not decode is
// hashed instead, so temporary IDs can still be produced. id is left
// unchanged on error.
func (id *UniqueID64x3) GetSSTInternalUniqueID(dbID []byte, dbSessionID string, fileNumber uint64, force bool) error {
	if !force {
		if len(dbID) == 0 {
			return sstiderrors.ErrMissingDBID
		}
		if fileNumber == 0 {
			return sstiderrors.ErrBadFileNumber
		}
		if dbSessionID == "" {
			return sstiderrors.ErrMissingSessionID
		}
	}

	sessionUpper, sessionLower, err := DecodeSessionID(dbSessionID)
	if err != nil {
		if !force {
			return err
		}
		sessionUpper, sessionLower = hashing.Hash2x64([]byte(dbSessionID))
		if sessionLower == 0 {
			sessionLower = sessionUpper | 1
		}
	}

	// Lower is preserved exactly so IDs from one process never collide.
	id[0] = sessionLower

	dbA, dbB := hashing.Hash2x64WithSeed(dbID, sessionUpper)
	id[1] = dbA ^ fileNumber
	id[2] = dbB
	return nil
}

// EncodeBytes returns the 16-byte little-endian encoding of id.
func (id UniqueID64x2) EncodeBytes() []byte {
	b := make([]byte, 0, 16)
	b = coding.PutFixed64(b, id[0])
	return coding.PutFixed64(b, id[1])
}

// DecodeBytes is the inverse of EncodeBytes. b must be exactly 16 bytes.
func (id *UniqueID64x2) DecodeBytes(b []byte) error {
	if len(b) != 16 {
		return sstiderrors.ErrInvalidUniqueID
	}
	id[0] = coding.DecodeFixed64(b[0:])
	id[1] = coding.DecodeFixed64(b[8:])
	return nil
}

// EncodeBytes returns the 24-byte little-endian encoding of id.
func (id UniqueID64x3) EncodeBytes() []byte {
	b := make([]byte, 0, 24)
	b = coding.PutFixed64(b, id[0])
	b = coding.PutFixed64(b, id[1])
	return coding.PutFixed64(b, id[2])
}

// DecodeBytes is the inverse of EncodeBytes. b must be exactly 24 bytes.
func (id *UniqueID64x3) DecodeBytes(b []byte) error {
	if len(b) != 24 {
		return sstiderrors.ErrInvalidUniqueID
	}
	id[0] = coding.DecodeFixed64(b[0:])
	id[1] = coding.DecodeFixed64(b[8:])
	id[2] = coding.DecodeFixed64(b[16:])
	return nil
}

// InternalHumanString formats an internal ID for debugging, e.g. "{1,2}".
// It is deliberately unlike UniqueIDToHumanString so the two forms are not
// confused.
func (id UniqueID64x2) InternalHumanString() string {
	return fmt.Sprintf("{%d,%d}", id[0], id[1])
}

func (id UniqueID64x3) InternalHumanString() string {
	return fmt.Sprintf("{%d,%d,%d}", id[0], id[1], id[2])
}

// UniqueIDToHumanString renders an encoded unique ID (or any prefix of one)
// as uppercase hex with '-' between 8-byte groups, e.g.
// 6474DF650323BDF0-B48E64F3039308CA-17284B32E7F7444B.
func UniqueIDToHumanString(id []byte) string {
	var sb strings.Builder
	sb.Grow(len(id)*2 + len(id)/8)
	for i, c := range id {
		if i > 0 && i%8 == 0 {
			sb.WriteByte('-')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}
