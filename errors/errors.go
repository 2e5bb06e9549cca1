// Package errors defines all exported error sentinels for the sstid library.
//
// This is the single source of truth for error values. Every sentinel is a
// status.Status, so callers can either match with errors.Is or inspect the
// code and message directly. Both the top-level sstid package and the
// propsfile package import from here, ensuring errors.Is checks work across
// package boundaries.
package errors

import "github.com/tamirms/sstid/status"

// Unique ID errors. The messages are part of the observable contract.
var (
	ErrMissingDBID       = status.NotSupported("Missing db_id")
	ErrBadFileNumber     = status.NotSupported("Missing or bad file number")
	ErrMissingSessionID  = status.NotSupported("Missing db_session_id")
	ErrSessionIDTooShort = status.NotSupported("Too short db_session_id")
	ErrSessionIDTooLong  = status.NotSupported("Too long db_session_id")
	ErrBadSessionIDDigit = status.NotSupported("Bad digit in db_session_id")
	ErrInvalidUniqueID   = status.NotSupported("Not a valid unique_id")
)

// Properties file errors
var (
	ErrInvalidMagic     = status.Corruption("sstid: invalid magic number")
	ErrInvalidVersion   = status.Corruption("sstid: unsupported version")
	ErrTruncatedFile    = status.Corruption("sstid: properties file is truncated")
	ErrChecksumFailed   = status.Corruption("sstid: file checksum verification failed")
	ErrCorruptedFile    = status.Corruption("sstid: properties data is corrupted")
	ErrFileClosed       = status.InvalidArgument("sstid: properties file is closed")
	ErrRecordOutOfRange = status.InvalidArgument("sstid: record index out of range")
)
