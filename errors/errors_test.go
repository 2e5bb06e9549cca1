package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tamirms/sstid/status"
)

func TestSentinelMessages(t *testing.T) {
	tests := []struct {
		err  status.Status
		want string
	}{
		{ErrMissingDBID, "Not implemented: Missing db_id"},
		{ErrBadFileNumber, "Not implemented: Missing or bad file number"},
		{ErrMissingSessionID, "Not implemented: Missing db_session_id"},
		{ErrSessionIDTooShort, "Not implemented: Too short db_session_id"},
		{ErrSessionIDTooLong, "Not implemented: Too long db_session_id"},
		{ErrBadSessionIDDigit, "Not implemented: Bad digit in db_session_id"},
		{ErrInvalidUniqueID, "Not implemented: Not a valid unique_id"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
		assert.True(t, tt.err.IsNotSupported())
	}
}

func TestSentinelCodes(t *testing.T) {
	for _, err := range []status.Status{ErrInvalidMagic, ErrInvalidVersion, ErrTruncatedFile, ErrChecksumFailed, ErrCorruptedFile} {
		assert.True(t, err.IsCorruption(), err.Error())
	}
	for _, err := range []status.Status{ErrFileClosed, ErrRecordOutOfRange} {
		assert.True(t, err.IsInvalidArgument(), err.Error())
	}
}

func TestSentinelsDistinct(t *testing.T) {
	all := []status.Status{
		ErrMissingDBID, ErrBadFileNumber, ErrMissingSessionID, ErrSessionIDTooShort,
		ErrSessionIDTooLong, ErrBadSessionIDDigit, ErrInvalidUniqueID,
		ErrInvalidMagic, ErrInvalidVersion, ErrTruncatedFile, ErrChecksumFailed,
		ErrCorruptedFile, ErrFileClosed, ErrRecordOutOfRange,
	}
	for i, a := range all {
		wrapped := fmt.Errorf("context: %w", a)
		for j, b := range all {
			assert.Equal(t, i == j, stderrors.Is(wrapped, b), "%v vs %v", a, b)
		}
	}
}
