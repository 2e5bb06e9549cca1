package status

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsOK(t *testing.T) {
	var s Status
	assert.True(t, s.OK())
	assert.Equal(t, OK(), s)
	assert.Equal(t, "OK", s.String())
	assert.NoError(t, s.Err())
	_, has := s.Message()
	assert.False(t, has)
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		s    Status
		want string
	}{
		{"ok", OK(), "OK"},
		{"ok overwritten", OKOverwritten(), "OK"},
		{"not found bare", NotFound(), "NotFound: "},
		{"not found msg", NotFound("key"), "NotFound: key"},
		{"two parts", Corruption("bad block", "offset 12"), "Corruption: bad block: offset 12"},
		{"empty second part", InvalidArgument("x", ""), "Invalid argument: x"},
		{"not supported", NotSupported("Missing db_id"), "Not implemented: Missing db_id"},
		{"io error", IOError("disk"), "IO error: disk"},
		{"merge", MergeInProgress(), "Merge in progress: "},
		{"incomplete", Incomplete("partial"), "Result incomplete: partial"},
		{"shutdown", ShutdownInProgress(), "Shutdown in progress: "},
		{"timed out", TimedOut(), "Operation timed out: "},
		{"aborted", Aborted("stop"), "Operation aborted: stop"},
		{"busy", Busy(), "Resource busy: "},
		{"expired", Expired(), "Operation expired: "},
		{"try again", TryAgain(), "Operation failed. Try again.: "},
		{"compaction too large", CompactionTooLarge(), "Compaction too large: "},
		{"cf dropped", ColumnFamilyDropped(), "Column family dropped: "},
		{"memory limit no msg", MemoryLimit(), "Operation aborted: Memory limit reached"},
		{"memory limit msg", MemoryLimit("arena"), "Operation aborted: Memory limit reached: arena"},
		{"no space", NoSpace(), "IO error: No space left on device"},
		{"space limit", SpaceLimit("sst"), "IO error: Space limit reached: sst"},
		{"path not found", PathNotFound("/tmp/x"), "IO error: No such file or directory: /tmp/x"},
		{"txn not prepared", TxnNotPrepared(), "Invalid argument: Txn not prepared"},
		{"deadlock", New(BusyCode, DeadlockSubCode, NoError), "Resource busy: Deadlock"},
		{"io fenced", New(IOErrorCode, IOFencedSubCode, NoError, "peer"), "IO error: IO fenced off: peer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.String())
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, OKOverwritten().OK())
	assert.True(t, OKOverwritten().IsOKOverwritten())
	assert.False(t, OK().IsOKOverwritten())

	assert.True(t, New(AbortedCode, LockLimitSubCode, NoError).IsLockLimit())
	assert.False(t, New(BusyCode, LockLimitSubCode, NoError).IsLockLimit())
	assert.True(t, New(BusyCode, DeadlockSubCode, NoError).IsDeadlock())
	assert.True(t, NoSpace().IsNoSpace())
	assert.True(t, NoSpace().IsIOError())
	assert.True(t, MemoryLimit().IsMemoryLimit())
	assert.True(t, MemoryLimit().IsAborted())
	assert.True(t, PathNotFound().IsPathNotFound())
	assert.True(t, New(NotFoundCode, PathNotFoundSubCode, NoError).IsPathNotFound())
	assert.False(t, New(CorruptionCode, PathNotFoundSubCode, NoError).IsPathNotFound())
	assert.True(t, New(IncompleteCode, ManualCompactionPausedSubCode, NoError).IsManualCompactionPaused())
	assert.True(t, TxnNotPrepared().IsTxnNotPrepared())
	assert.True(t, TxnNotPrepared().IsInvalidArgument())
	assert.True(t, New(IOErrorCode, IOFencedSubCode, NoError).IsIOFenced())

	assert.True(t, NotFound().IsNotFound())
	assert.True(t, Corruption().IsCorruption())
	assert.True(t, NotSupported().IsNotSupported())
	assert.True(t, MergeInProgress().IsMergeInProgress())
	assert.True(t, Incomplete().IsIncomplete())
	assert.True(t, ShutdownInProgress().IsShutdownInProgress())
	assert.True(t, TimedOut().IsTimedOut())
	assert.True(t, Busy().IsBusy())
	assert.True(t, Expired().IsExpired())
	assert.True(t, TryAgain().IsTryAgain())
	assert.True(t, CompactionTooLarge().IsCompactionTooLarge())
	assert.True(t, ColumnFamilyDropped().IsColumnFamilyDropped())
}

func TestBuildersReturnCopies(t *testing.T) {
	base := IOError("disk")
	hard := base.WithSeverity(HardError).WithRetryable(true).WithDataLoss(true).WithScope(3)

	assert.Equal(t, NoError, base.Severity())
	assert.False(t, base.Retryable())
	assert.False(t, base.DataLoss())
	assert.Zero(t, base.Scope())

	assert.Equal(t, HardError, hard.Severity())
	assert.True(t, hard.Retryable())
	assert.True(t, hard.DataLoss())
	assert.Equal(t, uint8(3), hard.Scope())
	assert.Equal(t, base.String(), hard.String())

	appended := base.CopyAppendMessage(" / ", "retry later")
	assert.Equal(t, "IO error: disk / retry later", appended.String())
	assert.Equal(t, "IO error: disk", base.String())
}

func TestCopyIsIndependent(t *testing.T) {
	a := Corruption("block")
	b := a
	b = b.CopyAppendMessage(": ", "more")
	assert.Equal(t, "Corruption: block", a.String())
	assert.Equal(t, "Corruption: block: more", b.String())
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Corruption("block"))
}

func TestInvalidDiscriminantsPanic(t *testing.T) {
	assert.Panics(t, func() { New(maxCode, None, NoError) })
	assert.Panics(t, func() { New(Ok, maxSubCode, NoError) })
	assert.Panics(t, func() { New(Ok, None, maxSeverity) })
	assert.Panics(t, func() { OK().WithSeverity(maxSeverity) })
	assert.Panics(t, func() { _ = Status{code: maxCode}.String() })
	assert.Panics(t, func() { _ = Status{code: IOErrorCode, subcode: maxSubCode}.String() })
}

func TestErrorsIs(t *testing.T) {
	sentinel := NotSupported("Missing db_id")

	err := fmt.Errorf("computing id: %w", NotSupported("Missing db_id"))
	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, NotSupported("Missing db_session_id"))

	// A target without a message matches any message of the same code.
	assert.ErrorIs(t, err, NotSupported())
	assert.NotErrorIs(t, err, Corruption())

	// A target without a subcode matches any subcode of the same code.
	assert.ErrorIs(t, NoSpace("full"), IOError())
	assert.NotErrorIs(t, IOError("disk"), NoSpace())

	assert.False(t, sentinel.Is(errors.New("Not implemented: Missing db_id")))
}

func TestFromError(t *testing.T) {
	assert.True(t, FromError(nil).OK())

	s := Corruption("checksum")
	got := FromError(fmt.Errorf("open: %w", s))
	assert.Equal(t, s, got)

	got = FromError(fmt.Errorf("stat: %w", fs.ErrNotExist))
	assert.True(t, got.IsPathNotFound())
	assert.Contains(t, got.String(), "file does not exist")

	got = FromError(errors.New("boom"))
	require.True(t, got.IsIOError())
	msg, ok := got.Message()
	require.True(t, ok)
	assert.Equal(t, "boom", msg)
}
