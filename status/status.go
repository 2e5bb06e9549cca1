// Package status defines the Status value returned by fallible operations.
//
// A Status carries a coarse Code, a finer SubCode, a Severity, retry/data-loss
// flags and an optional free-text message. It is a plain comparable value:
// copies never share state, and the zero value is OK.
//
// Status implements error so it can flow through ordinary Go error returns.
// By convention only non-OK values are returned as errors; use Err to convert
// a Status that may be OK.
package status

import (
	"errors"
	"fmt"
	"io/fs"
)

// Code is the coarse error category.
type Code uint8

const (
	Ok Code = iota
	NotFoundCode
	CorruptionCode
	NotSupportedCode
	InvalidArgumentCode
	IOErrorCode
	MergeInProgressCode
	IncompleteCode
	ShutdownInProgressCode
	TimedOutCode
	AbortedCode
	BusyCode
	ExpiredCode
	TryAgainCode
	CompactionTooLargeCode
	ColumnFamilyDroppedCode
	maxCode
)

// SubCode refines a Code.
type SubCode uint8

const (
	None SubCode = iota
	MutexTimeoutSubCode
	LockTimeoutSubCode
	LockLimitSubCode
	NoSpaceSubCode
	DeadlockSubCode
	StaleFileSubCode
	MemoryLimitSubCode
	SpaceLimitSubCode
	PathNotFoundSubCode
	MergeOperandsInsufficientCapacitySubCode
	ManualCompactionPausedSubCode
	OverwrittenSubCode
	TxnNotPreparedSubCode
	IOFencedSubCode
	MergeOperatorFailedSubCode
	maxSubCode
)

// Severity grades how bad a failure is for the caller.
type Severity uint8

const (
	NoError Severity = iota
	SoftError
	HardError
	FatalError
	UnrecoverableError
	maxSeverity
)

// Status is the result of a fallible operation. The zero value is OK.
type Status struct {
	code      Code
	subcode   SubCode
	severity  Severity
	retryable bool
	dataLoss  bool
	scope     uint8
	hasMsg    bool
	msg       string
}

// New builds a Status from its parts. msgs are joined as msgs[0] + ": " + msgs[1]
// (further parts are appended the same way); empty trailing parts are skipped.
// It panics if code, subcode or severity is out of range.
func New(code Code, subcode SubCode, severity Severity, msgs ...string) Status {
	if code >= maxCode {
		panic(fmt.Sprintf("status: invalid code %d", code))
	}
	if subcode >= maxSubCode {
		panic(fmt.Sprintf("status: invalid subcode %d", subcode))
	}
	if severity >= maxSeverity {
		panic(fmt.Sprintf("status: invalid severity %d", severity))
	}
	s := Status{code: code, subcode: subcode, severity: severity}
	if len(msgs) > 0 {
		s.hasMsg = true
		s.msg = joinMessages(msgs)
	}
	return s
}

func joinMessages(msgs []string) string {
	msg := msgs[0]
	for _, m := range msgs[1:] {
		if m != "" {
			msg += ": " + m
		}
	}
	return msg
}

// OK returns the success status.
func OK() Status { return Status{} }

// OKOverwritten reports success where an existing value was overwritten.
func OKOverwritten() Status { return Status{subcode: OverwrittenSubCode} }

func NotFound(msgs ...string) Status     { return New(NotFoundCode, None, NoError, msgs...) }
func Corruption(msgs ...string) Status   { return New(CorruptionCode, None, NoError, msgs...) }
func NotSupported(msgs ...string) Status { return New(NotSupportedCode, None, NoError, msgs...) }
func InvalidArgument(msgs ...string) Status {
	return New(InvalidArgumentCode, None, NoError, msgs...)
}
func IOError(msgs ...string) Status { return New(IOErrorCode, None, NoError, msgs...) }
func MergeInProgress(msgs ...string) Status {
	return New(MergeInProgressCode, None, NoError, msgs...)
}
func Incomplete(msgs ...string) Status { return New(IncompleteCode, None, NoError, msgs...) }
func ShutdownInProgress(msgs ...string) Status {
	return New(ShutdownInProgressCode, None, NoError, msgs...)
}
func TimedOut(msgs ...string) Status { return New(TimedOutCode, None, NoError, msgs...) }
func Aborted(msgs ...string) Status  { return New(AbortedCode, None, NoError, msgs...) }
func Busy(msgs ...string) Status     { return New(BusyCode, None, NoError, msgs...) }
func Expired(msgs ...string) Status  { return New(ExpiredCode, None, NoError, msgs...) }
func TryAgain(msgs ...string) Status { return New(TryAgainCode, None, NoError, msgs...) }
func CompactionTooLarge(msgs ...string) Status {
	return New(CompactionTooLargeCode, None, NoError, msgs...)
}
func ColumnFamilyDropped(msgs ...string) Status {
	return New(ColumnFamilyDroppedCode, None, NoError, msgs...)
}

// NoSpace is an IOError for a full device.
func NoSpace(msgs ...string) Status { return New(IOErrorCode, NoSpaceSubCode, NoError, msgs...) }

// MemoryLimit is an Aborted status raised when an operation hits a memory cap.
func MemoryLimit(msgs ...string) Status {
	return New(AbortedCode, MemoryLimitSubCode, NoError, msgs...)
}

// SpaceLimit is an IOError raised when a configured space cap is reached.
func SpaceLimit(msgs ...string) Status {
	return New(IOErrorCode, SpaceLimitSubCode, NoError, msgs...)
}

// PathNotFound is an IOError for a missing file or directory.
func PathNotFound(msgs ...string) Status {
	return New(IOErrorCode, PathNotFoundSubCode, NoError, msgs...)
}

// TxnNotPrepared is an InvalidArgument raised on commit of an unprepared transaction.
func TxnNotPrepared(msgs ...string) Status {
	return New(InvalidArgumentCode, TxnNotPreparedSubCode, NoError, msgs...)
}

func (s Status) Code() Code         { return s.code }
func (s Status) SubCode() SubCode   { return s.subcode }
func (s Status) Severity() Severity { return s.severity }
func (s Status) Retryable() bool    { return s.retryable }
func (s Status) DataLoss() bool     { return s.dataLoss }
func (s Status) Scope() uint8       { return s.scope }

// Message returns the free-text message and whether one was set.
// The message is informational; callers must not parse it.
func (s Status) Message() (string, bool) { return s.msg, s.hasMsg }

// WithSeverity returns a copy of s with the given severity.
func (s Status) WithSeverity(sev Severity) Status {
	if sev >= maxSeverity {
		panic(fmt.Sprintf("status: invalid severity %d", sev))
	}
	s.severity = sev
	return s
}

// WithRetryable returns a copy of s with the retryable flag set to v.
func (s Status) WithRetryable(v bool) Status {
	s.retryable = v
	return s
}

// WithDataLoss returns a copy of s with the data-loss flag set to v.
func (s Status) WithDataLoss(v bool) Status {
	s.dataLoss = v
	return s
}

// WithScope returns a copy of s with the given scope.
func (s Status) WithScope(scope uint8) Status {
	s.scope = scope
	return s
}

// CopyAppendMessage returns a copy of s whose message is the current message
// followed by delim and msg.
func (s Status) CopyAppendMessage(delim, msg string) Status {
	s.msg = s.msg + delim + msg
	s.hasMsg = true
	return s
}

// OK reports whether s indicates success.
func (s Status) OK() bool { return s.code == Ok }

func (s Status) IsOKOverwritten() bool {
	return s.code == Ok && s.subcode == OverwrittenSubCode
}
func (s Status) IsNotFound() bool           { return s.code == NotFoundCode }
func (s Status) IsCorruption() bool         { return s.code == CorruptionCode }
func (s Status) IsNotSupported() bool       { return s.code == NotSupportedCode }
func (s Status) IsInvalidArgument() bool    { return s.code == InvalidArgumentCode }
func (s Status) IsIOError() bool            { return s.code == IOErrorCode }
func (s Status) IsMergeInProgress() bool    { return s.code == MergeInProgressCode }
func (s Status) IsIncomplete() bool         { return s.code == IncompleteCode }
func (s Status) IsShutdownInProgress() bool { return s.code == ShutdownInProgressCode }
func (s Status) IsTimedOut() bool           { return s.code == TimedOutCode }
func (s Status) IsAborted() bool            { return s.code == AbortedCode }
func (s Status) IsBusy() bool               { return s.code == BusyCode }
func (s Status) IsExpired() bool            { return s.code == ExpiredCode }
func (s Status) IsTryAgain() bool           { return s.code == TryAgainCode }
func (s Status) IsCompactionTooLarge() bool { return s.code == CompactionTooLargeCode }
func (s Status) IsColumnFamilyDropped() bool {
	return s.code == ColumnFamilyDroppedCode
}

func (s Status) IsLockLimit() bool {
	return s.code == AbortedCode && s.subcode == LockLimitSubCode
}

func (s Status) IsDeadlock() bool {
	return s.code == BusyCode && s.subcode == DeadlockSubCode
}

func (s Status) IsNoSpace() bool {
	return s.code == IOErrorCode && s.subcode == NoSpaceSubCode
}

func (s Status) IsMemoryLimit() bool {
	return s.code == AbortedCode && s.subcode == MemoryLimitSubCode
}

// IsPathNotFound matches both IOError and NotFound carrying PathNotFound.
func (s Status) IsPathNotFound() bool {
	return (s.code == IOErrorCode || s.code == NotFoundCode) && s.subcode == PathNotFoundSubCode
}

func (s Status) IsManualCompactionPaused() bool {
	return s.code == IncompleteCode && s.subcode == ManualCompactionPausedSubCode
}

func (s Status) IsTxnNotPrepared() bool {
	return s.code == InvalidArgumentCode && s.subcode == TxnNotPreparedSubCode
}

func (s Status) IsIOFenced() bool {
	return s.code == IOErrorCode && s.subcode == IOFencedSubCode
}

var codePrefixes = [maxCode]string{
	Ok:                      "OK",
	NotFoundCode:            "NotFound: ",
	CorruptionCode:          "Corruption: ",
	NotSupportedCode:        "Not implemented: ",
	InvalidArgumentCode:     "Invalid argument: ",
	IOErrorCode:             "IO error: ",
	MergeInProgressCode:     "Merge in progress: ",
	IncompleteCode:          "Result incomplete: ",
	ShutdownInProgressCode:  "Shutdown in progress: ",
	TimedOutCode:            "Operation timed out: ",
	AbortedCode:             "Operation aborted: ",
	BusyCode:                "Resource busy: ",
	ExpiredCode:             "Operation expired: ",
	TryAgainCode:            "Operation failed. Try again.: ",
	CompactionTooLargeCode:  "Compaction too large: ",
	ColumnFamilyDroppedCode: "Column family dropped: ",
}

var subcodeMessages = [maxSubCode]string{
	MutexTimeoutSubCode:                      "Timeout Acquiring Mutex",
	LockTimeoutSubCode:                       "Timeout waiting to lock key",
	LockLimitSubCode:                         "Failed to acquire lock due to max_num_locks limit",
	NoSpaceSubCode:                           "No space left on device",
	DeadlockSubCode:                          "Deadlock",
	StaleFileSubCode:                         "Stale file handle",
	MemoryLimitSubCode:                       "Memory limit reached",
	SpaceLimitSubCode:                        "Space limit reached",
	PathNotFoundSubCode:                      "No such file or directory",
	MergeOperandsInsufficientCapacitySubCode: "Insufficient capacity for merge operands",
	ManualCompactionPausedSubCode:            "Manual compaction paused",
	OverwrittenSubCode:                       " (overwritten)",
	TxnNotPreparedSubCode:                    "Txn not prepared",
	IOFencedSubCode:                          "IO fenced off",
	MergeOperatorFailedSubCode:               "Merge operator failed",
}

// String renders s the way the storage engine prints statuses,
// e.g. "Operation aborted: Memory limit reached".
func (s Status) String() string {
	if s.code >= maxCode {
		panic(fmt.Sprintf("status: invalid code %d", s.code))
	}
	if s.subcode >= maxSubCode {
		panic(fmt.Sprintf("status: invalid subcode %d", s.subcode))
	}
	if s.code == Ok {
		return "OK"
	}
	res := codePrefixes[s.code]
	if s.subcode != None {
		res += subcodeMessages[s.subcode]
	}
	if s.hasMsg {
		if s.subcode != None {
			res += ": "
		}
		res += s.msg
	}
	return res
}

// Error implements error.
func (s Status) Error() string { return s.String() }

// Err returns nil when s is OK and s otherwise.
func (s Status) Err() error {
	if s.OK() {
		return nil
	}
	return s
}

// Is lets errors.Is match a Status against a sentinel Status. The code must be
// equal; the subcode must be equal unless the target's is None; the message
// must be equal unless the target carries none.
func (s Status) Is(target error) bool {
	t, ok := target.(Status)
	if !ok {
		return false
	}
	if s.code != t.code {
		return false
	}
	if t.subcode != None && s.subcode != t.subcode {
		return false
	}
	if t.hasMsg && (!s.hasMsg || s.msg != t.msg) {
		return false
	}
	return true
}

// FromError converts an arbitrary error to a Status. nil maps to OK, a
// wrapped Status is unwrapped, fs.ErrNotExist maps to PathNotFound, and
// anything else becomes an IOError carrying the error text.
func FromError(err error) Status {
	if err == nil {
		return OK()
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	if errors.Is(err, fs.ErrNotExist) {
		return PathNotFound(err.Error())
	}
	return IOError(err.Error())
}
