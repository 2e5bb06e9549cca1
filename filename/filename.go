// Package filename builds and parses the names of the files an LSM database
// keeps in its directory: table and blob files, WALs, manifests, options
// files, info logs and the fixed-name marker files.
//
// Builders for files that are never numbered 0 panic when given 0.
package filename

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	OptionsFilePrefix   = "OPTIONS-"
	TempFileSuffix      = "dbtmp"
	TableFileExt        = "sst"
	LevelDBTableFileExt = "ldb"
	BlobFileExt         = "blob"
	WalFileExt          = "log"
	ArchivalDirName     = "archive"
)

const (
	currentName    = "CURRENT"
	lockName       = "LOCK"
	identityName   = "IDENTITY"
	manifestPrefix = "MANIFEST-"
	metaDBPrefix   = "METADB-"
	infoLogName    = "LOG"
	infoLogSuffix  = "_LOG"
	oldInfoLogMark = ".old"

	// Info log prefixes derived from a path are capped like a 260-byte
	// buffer holding the body, the suffix and a terminator.
	maxInfoLogPrefixBody = 260 - len(infoLogSuffix) - 1
)

// FileType identifies the role of a file in a database directory.
type FileType uint8

const (
	WalFile FileType = iota
	DBLockFile
	TableFile
	DescriptorFile
	CurrentFile
	TempFile
	InfoLogFile // the current info log or an old one
	MetaDatabase
	IdentityFile
	OptionsFile
	BlobFile
)

var fileTypeNames = [...]string{
	WalFile:        "WalFile",
	DBLockFile:     "DBLockFile",
	TableFile:      "TableFile",
	DescriptorFile: "DescriptorFile",
	CurrentFile:    "CurrentFile",
	TempFile:       "TempFile",
	InfoLogFile:    "InfoLogFile",
	MetaDatabase:   "MetaDatabase",
	IdentityFile:   "IdentityFile",
	OptionsFile:    "OptionsFile",
	BlobFile:       "BlobFile",
}

func (t FileType) String() string {
	if int(t) < len(fileTypeNames) {
		return fileTypeNames[t]
	}
	return "FileType(" + strconv.Itoa(int(t)) + ")"
}

// WalFileType tells whether a WAL is live or has been moved to the archive
// directory.
type WalFileType uint8

const (
	ArchivedLogFile WalFileType = 0
	AliveLogFile    WalFileType = 1
)

func (t WalFileType) String() string {
	switch t {
	case ArchivedLogFile:
		return "ArchivedLogFile"
	case AliveLogFile:
		return "AliveLogFile"
	default:
		return "WalFileType(" + strconv.Itoa(int(t)) + ")"
	}
}

func mustNonZero(number uint64, what string) {
	if number == 0 {
		panic("filename: " + what + " number must be positive")
	}
}

// MakeFileName formats number zero-padded to six digits with suffix,
// e.g. "000012.sst".
func MakeFileName(number uint64, suffix string) string {
	return fmt.Sprintf("%06d.%s", number, suffix)
}

// MakeFileNameFullPath is MakeFileName inside dir.
func MakeFileNameFullPath(dir string, number uint64, suffix string) string {
	return dir + "/" + MakeFileName(number, suffix)
}

// LogFileName returns the WAL name for number inside dbname.
func LogFileName(dbname string, number uint64) string {
	mustNonZero(number, "log file")
	return MakeFileNameFullPath(dbname, number, WalFileExt)
}

// LogFileNameOnly returns the WAL name for number without a directory.
func LogFileNameOnly(number uint64) string {
	mustNonZero(number, "log file")
	return MakeFileName(number, WalFileExt)
}

// ArchivalDirectory returns the directory that archived WALs move to.
func ArchivalDirectory(dir string) string {
	return dir + "/" + ArchivalDirName
}

// ArchivedLogFileName returns the name of WAL number after archival.
func ArchivedLogFileName(dir string, number uint64) string {
	mustNonZero(number, "log file")
	return MakeFileNameFullPath(ArchivalDirectory(dir), number, WalFileExt)
}

func MakeTableFileName(number uint64) string {
	return MakeFileName(number, TableFileExt)
}

// TableFileName returns the table file name for number inside dbPath.
func TableFileName(dbPath string, number uint64) string {
	mustNonZero(number, "table file")
	return MakeFileNameFullPath(dbPath, number, TableFileExt)
}

// TableFileNameToNumber extracts the number from a table file name by
// reading the digits just before the last '.'. Names without such digits
// yield 0.
func TableFileNameToNumber(name string) uint64 {
	var number, base uint64 = 0, 1
	pos := strings.LastIndexByte(name, '.')
	for pos--; pos >= 0 && name[pos] >= '0' && name[pos] <= '9'; pos-- {
		number += uint64(name[pos]-'0') * base
		base *= 10
	}
	return number
}

func BlobFileName(dir string, number uint64) string {
	mustNonZero(number, "blob file")
	return MakeFileNameFullPath(dir, number, BlobFileExt)
}

// DescriptorFileName returns the manifest name for number inside dbname.
func DescriptorFileName(dbname string, number uint64) string {
	mustNonZero(number, "descriptor")
	return dbname + "/" + DescriptorFileNameOnly(number)
}

func DescriptorFileNameOnly(number uint64) string {
	return fmt.Sprintf("%s%06d", manifestPrefix, number)
}

func CurrentFileName(dbname string) string  { return dbname + "/" + currentName }
func LockFileName(dbname string) string     { return dbname + "/" + lockName }
func IdentityFileName(dbname string) string { return dbname + "/" + identityName }

// TempFileName returns a temporary file name for number inside dbname.
func TempFileName(dbname string, number uint64) string {
	return MakeFileNameFullPath(dbname, number, TempFileSuffix)
}

func MetaDatabaseName(dbname string, number uint64) string {
	return fmt.Sprintf("%s/%s%d", dbname, metaDBPrefix, number)
}

func OptionsFileName(dbpath string, number uint64) string {
	return dbpath + "/" + OptionsFileNameOnly(number)
}

func OptionsFileNameOnly(number uint64) string {
	return fmt.Sprintf("%s%06d", OptionsFilePrefix, number)
}

// TempOptionsFileName is the name an options file is written under before
// being renamed into place.
func TempOptionsFileName(dbpath string, number uint64) string {
	return OptionsFileName(dbpath, number) + "." + TempFileSuffix
}

// NormalizePath collapses runs of '/' into one, keeping a leading "//".
func NormalizePath(path string) string {
	var sb strings.Builder
	sb.Grow(len(path))
	var last byte
	if len(path) > 2 && path[0] == '/' && path[1] == '/' {
		sb.WriteString("//")
		last = '/'
	}
	for i := 0; i < len(path); i++ {
		c := path[i]
		if sb.Len() > 0 && c == '/' && last == '/' {
			continue
		}
		sb.WriteByte(c)
		last = c
	}
	return sb.String()
}

// InfoLogPrefix returns the prefix shared by the current and old info logs.
// Without a separate log directory it is "LOG". With one, several databases
// may share the directory, so the prefix is derived from the database path:
// characters outside [A-Za-z0-9._-] become '_' (a leading one is dropped)
// and "_LOG" is appended.
func InfoLogPrefix(hasLogDir bool, dbAbsPath string) string {
	if !hasLogDir {
		return infoLogName
	}
	path := NormalizePath(dbAbsPath)
	buf := make([]byte, 0, min(len(path), maxInfoLogPrefixBody)+len(infoLogSuffix))
	for i := 0; i < len(path) && len(buf) < maxInfoLogPrefixBody; i++ {
		c := path[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_':
			buf = append(buf, c)
		case i > 0:
			buf = append(buf, '_')
		}
	}
	return string(append(buf, infoLogSuffix...))
}

// InfoLogFileName returns the current info log path. logDir may be empty,
// in which case the log lives in dbname.
func InfoLogFileName(dbname, dbPath, logDir string) string {
	if logDir == "" {
		return dbname + "/" + infoLogName
	}
	return logDir + "/" + InfoLogPrefix(true, dbPath)
}

// OldInfoLogFileName returns the path an info log is rotated to at ts.
func OldInfoLogFileName(dbname string, ts uint64, dbPath, logDir string) string {
	suffix := oldInfoLogMark + "." + strconv.FormatUint(ts, 10)
	if logDir == "" {
		return dbname + "/" + infoLogName + suffix
	}
	return logDir + "/" + InfoLogPrefix(true, dbPath) + suffix
}

// consumeDecimalNumber parses the leading decimal digits of s. ok is false
// when there are none or the value overflows uint64.
func consumeDecimalNumber(s string) (v uint64, rest string, ok bool) {
	const maxU64 = ^uint64(0)
	i := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := uint64(s[i] - '0')
		if v > (maxU64-d)/10 {
			return 0, s, false
		}
		v = v*10 + d
	}
	if i == 0 {
		return 0, s, false
	}
	return v, s[i:], true
}

// ParseFileName recognises a file name relative to the database directory
// (a single leading '/' is ignored) and reports its number and type. For
// WAL files, walType says whether the file is archived. infoLogPrefix is
// the value of InfoLogPrefix for this database; pass "" to not recognise
// info logs.
//
// Recognised forms:
//
//	IDENTITY, CURRENT, LOCK
//	<infoLogPrefix>, <infoLogPrefix>.old, <infoLogPrefix>.old.<ts>
//	MANIFEST-<n>, METADB-<n>, OPTIONS-<n>, OPTIONS-<n>.dbtmp
//	<n>.log, <n>.sst, <n>.ldb, <n>.blob, <n>.dbtmp, archive/<n>.log
func ParseFileName(name, infoLogPrefix string) (number uint64, fileType FileType, walType WalFileType, ok bool) {
	rest := name
	if len(rest) > 1 && rest[0] == '/' {
		rest = rest[1:]
	}

	switch {
	case rest == identityName:
		return 0, IdentityFile, 0, true
	case rest == currentName:
		return 0, CurrentFile, 0, true
	case rest == lockName:
		return 0, DBLockFile, 0, true

	case infoLogPrefix != "" && strings.HasPrefix(rest, infoLogPrefix):
		rest = rest[len(infoLogPrefix):]
		if rest == "" || rest == oldInfoLogMark {
			return 0, InfoLogFile, 0, true
		}
		if ts, ok := strings.CutPrefix(rest, oldInfoLogMark+"."); ok {
			n, _, ok := consumeDecimalNumber(ts)
			if !ok {
				return 0, 0, 0, false
			}
			return n, InfoLogFile, 0, true
		}
		return 0, 0, 0, false

	case strings.HasPrefix(rest, manifestPrefix):
		n, tail, ok := consumeDecimalNumber(rest[len(manifestPrefix):])
		if !ok || tail != "" {
			return 0, 0, 0, false
		}
		return n, DescriptorFile, 0, true

	case strings.HasPrefix(rest, metaDBPrefix):
		n, tail, ok := consumeDecimalNumber(rest[len(metaDBPrefix):])
		if !ok || tail != "" {
			return 0, 0, 0, false
		}
		return n, MetaDatabase, 0, true

	case strings.HasPrefix(rest, OptionsFilePrefix):
		rest = rest[len(OptionsFilePrefix):]
		body, isTemp := strings.CutSuffix(rest, "."+TempFileSuffix)
		n, _, ok := consumeDecimalNumber(body)
		if !ok {
			return 0, 0, 0, false
		}
		if isTemp {
			return n, TempFile, 0, true
		}
		return n, OptionsFile, 0, true
	}

	archived := false
	if strings.HasPrefix(rest, ArchivalDirName) {
		if len(rest) <= len(ArchivalDirName) {
			return 0, 0, 0, false
		}
		rest = rest[len(ArchivalDirName)+1:]
		archived = true
	}
	n, rest, ok := consumeDecimalNumber(rest)
	if !ok || len(rest) <= 1 || rest[0] != '.' {
		return 0, 0, 0, false
	}
	switch suffix := rest[1:]; {
	case suffix == WalFileExt:
		if archived {
			return n, WalFile, ArchivedLogFile, true
		}
		return n, WalFile, AliveLogFile, true
	case archived:
		// only WALs live in the archive directory
		return 0, 0, 0, false
	case suffix == TableFileExt, suffix == LevelDBTableFileExt:
		return n, TableFile, 0, true
	case suffix == BlobFileExt:
		return n, BlobFile, 0, true
	case suffix == TempFileSuffix:
		return n, TempFile, 0, true
	default:
		return 0, 0, 0, false
	}
}
