package propsfile

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	"github.com/tamirms/sstid"
	"github.com/tamirms/sstid/coding"
	sstiderrors "github.com/tamirms/sstid/errors"
)

// Reader is a read-only view of a properties file.
//
// Thread Safety:
// - Len, Record, All and Verify are safe for concurrent use
// - Close must only be called after all reads have completed
type Reader struct {
	mmap mmap.MMap
	data []byte

	header  *header
	offsets []byte // count × 8 bytes
	records []byte

	closed atomic.Bool
}

// Open memory-maps the properties file at path.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open properties file: %w", err)
	}
	defer file.Close()
	return OpenFile(file)
}

// OpenFile memory-maps f. The caller keeps ownership of f and may close it
// as soon as OpenFile returns.
func OpenFile(f *os.File) (*Reader, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat properties file: %w", err)
	}
	if stat.Size() < minFileSize {
		return nil, sstiderrors.ErrTruncatedFile
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap properties file: %w", err)
	}
	adviseSequential(f.Fd(), mm)

	r := &Reader{
		mmap: mm,
		data: []byte(mm),
	}
	if err := r.initFromData(); err != nil {
		return nil, errors.Join(err, r.Close())
	}
	return r, nil
}

// OpenBytes reads a properties file held in memory. data must not be
// modified while the Reader is in use. Close is a no-op.
func OpenBytes(data []byte) (*Reader, error) {
	if len(data) < minFileSize {
		return nil, sstiderrors.ErrTruncatedFile
	}
	r := &Reader{data: data}
	if err := r.initFromData(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) initFromData() error {
	hdr, err := decodeHeader(r.data[:headerSize])
	if err != nil {
		return err
	}
	size, ok := hdr.fileSize()
	if !ok {
		return sstiderrors.ErrCorruptedFile
	}
	switch {
	case size > uint64(len(r.data)):
		return sstiderrors.ErrTruncatedFile
	case size < uint64(len(r.data)):
		return sstiderrors.ErrCorruptedFile
	}

	recordsOffset := headerSize + hdr.Count*offsetSize
	r.header = hdr
	r.offsets = r.data[headerSize:recordsOffset]
	r.records = r.data[recordsOffset : recordsOffset+hdr.RecordsSize]
	return nil
}

// Close releases the mapping. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	if r.mmap != nil {
		return r.mmap.Unmap()
	}
	return nil
}

// Len returns the number of records in the file.
func (r *Reader) Len() int {
	return int(r.header.Count)
}

// Record decodes record i. The returned properties do not alias the file.
func (r *Reader) Record(i int) (sstid.TableProperties, error) {
	if r.closed.Load() {
		return sstid.TableProperties{}, sstiderrors.ErrFileClosed
	}
	if i < 0 || uint64(i) >= r.header.Count {
		return sstid.TableProperties{}, sstiderrors.ErrRecordOutOfRange
	}

	start := coding.DecodeFixed64(r.offsets[i*offsetSize:])
	end := r.header.RecordsSize
	if uint64(i+1) < r.header.Count {
		end = coding.DecodeFixed64(r.offsets[(i+1)*offsetSize:])
	}
	if start > end || end > r.header.RecordsSize {
		return sstid.TableProperties{}, sstiderrors.ErrCorruptedFile
	}
	return decodeRecord(r.records[start:end])
}

func decodeRecord(buf []byte) (sstid.TableProperties, error) {
	var p sstid.TableProperties
	fileNumber, rest, ok := coding.GetVarint64(buf)
	if !ok {
		return p, sstiderrors.ErrCorruptedFile
	}
	dbID, rest, ok := coding.GetLengthPrefixedSlice(rest)
	if !ok {
		return p, sstiderrors.ErrCorruptedFile
	}
	session, rest, ok := coding.GetLengthPrefixedSlice(rest)
	if !ok || len(rest) != 0 {
		return p, sstiderrors.ErrCorruptedFile
	}

	p.OrigFileNumber = fileNumber
	if len(dbID) > 0 {
		p.DBID = append([]byte(nil), dbID...)
	}
	p.DBSessionID = string(session)
	return p, nil
}

// All iterates over the records in order, stopping after the first error.
func (r *Reader) All() iter.Seq2[sstid.TableProperties, error] {
	return func(yield func(sstid.TableProperties, error) bool) {
		for i := range r.Len() {
			p, err := r.Record(i)
			if !yield(p, err) || err != nil {
				return
			}
		}
	}
}

// Verify checks the footer checksum over the offsets and records regions.
// The footer is only read here, so Open does not touch the end of the file.
func (r *Reader) Verify() error {
	if r.closed.Load() {
		return sstiderrors.ErrFileClosed
	}
	footerOffset := uint64(len(r.data)) - footerSize
	ft, err := decodeFooter(r.data[footerOffset:])
	if err != nil {
		return err
	}
	if xxhash.Sum64(r.data[headerSize:footerOffset]) != ft.BodyHash {
		return sstiderrors.ErrChecksumFailed
	}
	return nil
}
