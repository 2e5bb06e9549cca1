package propsfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	"github.com/tamirms/sstid"
	"github.com/tamirms/sstid/coding"
)

// fileWriter writes a properties file through a read-write mapping of a
// pre-allocated file.
// File layout: [Header 32B][Offsets N×8B][Records][Footer 16B]
type fileWriter struct {
	file *os.File
	mmap mmap.MMap
	data []byte
}

// recordSize returns the encoded size of p.
func recordSize(p sstid.TableProperties) uint64 {
	return uint64(coding.VarintLength(p.OrigFileNumber) +
		coding.VarintLength(uint64(len(p.DBID))) + len(p.DBID) +
		coding.VarintLength(uint64(len(p.DBSessionID))) + len(p.DBSessionID))
}

func appendRecord(dst []byte, p sstid.TableProperties) []byte {
	dst = coding.PutVarint64(dst, p.OrigFileNumber)
	dst = coding.PutLengthPrefixedSlice(dst, p.DBID)
	return coding.PutLengthPrefixedSlice(dst, []byte(p.DBSessionID))
}

// Write creates or truncates the file at path and stores records in it.
func Write(path string, records []sstid.TableProperties) error {
	var recordsSize uint64
	for i, p := range records {
		if uint64(len(p.DBID)) > maxFieldLen || uint64(len(p.DBSessionID)) > maxFieldLen {
			return fmt.Errorf("record %d: field longer than %d bytes", i, maxFieldLen)
		}
		recordsSize += recordSize(p)
	}
	count := uint64(len(records))
	recordsOffset := headerSize + count*offsetSize
	footerOffset := recordsOffset + recordsSize
	fileSize := footerOffset + footerSize

	w, err := newFileWriter(path, fileSize)
	if err != nil {
		return err
	}

	// Offsets are relative to the start of the records region.
	body := w.data[recordsOffset:recordsOffset:footerOffset]
	for i, p := range records {
		coding.EncodeFixed64(w.data[headerSize+uint64(i)*offsetSize:], uint64(len(body)))
		body = appendRecord(body, p)
	}
	if uint64(len(body)) != recordsSize {
		primaryErr := fmt.Errorf("encoded %d record bytes, expected %d", len(body), recordsSize)
		return errors.Join(primaryErr, w.close())
	}

	hdr := header{
		Magic:       magic,
		Version:     version,
		Count:       count,
		RecordsSize: recordsSize,
	}
	hdr.encodeTo(w.data[:headerSize])

	ftr := footer{BodyHash: xxhash.Sum64(w.data[headerSize:footerOffset])}
	ftr.encodeTo(w.data[footerOffset:])

	return w.finalize()
}

// maxFieldLen bounds DBID and DBSessionID, whose lengths are stored as
// varint32.
const maxFieldLen = 1<<32 - 1

func newFileWriter(path string, size uint64) (*fileWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create properties file: %w", err)
	}

	if err := fallocateFile(file, int64(size)); err != nil {
		primaryErr := fmt.Errorf("allocate disk space: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("mmap properties file: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	w := &fileWriter{
		file: file,
		mmap: mm,
		data: []byte(mm),
	}
	prefaultRegion(w.data)
	return w, nil
}

// finalize flushes and unmaps the file. On error it falls back to close.
func (w *fileWriter) finalize() error {
	if err := w.mmap.Flush(); err != nil {
		primaryErr := fmt.Errorf("mmap flush failed: %w", err)
		return errors.Join(primaryErr, w.close())
	}

	// Nil mmap regardless of outcome so close does not retry.
	unmapErr := w.mmap.Unmap()
	w.mmap = nil
	if unmapErr != nil {
		primaryErr := fmt.Errorf("mmap unmap failed: %w", unmapErr)
		return errors.Join(primaryErr, w.close())
	}

	closeErr := w.file.Close()
	w.file = nil
	return closeErr
}

// close releases the writer without finalizing. Idempotent.
func (w *fileWriter) close() error {
	var unmapErr error
	if w.mmap != nil {
		unmapErr = w.mmap.Unmap()
		w.mmap = nil
	}
	var closeErr error
	if w.file != nil {
		closeErr = w.file.Close()
		w.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}
