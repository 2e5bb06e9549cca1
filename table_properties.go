package sstid

// TableProperties holds the identity fields a table file records about its
// origin. Only these three are needed to compute its unique ID.
type TableProperties struct {
	DBID           []byte
	DBSessionID    string
	OrigFileNumber uint64
}

// GetUniqueIDFromTableProperties computes the stable 128-bit (16-byte) unique
// ID of the table file described by props. It fails with a NotSupported
// status when props lacks the DB ID, session ID or file number, which is the
// case for files written by engines that predate unique IDs.
//
// The ID is guaranteed unique among files generated by one process, and its
// first 128 bits are never all zero, so the zero value can serve as a null
// ID. Prefixes of the result are usable as hashes of the full ID.
func GetUniqueIDFromTableProperties(props TableProperties) ([]byte, error) {
	var id UniqueID64x2
	if err := id.GetSSTInternalUniqueID(props.DBID, props.DBSessionID, props.OrigFileNumber, false); err != nil {
		return nil, err
	}
	return id.ToExternal().EncodeBytes(), nil
}

// GetExtendedUniqueIDFromTableProperties computes the 192-bit (24-byte) form
// of GetUniqueIDFromTableProperties. The first 16 bytes are identical to the
// 128-bit ID. Only worth the extra bytes when IDs must be unique across a
// very large fleet over a long time, such as a shared backup namespace.
func GetExtendedUniqueIDFromTableProperties(props TableProperties) ([]byte, error) {
	var id UniqueID64x3
	if err := id.GetSSTInternalUniqueID(props.DBID, props.DBSessionID, props.OrigFileNumber, false); err != nil {
		return nil, err
	}
	return id.ToExternal().EncodeBytes(), nil
}

// TemporaryUniqueID computes a best-effort external ID for a file whose
// properties are incomplete or malformed. It never fails, but the result is
// only as unique as the inputs allow.
func TemporaryUniqueID(props TableProperties) UniqueID64x3 {
	var id UniqueID64x3
	// force=true cannot fail
	_ = id.GetSSTInternalUniqueID(props.DBID, props.DBSessionID, props.OrigFileNumber, true)
	return id.ToExternal()
}
