package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamirms/sstid"
)

func runCmd(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestGen(t *testing.T) {
	session := sstid.EncodeSessionID(1, 2)
	out, _, code := runCmd(t, "gen", "-db-id", "db", "-session", session, "-file", "7")
	require.Equal(t, 0, code)

	want, err := sstid.GetUniqueIDFromTableProperties(sstid.TableProperties{
		DBID: []byte("db"), DBSessionID: session, OrigFileNumber: 7,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "external  "+sstid.UniqueIDToHumanString(want)+"\n")
	assert.Contains(t, out, "internal  {2,")

	out, _, code = runCmd(t, "gen", "-db-id", "db", "-session", session, "-file", "7", "-extended")
	require.Equal(t, 0, code)
	ext, err := sstid.GetExtendedUniqueIDFromTableProperties(sstid.TableProperties{
		DBID: []byte("db"), DBSessionID: session, OrigFileNumber: 7,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "external  "+sstid.UniqueIDToHumanString(ext)+"\n")
}

func TestGenErrors(t *testing.T) {
	_, stderr, code := runCmd(t, "gen", "-session", sstid.EncodeSessionID(1, 2), "-file", "7")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Missing db_id")

	_, _, code = runCmd(t, "gen", "-force")
	assert.Equal(t, 0, code)

	_, _, code = runCmd(t, "gen", "-no-such-flag")
	assert.Equal(t, 1, code)
}

func TestSession(t *testing.T) {
	out, _, code := runCmd(t, "session", "-n", "3")
	require.Equal(t, 0, code)
	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	for _, s := range lines {
		_, _, err := sstid.DecodeSessionID(s)
		assert.NoError(t, err)
	}

	out, _, code = runCmd(t, "session", "00000000000000000001")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "upper=0x0000000000000000 lower=0x0000000000000001")

	_, stderr, code := runCmd(t, "session", "short")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Too short db_session_id")
}

func TestDBID(t *testing.T) {
	out, _, code := runCmd(t, "dbid")
	require.Equal(t, 0, code)
	assert.Len(t, strings.TrimSpace(out), 36)
}

func TestDecode(t *testing.T) {
	out, _, code := runCmd(t, "decode", "83BEC8B324B053C2-491409F3E9FC1A71-CFD2D1A60EAD6E33")
	require.Equal(t, 0, code)
	assert.Equal(t, "83BEC8B324B053C2-491409F3E9FC1A71-CFD2D1A60EAD6E33  internal={1,2,3}\n", out)

	out, _, code = runCmd(t, "decode", "83bec8b324b053c2491409f3e9fc1a71")
	require.Equal(t, 0, code)
	assert.Equal(t, "83BEC8B324B053C2-491409F3E9FC1A71  internal={1,2}\n", out)

	_, stderr, code := runCmd(t, "decode", "abcd")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Not a valid unique_id")

	_, _, code = runCmd(t, "decode", "xyz")
	assert.Equal(t, 1, code)
}

func TestPackInspectVerify(t *testing.T) {
	dir := t.TempDir()
	session := sstid.EncodeSessionID(5, 6)
	input := `
- db_id: 9d6f2a3c-1111-4c4c-8888-0123456789ab
  db_session_id: ` + session + `
  orig_file_number: 12
- db_id: 9d6f2a3c-1111-4c4c-8888-0123456789ab
  db_session_id: ` + session + `
  orig_file_number: 13
- db_session_id: ` + session + `
  orig_file_number: 14
`
	yamlPath := filepath.Join(dir, "props.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(input), 0o644))
	propsPath := filepath.Join(dir, "props.sstp")

	out, _, code := runCmd(t, "pack", "-in", yamlPath, "-out", propsPath, "-log-level", "error")
	require.Equal(t, 0, code)
	assert.Equal(t, "3 records\n", out)

	out, _, code = runCmd(t, "verify", propsPath)
	require.Equal(t, 0, code)
	assert.Equal(t, propsPath+": OK\n", out)

	out, _, code = runCmd(t, "inspect", "-workers", "2", "-log-level", "error", propsPath)
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	want, err := sstid.GetUniqueIDFromTableProperties(sstid.TableProperties{
		DBID:           []byte("9d6f2a3c-1111-4c4c-8888-0123456789ab"),
		DBSessionID:    session,
		OrigFileNumber: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, "0\t12\t"+sstid.UniqueIDToHumanString(want), lines[0])
	assert.Contains(t, lines[2], "Missing db_id")

	cfgPath := filepath.Join(dir, "sstid.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("temporary_fallback: true\nlogging:\n  level: error\n"), 0o644))
	out, _, code = runCmd(t, "inspect", "-config", cfgPath, propsPath)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "\ttemporary\n")

	_, _, code = runCmd(t, "inspect", "-config", filepath.Join(dir, "missing.yaml"), propsPath)
	assert.Equal(t, 1, code)

	data, err := os.ReadFile(propsPath)
	require.NoError(t, err)
	data[len(data)-20] ^= 0xff
	require.NoError(t, os.WriteFile(propsPath, data, 0o644))
	_, stderr, code := runCmd(t, "verify", propsPath)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "checksum")
}

func TestFilename(t *testing.T) {
	out, _, code := runCmd(t, "filename", "000012.sst", "archive/000003.log", "MANIFEST-000005")
	require.Equal(t, 0, code)
	assert.Equal(t,
		"000012.sst\tTableFile\t12\n"+
			"archive/000003.log\tWalFile\t3\tArchivedLogFile\n"+
			"MANIFEST-000005\tDescriptorFile\t5\n", out)

	out, _, code = runCmd(t, "filename", "-log-dir", "-db-path", "/data/db", "data_db_LOG.old.9")
	require.Equal(t, 0, code)
	assert.Equal(t, "data_db_LOG.old.9\tInfoLogFile\t9\n", out)

	_, stderr, code := runCmd(t, "filename", "nonsense")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not a database file name")
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, code := runCmd(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	_, _, code = runCmd(t)
	assert.Equal(t, 2, code)

	out, _, code := runCmd(t, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "inspect")
}
