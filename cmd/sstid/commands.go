package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tamirms/sstid"
	"github.com/tamirms/sstid/filename"
	"github.com/tamirms/sstid/internal/config"
	"github.com/tamirms/sstid/propsfile"
)

func runGen(args []string, stdout io.Writer) error {
	fs := newFlagSet("gen", "")
	dbID := fs.String("db-id", "", "DB ID (contents of the IDENTITY file)")
	session := fs.String("session", "", "DB session ID of the session that wrote the file")
	file := fs.Uint64("file", 0, "original file number")
	extended := fs.Bool("extended", false, "compute the 192-bit ID")
	force := fs.Bool("force", false, "produce an ID even from missing or malformed inputs")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var id sstid.UniqueID64x3
	if err := id.GetSSTInternalUniqueID([]byte(*dbID), *session, *file, *force); err != nil {
		return err
	}
	if *extended {
		fmt.Fprintf(stdout, "internal  %s\n", id.InternalHumanString())
		fmt.Fprintf(stdout, "external  %s\n", sstid.UniqueIDToHumanString(id.ToExternal().EncodeBytes()))
		return nil
	}
	short := sstid.UniqueID64x2{id[0], id[1]}
	fmt.Fprintf(stdout, "internal  %s\n", short.InternalHumanString())
	fmt.Fprintf(stdout, "external  %s\n", sstid.UniqueIDToHumanString(short.ToExternal().EncodeBytes()))
	return nil
}

func runSession(args []string, stdout io.Writer) error {
	fs := newFlagSet("session", "[session-id ...]")
	n := fs.Int("n", 1, "number of session IDs to generate when none are given to decode")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		gen := sstid.NewSessionIDGenerator()
		for range *n {
			fmt.Fprintln(stdout, gen.NextString())
		}
		return nil
	}
	for _, s := range fs.Args() {
		upper, lower, err := sstid.DecodeSessionID(s)
		if err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
		fmt.Fprintf(stdout, "%s  upper=%#016x lower=%#016x\n", s, upper, lower)
	}
	return nil
}

func runDBID(args []string, stdout io.Writer) error {
	fs := newFlagSet("dbid", "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	fmt.Fprintln(stdout, sstid.NewDBID())
	return nil
}

func runDecode(args []string, stdout io.Writer) error {
	fs := newFlagSet("decode", "<hex-id> ...")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	for _, arg := range fs.Args() {
		raw, err := hex.DecodeString(strings.ReplaceAll(arg, "-", ""))
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		var internal string
		if len(raw) == 16 {
			var id sstid.UniqueID64x2
			err = id.DecodeBytes(raw)
			internal = id.ToInternal().InternalHumanString()
		} else {
			var id sstid.UniqueID64x3
			err = id.DecodeBytes(raw)
			internal = id.ToInternal().InternalHumanString()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		fmt.Fprintf(stdout, "%s  internal=%s\n", sstid.UniqueIDToHumanString(raw), internal)
	}
	return nil
}

// yamlRecord is one entry of the YAML input to pack.
type yamlRecord struct {
	DBID           string `yaml:"db_id"`
	DBSessionID    string `yaml:"db_session_id"`
	OrigFileNumber uint64 `yaml:"orig_file_number"`
}

func readYAMLRecords(r io.Reader) ([]sstid.TableProperties, error) {
	var in []yamlRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	records := make([]sstid.TableProperties, len(in))
	for i, rec := range in {
		records[i] = sstid.TableProperties{
			DBSessionID:    rec.DBSessionID,
			OrigFileNumber: rec.OrigFileNumber,
		}
		if rec.DBID != "" {
			records[i].DBID = []byte(rec.DBID)
		}
	}
	return records, nil
}

// commonFlags are shared by commands that read the configuration file.
type commonFlags struct {
	configPath string
	workers    int
	extended   bool
	fallback   bool
	logLevel   string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML configuration file")
	fs.IntVar(&c.workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	fs.BoolVar(&c.extended, "extended", false, "compute 192-bit IDs")
	fs.BoolVar(&c.fallback, "fallback", false, "use temporary IDs for incomplete records")
	fs.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// load reads the configuration file and applies the flags that were set
// explicitly on top of it.
func (c *commonFlags) load(fs *flag.FlagSet) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return nil, nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Workers = c.workers
		case "extended":
			cfg.Extended = c.extended
		case "fallback":
			cfg.TemporaryFallback = c.fallback
		case "log-level":
			cfg.Logging.Level = c.logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runPack(args []string, stdout io.Writer) error {
	fs := newFlagSet("pack", "")
	in := fs.String("in", "-", "YAML input file, - for stdin")
	out := fs.String("out", "", "properties file to write")
	var common commonFlags
	common.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *out == "" {
		fs.Usage()
		return errUsage
	}
	_, logger, err := common.load(fs)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var r io.Reader = os.Stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	records, err := readYAMLRecords(r)
	if err != nil {
		return err
	}
	if err := propsfile.Write(*out, records); err != nil {
		return err
	}
	logger.Info("wrote properties file", zap.String("path", *out), zap.Int("records", len(records)))
	fmt.Fprintf(stdout, "%d records\n", len(records))
	return nil
}

func runInspect(args []string, stdout io.Writer) error {
	fs := newFlagSet("inspect", "<props-file>")
	verify := fs.Bool("verify", true, "verify the file checksum first")
	var common commonFlags
	common.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	cfg, logger, err := common.load(fs)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	r, err := propsfile.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()
	if *verify {
		if err := r.Verify(); err != nil {
			return err
		}
	}

	props := make([]sstid.TableProperties, 0, r.Len())
	for p, err := range r.All() {
		if err != nil {
			return fmt.Errorf("record %d: %w", len(props), err)
		}
		props = append(props, p)
	}

	results, err := sstid.UniqueIDs(context.Background(), props, cfg.BatchOptions(logger)...)
	if err != nil {
		return err
	}
	var failed, temporary int
	for i, res := range results {
		switch {
		case res.ID == nil:
			failed++
			fmt.Fprintf(stdout, "%d\t%d\t-\t%s\n", i, props[i].OrigFileNumber, res.Status)
		case res.Temporary:
			temporary++
			fmt.Fprintf(stdout, "%d\t%d\t%s\ttemporary\n", i, props[i].OrigFileNumber, sstid.UniqueIDToHumanString(res.ID))
		default:
			fmt.Fprintf(stdout, "%d\t%d\t%s\n", i, props[i].OrigFileNumber, sstid.UniqueIDToHumanString(res.ID))
		}
	}
	logger.Info("inspected properties file",
		zap.String("path", fs.Arg(0)),
		zap.Int("records", len(results)),
		zap.Int("failed", failed),
		zap.Int("temporary", temporary))
	return nil
}

func runVerify(args []string, stdout io.Writer) error {
	fs := newFlagSet("verify", "<props-file> ...")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	var errs []error
	for _, path := range fs.Args() {
		err := verifyFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		fmt.Fprintf(stdout, "%s: OK\n", path)
	}
	return errors.Join(errs...)
}

func verifyFile(path string) error {
	r, err := propsfile.Open(path)
	if err != nil {
		return err
	}
	return errors.Join(r.Verify(), r.Close())
}

func runFilename(args []string, stdout io.Writer) error {
	fs := newFlagSet("filename", "<name> ...")
	dbPath := fs.String("db-path", "", "absolute DB path, used to derive the info log prefix")
	logDir := fs.Bool("log-dir", false, "info logs live in a separate directory")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	prefix := filename.InfoLogPrefix(*logDir, *dbPath)
	var errs []error
	for _, name := range fs.Args() {
		number, typ, walType, ok := filename.ParseFileName(name, prefix)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: not a database file name", name))
			continue
		}
		if typ == filename.WalFile {
			fmt.Fprintf(stdout, "%s\t%s\t%d\t%s\n", name, typ, number, walType)
			continue
		}
		fmt.Fprintf(stdout, "%s\t%s\t%d\n", name, typ, number)
	}
	return errors.Join(errs...)
}
