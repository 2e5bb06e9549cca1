// Sstid computes and inspects SST unique IDs.
//
// Usage:
//
//	sstid <command> [flags] [args]
//
// Commands:
//
//	gen       compute the unique ID of one table file
//	session   generate or decode DB session IDs
//	dbid      print a new DB ID
//	decode    decode an external unique ID given in hex
//	pack      convert a YAML list of table properties to a properties file
//	inspect   compute unique IDs for every record of a properties file
//	verify    check the checksum of a properties file
//	filename  parse database file names
//
// Run "sstid <command> -h" for the flags of a command.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
)

type command struct {
	summary string
	run     func(args []string, stdout io.Writer) error
}

var commands = map[string]command{
	"gen":      {"compute the unique ID of one table file", runGen},
	"session":  {"generate or decode DB session IDs", runSession},
	"dbid":     {"print a new DB ID", runDBID},
	"decode":   {"decode an external unique ID given in hex", runDecode},
	"pack":     {"convert a YAML list of table properties to a properties file", runPack},
	"inspect":  {"compute unique IDs for every record of a properties file", runInspect},
	"verify":   {"check the checksum of a properties file", runVerify},
	"filename": {"parse database file names", runFilename},
}

// errUsage reports bad invocation; the flag package has already printed
// the details.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	name := args[0]
	if name == "-h" || name == "-help" || name == "help" {
		usage(stdout)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "sstid: unknown command %q\n", name)
		usage(stderr)
		return 2
	}
	if err := cmd.run(args[1:], stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "sstid %s: %v\n", name, err)
		}
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: sstid <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}
}

// newFlagSet returns a flag set that reports errors instead of exiting and
// prints its usage to stderr.
func newFlagSet(name, argsUsage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: sstid %s [flags] %s\n", name, argsUsage)
		fs.PrintDefaults()
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}
