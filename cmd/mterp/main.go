package main

import (
	"flag"
	"fmt"
	golog "log"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"mterp/pkg/config"
	"mterp/pkg/dex"
)

var log = commonlog.GetLogger("mterp")

type command struct {
	name  string
	usage string
	run   func(args []string) error
}

var commands = []command{
	{"run", "run [flags] program.{s,mtb} LClass;->method[(sig)] [args...]", runCommand},
	{"asm", "asm -o out.mtb program.s", asmCommand},
	{"disasm", "disasm program.{s,mtb}", disasmCommand},
	{"profile", "profile -profile dir program.{s,mtb}", profileCommand},
	{"serve", "serve [-socket path]", serveCommand},
	{"check", "check [-socket path] program.{s,mtb} LClass;->method[(sig)] [args...]", checkCommand},
	{"collect", "collect [-listen addr] [-out file]", collectCommand},
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: mterp <command> [arguments]")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  mterp %s\n", c.usage)
	}
}

func main() {
	golog.SetFlags(0)
	golog.SetPrefix("mterp: ")
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	for _, c := range commands {
		if c.name == os.Args[1] {
			if err := c.run(os.Args[2:]); err != nil {
				golog.Fatal(err)
			}
			return
		}
	}
	usage()
	os.Exit(2)
}

// options are the flags every command accepts.
type options struct {
	configPath string
	verbosity  int
	logFile    string
}

func addCommonFlags(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "Path to an mterp.toml configuration file")
	fs.IntVar(&o.verbosity, "v", -1, "Log verbosity (overrides the configuration file)")
	fs.StringVar(&o.logFile, "log", "", "Write logs to this file instead of stderr")
	return o
}

// load reads the configuration and sets up logging.
func (o *options) load() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.verbosity >= 0 {
		cfg.Log.Verbosity = o.verbosity
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	var path *string
	if cfg.Log.File != "" {
		path = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, path)
	return cfg, nil
}

// loadProgram reads a .mtb container, or assembles anything else.
func loadProgram(path string) (*dex.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".mtb") {
		return dex.Load(data)
	}
	prog, err := dex.Assemble(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// parseMethodRef splits LClass;->name(sig)ret. The signature is optional.
func parseMethodRef(ref string) (class, name, sig string, err error) {
	class, rest, ok := strings.Cut(ref, "->")
	if !ok || class == "" || rest == "" {
		return "", "", "", fmt.Errorf("bad method reference %q, want LClass;->name(sig)ret", ref)
	}
	if i := strings.IndexByte(rest, '('); i >= 0 {
		return class, rest[:i], rest[i:], nil
	}
	return class, rest, "", nil
}
