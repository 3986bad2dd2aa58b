package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"

	"github.com/ElementialCoder/fmath/source/cache"
	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/fm"
	"github.com/ElementialCoder/fmath/source/hub"
	"github.com/ElementialCoder/fmath/source/parser"
	"github.com/ElementialCoder/fmath/source/settings"
	"github.com/ElementialCoder/fmath/source/text"
	"github.com/ElementialCoder/fmath/source/vm"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	strict      bool
	logLevel    string
	noCache     bool
	compileOnly bool
	repl        bool
	cfg         *settings.Config
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, e := settings.LoadConfig(settings.HubFile())
	if e != nil {
		fmt.Fprintln(stderr, e)
		cfg = settings.DefaultConfig()
	}
	opts := options{cfg: cfg}
	flags := flag.NewFlagSet("fmath", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, text.HELP) }
	flags.BoolVar(&opts.strict, "strict", cfg.StrictLexer, "")
	flags.StringVar(&opts.logLevel, "log", cfg.LogLevel, "")
	flags.BoolVar(&opts.noCache, "no-cache", false, "")
	flags.BoolVar(&opts.compileOnly, "compile-only", false, "")
	flags.BoolVar(&opts.repl, "repl", false, "")
	if e := flags.Parse(args); e != nil {
		return 2
	}
	if e := log.SetLogLevelStr(opts.logLevel); e != nil {
		log.Warnf("Ignoring log level %q: %v", opts.logLevel, e)
	}

	if opts.repl || flags.NArg() == 0 {
		fmt.Fprint(stdout, text.Logo())
		hb := hub.New(os.Stdin, stdout)
		if e := hb.Configure(settings.HubFile()); e != nil {
			log.Warnf("Using default settings: %v", e)
		}
		hub.StartHub(hb)
		return 0
	}
	if flags.NArg() > 1 {
		fmt.Fprint(stderr, text.HELP)
		return 2
	}

	sourcePath, compiledPath, runCompiled := derivePaths(flags.Arg(0))
	var (
		program   vm.Program
		functions parser.FunctionTable
	)
	if runCompiled {
		if opts.compileOnly {
			fmt.Fprintln(stderr, "there's no source code to compile: "+compiledPath+" is already compiled")
			return 1
		}
		program, functions, e = loadCompiled(sourcePath, compiledPath)
	} else {
		program, functions, e = compileSource(sourcePath, compiledPath, opts)
	}
	if e != nil {
		report(stderr, e)
		return 1
	}
	if opts.compileOnly {
		fmt.Fprintln(stdout, "Compiled "+compiledPath)
		return 0
	}
	result, e := fm.Execute(program, functions)
	if e != nil {
		report(stderr, e)
		return 1
	}
	fmt.Fprintln(stdout, "Result: "+fm.Format(result))
	return 0
}

// derivePaths works out from the path on the command line which file is the source code,
// which is the compiled program, and whether we're running the latter. A '.mthc' file is run
// as it is. Otherwise the path, with '.mth' added if it hasn't got it, is the source, unless
// it doesn't exist and the compiled file does, in which case we run that.
func derivePaths(path string) (string, string, bool) {
	if strings.HasSuffix(path, settings.COMPILED_EXTENSION) {
		return strings.TrimSuffix(path, settings.COMPILED_EXTENSION) + settings.SOURCE_EXTENSION, path, true
	}
	base := strings.TrimSuffix(path, settings.SOURCE_EXTENSION)
	sourcePath, compiledPath := base+settings.SOURCE_EXTENSION, base+settings.COMPILED_EXTENSION
	if !exists(sourcePath) && exists(compiledPath) {
		return sourcePath, compiledPath, true
	}
	return sourcePath, compiledPath, false
}

func exists(path string) bool {
	_, e := os.Stat(path)
	return e == nil
}

// The compiled form doesn't contain the function definitions, so we get them from the source
// code if it's there and the program needs them.
func loadCompiled(sourcePath, compiledPath string) (vm.Program, parser.FunctionTable, error) {
	data, e := os.ReadFile(compiledPath)
	if e != nil {
		return nil, nil, e
	}
	program, e := vm.Decode(data)
	if e != nil {
		return nil, nil, e
	}
	if !vm.UsesFunctions(program) || !exists(sourcePath) {
		return program, parser.FunctionTable{}, nil
	}
	code, e := fm.GetSourceCode(sourcePath)
	if e != nil {
		return nil, nil, e
	}
	functions, e := fm.ParseFunctions(code)
	if e != nil {
		return nil, nil, e
	}
	return program, functions, nil
}

// A program that calls no user-defined functions doesn't need the source parsed at all.
func functionsFor(program vm.Program, code string) (parser.FunctionTable, error) {
	if !vm.UsesFunctions(program) {
		return parser.FunctionTable{}, nil
	}
	return fm.ParseFunctions(code)
}

func compileSource(sourcePath, compiledPath string, opts options) (vm.Program, parser.FunctionTable, error) {
	code, e := fm.GetSourceCode(sourcePath)
	if e != nil {
		return nil, nil, e
	}
	var c cache.Cache
	if !opts.noCache {
		bc, e := cache.Open(opts.cfg.CachePath)
		if e != nil {
			log.Warnf("Running without the cache: %v", e)
		} else {
			defer bc.Close()
			c = bc
		}
	}
	var (
		program   vm.Program
		functions parser.FunctionTable
		hit       bool
	)
	if c != nil && !opts.strict {
		if program, hit, e = cache.Lookup(c, code); e != nil {
			log.Warnf("%v", e)
		}
	}
	if hit {
		log.Infof("Using cached program for %s", sourcePath)
		if functions, e = functionsFor(program, code); e != nil {
			return nil, nil, e
		}
	} else {
		var ers err.Errors
		program, functions, ers = fm.CompileSource(filepath.Base(sourcePath), code, opts.strict)
		if len(ers) > 0 {
			return nil, nil, ers
		}
		if c != nil {
			if e := cache.Store(c, code, program); e != nil {
				log.Warnf("%v", e)
			}
		}
	}
	if e := os.WriteFile(compiledPath, vm.Encode(program), 0o644); e != nil {
		return nil, nil, e
	}
	log.Infof("Wrote %s", compiledPath)
	return program, functions, nil
}

func report(w io.Writer, e error) {
	if ers, ok := e.(err.Errors); ok {
		fmt.Fprint(w, text.Pretty(err.GetList(ers), 0, 92))
		return
	}
	fmt.Fprint(w, text.Pretty(text.RT_ERROR+e.Error(), 0, 92))
}
