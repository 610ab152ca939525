package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/samber/lo"

	"github.com/daios-ai/decompiler"
	"github.com/daios-ai/decompiler/internal/interp"
	"github.com/daios-ai/decompiler/internal/names"
	"github.com/daios-ai/decompiler/internal/syntax"
)

const (
	appName    = "decompile"
	promptMain = "==> "
	promptCont = "... "
	maxMatches = 10
)

var (
	banner   = fmt.Sprintf("Galaxy decompiler %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.", decompiler.Version)
	helpText = `
Input is a definition (name = ap ...) or a bare value.

REPL commands:
  :names <query>          Fuzzy-search the name dictionary
  :apply <name> <int>...  Run a definition and its decompiled form on arguments
  :trace                  Toggle stage dumps
  :quit                   Exit the REPL
`
)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := decompiler.LoadConfig()
	debug.SetMaxStack(cfg.MaxStackBytes())
	if cfg.Debug {
		decompiler.DebuggingMode = true
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(cfg, os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(cfg, os.Args[2:]))
	case "names":
		os.Exit(cmdNames(cfg, os.Args[2:]))
	case "version":
		fmt.Println(decompiler.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Galaxy decompiler %s

Usage:
  %s run [-names file.json] [-trace] <file|->    Decompile every definition of a file.
  %s repl [-names file.json]                     Start the REPL.
  %s names [-names file.json] <query>            Search the name dictionary.
  %s version                                     Print the version

Environment:
  DECOMPILE_DEBUG, DECOMPILE_NAMES, DECOMPILE_MAX_STACK_MB, DECOMPILE_HISTORY

`, decompiler.Version, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(cfg decompiler.Config, args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	namesPath := fs.String("names", cfg.NamesPath, "name dictionary (JSON)")
	trace := fs.Bool("trace", cfg.Debug, "dump every stage to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [-names file.json] [-trace] <file|->\n", appName)
		return 2
	}
	cfg.NamesPath = *namesPath

	dict, err := cfg.Dictionary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	file := fs.Arg(0)
	var in io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
			return 1
		}
		defer f.Close()
		in = f
	}

	opts := []decompiler.Option{decompiler.WithSourceName(file)}
	if *trace {
		opts = append(opts, decompiler.WithTrace(log.New(os.Stderr, "", 0)))
	}
	if err := decompiler.New(dict, opts...).Run(in, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// names
// -----------------------------------------------------------------------------

func cmdNames(cfg decompiler.Config, args []string) int {
	fs := flag.NewFlagSet("names", flag.ContinueOnError)
	namesPath := fs.String("names", cfg.NamesPath, "name dictionary (JSON)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg.NamesPath = *namesPath
	dict, err := cfg.Dictionary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	printMatches(os.Stdout, dict, strings.Join(fs.Args(), " "), 0)
	return 0
}

// printMatches lists dictionary entries matching query; an empty query lists
// everything. limit <= 0 means no limit.
func printMatches(w io.Writer, dict *names.Dictionary, query string, limit int) {
	var entries []names.Entry
	if query == "" {
		entries = lo.FilterMap(dict.Refs(), func(ref string, _ int) (names.Entry, bool) {
			return dict.Lookup(ref)
		})
	} else {
		entries = dict.Search(query)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for _, e := range entries {
		if e.Typed {
			fmt.Fprintf(w, "%-6s  %s : %s\n", e.Ref, e.Name, e.Type)
		} else {
			fmt.Fprintf(w, "%-6s  %s\n", e.Ref, e.Name)
		}
	}
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

// session is the state of one REPL run. Definitions entered so far are kept so
// :apply can resolve references between them.
type session struct {
	dec     *decompiler.Decompiler
	dict    *names.Dictionary
	tracing bool
	order   []string
	defs    map[string]*decompiler.Result
}

func cmdRepl(cfg decompiler.Config, args []string) (ret int) {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	namesPath := fs.String("names", cfg.NamesPath, "name dictionary (JSON)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg.NamesPath = *namesPath
	dict, err := cfg.Dictionary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	fmt.Println(banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completer(dict))

	defer func() {
		if f, err := os.Create(cfg.HistoryPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(cfg.HistoryPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := newSession(dict, cfg.Debug)

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(code, ":") {
			if s.command(code) {
				return 0
			}
			continue
		}

		out, err := s.line(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		fmt.Println(blue(out))
	}

	return 0
}

func newSession(dict *names.Dictionary, tracing bool) *session {
	s := &session{dict: dict, tracing: tracing, defs: map[string]*decompiler.Result{}}
	s.rebuild()
	return s
}

func (s *session) rebuild() {
	var opts []decompiler.Option
	if s.tracing {
		opts = append(opts, decompiler.WithTrace(log.New(os.Stderr, "", 0)))
	}
	s.dec = decompiler.New(s.dict, opts...)
}

// line decompiles one REPL entry and renders it. Continuation lines are joined
// with single spaces first; parse errors point into that joined text.
func (s *session) line(code string) (string, error) {
	code = strings.Join(strings.Fields(code), " ")
	res, err := s.decompile(code)
	if err != nil {
		return "", decompiler.WrapErrorWithSource(err, code)
	}
	return res.String(), nil
}

// decompile accepts a definition or a bare value, which is named "it".
func (s *session) decompile(code string) (*decompiler.Result, error) {
	var def syntax.Definition
	if isDefinition(code) {
		d, err := syntax.ParseLine(code)
		if err != nil {
			return nil, err
		}
		def = d
	} else {
		v, err := syntax.ParseValue(code)
		if err != nil {
			return nil, err
		}
		def = syntax.Definition{Name: "it", Value: v}
	}
	res := s.dec.Definition(def)
	if _, seen := s.defs[def.Name]; !seen {
		s.order = append(s.order, def.Name)
	}
	s.defs[def.Name] = res
	return res, nil
}

// command runs a :command and reports whether the REPL should exit.
func (s *session) command(code string) bool {
	fields := strings.Fields(code)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Print(helpText)
	case ":trace":
		s.tracing = !s.tracing
		s.rebuild()
		fmt.Printf("trace %s\n", lo.Ternary(s.tracing, "on", "off"))
	case ":names":
		printMatches(os.Stdout, s.dict, strings.Join(fields[1:], " "), maxMatches)
	case ":apply":
		if len(fields) < 2 {
			fmt.Println("usage: :apply <name> <int>...")
			break
		}
		s.apply(fields[1], fields[2:])
	default:
		fmt.Printf("unknown command. Type :help for commands.\n")
	}
	return false
}

// apply evaluates a stored definition both as entered and as decompiled, on
// the same integer arguments, and prints both observations.
func (s *session) apply(name string, rawArgs []string) {
	res, ok := s.defs[name]
	if !ok {
		fmt.Fprintln(os.Stderr, red("no definition named "+name))
		return
	}
	args := make([]interp.Value, 0, len(rawArgs))
	for _, a := range rawArgs {
		n, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, red("argument "+a+" is not an integer"))
			return
		}
		args = append(args, interp.Int(n))
	}

	m := s.machine(name)
	v, err := m.EvalRaw(res.Definition.Value)
	fmt.Printf("raw:  %s\n", s.observe(m, name, v, err, args))

	m = s.machine(name)
	v, err = m.EvalExpr(res.Renamed)
	fmt.Printf("expr: %s\n", s.observe(m, name, v, err, args))
}

// machine returns an evaluator whose globals are the other stored definitions,
// evaluated in entry order. Definitions that fail to evaluate stay unbound.
func (s *session) machine(skip string) *interp.Machine {
	m := interp.New()
	for _, name := range s.order {
		if name == skip {
			continue
		}
		if v, err := m.EvalRaw(s.defs[name].Definition.Value); err == nil {
			m.Global.Define(name, v)
		}
	}
	return m
}

func (s *session) observe(m *interp.Machine, name string, v interp.Value, err error, args []interp.Value) string {
	if err == nil {
		v, err = m.ApplyAll(v, args...)
	}
	if err != nil {
		return red(decompiler.WrapErrorWithName(err, name, "").Error())
	}
	return m.Observe(v)
}

func isDefinition(code string) bool {
	return lo.ContainsBy(syntax.Lex(code), func(t syntax.Token) bool { return t.Type == syntax.EQUAL })
}

// completer offers keywords and dictionary names for the word under the cursor.
func completer(dict *names.Dictionary) liner.Completer {
	words := append(syntax.Keywords(), dict.Refs()...)
	return func(line string) []string {
		i := strings.LastIndexAny(line, " \t") + 1
		prefix, word := line[:i], line[i:]
		if word == "" {
			return nil
		}
		return lo.FilterMap(words, func(w string, _ int) (string, bool) {
			return prefix + w, strings.HasPrefix(w, word)
		})
	}
}

func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		var perr error
		if isDefinition(src) {
			_, perr = syntax.ParseLineInteractive(src)
		} else {
			_, perr = syntax.ParseValueInteractive(src)
		}
		if perr == nil {
			return src, true
		}
		if syntax.IsIncomplete(perr) && strings.TrimSpace(line) != "" {
			continue
		}
		return src, true
	}
}
