package main

import (
	"bufio"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/localcp"
	"github.com/wippyai/localcp/config"
	"github.com/wippyai/localcp/errors"
	"github.com/wippyai/localcp/local"
	"github.com/wippyai/localcp/xtext"
)

func main() {
	var (
		from        = flag.String("from", "", "Input profile (console, file) or codepage (default: console for a terminal, else file)")
		to          = flag.String("to", "", "Output profile or codepage (default: console for a terminal, else file)")
		configPath  = flag.String("config", "", "Path to profile configuration (default: $LOCALCP_CONFIG)")
		decompress  = flag.String("decompress", "", "Decompress input first: auto, gzip, zstd, br, snappy, lz4")
		strict      = flag.Bool("strict", false, "Stop at the first invalid sequence instead of replacing it")
		list        = flag.Bool("list", false, "List supported codepages and the resolved profiles, then exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log codepage resolution to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: localcp [-from cp] [-to cp] [-strict] [-decompress alg] [file...]")
		fmt.Fprintln(os.Stderr, "       localcp -list")
		fmt.Fprintln(os.Stderr, "       localcp -i  (interactive mode)")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	log := newLogger(*verbose)
	defer log.Sync()
	localcp.SetLogger(log)
	xtext.SetLogger(log.Named("xtext"))
	local.SetLogger(log.Named("local"))

	sel, err := loadSelector(*configPath, *strict)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(sel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *list {
		printList(os.Stdout, sel)
		return
	}

	if *from == "" {
		*from = defaultProfile(os.Stdin)
	}
	if *to == "" {
		*to = defaultProfile(os.Stdout)
	}

	opts := options{from: *from, to: *to, decompress: *decompress}
	if err := run(sel, opts, flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns a console logger for terminals and a JSON logger otherwise.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	var (
		log *zap.Logger
		err error
	)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		log, err = cfg.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func loadSelector(path string, strict bool) (*local.Selector, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if strict {
		cfg.Invalid = config.InvalidStop
	}
	return local.FromConfig(cfg)
}

func defaultProfile(f *os.File) string {
	if term.IsTerminal(int(f.Fd())) {
		return local.Console.String()
	}
	return local.File.String()
}

type options struct {
	from       string
	to         string
	decompress string
}

// endpoint resolves a -from/-to value to a capability; nil means UTF-8.
func endpoint(sel *local.Selector, arg string) (localcp.Codepage, error) {
	if p, ok := local.ParseProfile(strings.ToLower(arg)); ok {
		return sel.Codepage(p), nil
	}
	id, err := xtext.ParseID(arg)
	if err != nil {
		return nil, err
	}
	return sel.Open(id)
}

func run(sel *local.Selector, opts options, files []string, stdin io.Reader, stdout io.Writer) error {
	fromCP, err := endpoint(sel, opts.from)
	if err != nil {
		return err
	}
	toCP, err := endpoint(sel, opts.to)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(stdout)
	w := localcp.NewWriter(out, toCP, sel.Policy())

	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, name := range files {
		if err := transcodeFile(name, stdin, fromCP, w, sel.Policy(), opts.decompress); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return out.Flush()
}

func transcodeFile(name string, stdin io.Reader, cp localcp.Codepage, w io.Writer, policy localcp.Policy, alg string) error {
	in := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return errors.IO(errors.PhaseDecode, err)
		}
		defer f.Close()
		in = f
	}

	src, closeSrc, err := openDecompressed(in, alg)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer closeSrc()

	br := bufio.NewReader(src)
	var dec localcp.RuneDecoder
	if cp == nil {
		dec = localcp.NewUTF8Decoder(br)
	} else {
		dec = localcp.NewDecoder(br, cp)
	}

	if _, err := io.Copy(w, localcp.NewReader(dec, policy)); err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Kind != errors.KindIO {
			return fmt.Errorf("%s: offset %d: %w", name, e.Offset, err)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func printList(w io.Writer, sel *local.Selector) {
	fmt.Fprintf(w, "Profiles:\n")
	for _, p := range []local.Profile{local.Console, local.File} {
		id := sel.ID(p)
		fmt.Fprintf(w, "  %-8s %5d  %s\n", p, id, xtext.Name(id))
	}
	fmt.Fprintf(w, "\nCodepages:\n")
	for _, id := range xtext.Supported() {
		fmt.Fprintf(w, "  %5d  %s\n", id, xtext.Name(id))
	}
}
