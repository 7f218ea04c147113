// Command table-compiler is the front end driver for the Table language: it
// tokenizes and parses the given source files and prints their syntax trees.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/table-lang/table/internal/ast"
	"github.com/table-lang/table/internal/diagnostic"
	"github.com/table-lang/table/internal/lexer"
	"github.com/table-lang/table/internal/parser"
	"github.com/table-lang/table/internal/watch"
)

var (
	version = "0.1.0-alpha"
	commit  = "dev"
)

func usage() {
	fmt.Fprintf(os.Stderr, "table-compiler - parse Table source files\n\n")
	fmt.Fprintf(os.Stderr, "Usage: table-compiler [options] <file.tbl> [<file.tbl>...]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		debugLexer  = flag.Bool("debug-lexer", false, "print the token stream instead of parsing")
		watchMode   = flag.Bool("watch", false, "re-parse the inputs whenever they change")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("table-compiler %s (%s)\n", version, commit)
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		usage()
		os.Exit(2)
	}

	if *debugLexer {
		if err := dumpTokens(files); err != nil {
			fatal(err)
		}
		return
	}

	if *watchMode {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := watchLoop(ctx, files); err != nil && !errors.Is(err, context.Canceled) {
			fatal(err)
		}
		return
	}

	if err := compileAll(context.Background(), files, os.Stdout); err != nil {
		fatal(err)
	}
}

// fatal reports err on stderr and exits. Source diagnostics are printed in
// red; anything else goes through log.
func fatal(err error) {
	var diag *diagnostic.Error
	if errors.As(err, &diag) {
		fmt.Fprintf(os.Stderr, "\x1b[31m%v\x1b[0m\n", diag)
		os.Exit(1)
	}
	log.Fatalf("table-compiler: %v", err)
}

// compileAll parses every file concurrently and prints the resulting trees in
// input order. The first error cancels the remaining parses.
func compileAll(ctx context.Context, files []string, out io.Writer) error {
	programs := make([]*ast.Program, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			prog, err := parseFile(file)
			if err != nil {
				return err
			}
			mu.Lock()
			programs[i] = prog
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, prog := range programs {
		if len(files) > 1 {
			fmt.Fprintf(out, "==> %s\n", files[i])
		}
		if err := ast.Fprint(out, prog); err != nil {
			return err
		}
	}
	return nil
}

func parseFile(file string) (*ast.Program, error) {
	lex, err := lexer.NewFromFile(file)
	if err != nil {
		return nil, err
	}
	return parser.New(lex).ParseSourceFile()
}

// dumpTokens prints the token stream of each file, one token per line.
func dumpTokens(files []string) error {
	for _, file := range files {
		lex, err := lexer.NewFromFile(file)
		if err != nil {
			return err
		}
		for {
			tok, err := lex.NextToken()
			if err != nil {
				return err
			}
			fmt.Println(tok)
			if tok.Type == lexer.TokenEOF {
				break
			}
		}
	}
	return nil
}

// watchLoop parses the inputs, then re-parses them on every change until the
// context is cancelled. Parse errors are reported but do not end the loop.
func watchLoop(ctx context.Context, files []string) error {
	w, err := watch.New()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range watchDirs(files) {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	report := func() {
		if err := compileAll(ctx, files, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "\x1b[31m%v\x1b[0m\n", err)
		}
	}

	report()
	for {
		if _, err := w.Wait(ctx); err != nil {
			return err
		}
		report()
	}
}

// watchDirs returns the sorted set of parent directories of the input files.
// Watching directories instead of files keeps the watch alive across editors
// that replace files on save.
func watchDirs(files []string) []string {
	seen := make(map[string]bool)
	for _, file := range files {
		seen[filepath.Dir(file)] = true
	}
	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
