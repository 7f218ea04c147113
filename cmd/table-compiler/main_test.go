package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/table-lang/table/internal/diagnostic"
)

func writeFixture(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}
	return path
}

func TestCompileAll(t *testing.T) {
	path := writeFixture(t, "main.tbl", "fun main(): int { return 0; }\n")

	var sb strings.Builder
	if err := compileAll(context.Background(), []string{path}, &sb); err != nil {
		t.Fatalf("compileAll failed: %v", err)
	}

	out := sb.String()
	if !strings.Contains(out, "FunDef: main") {
		t.Fatalf("output missing function definition. got:\n%s", out)
	}
	if strings.Contains(out, "==>") {
		t.Fatalf("single-file output has a file header. got:\n%s", out)
	}
}

func TestCompileAllMultipleFiles(t *testing.T) {
	a := writeFixture(t, "a.tbl", "const x: int = 1;\n")
	b := writeFixture(t, "b.tbl", "const y: int = 2;\n")

	var sb strings.Builder
	if err := compileAll(context.Background(), []string{a, b}, &sb); err != nil {
		t.Fatalf("compileAll failed: %v", err)
	}

	out := sb.String()
	first := strings.Index(out, "==> "+a)
	second := strings.Index(out, "==> "+b)
	if first == -1 || second == -1 || second < first {
		t.Fatalf("file headers missing or out of order. got:\n%s", out)
	}
}

func TestCompileAllReportsParseError(t *testing.T) {
	path := writeFixture(t, "bad.tbl", "let x: int = 1;\n")

	var sb strings.Builder
	err := compileAll(context.Background(), []string{path}, &sb)
	if err == nil {
		t.Fatalf("expected parse error, got none")
	}
	var diag *diagnostic.Error
	if !errors.As(err, &diag) {
		t.Fatalf("error is not a diagnostic. got=%T (%v)", err, err)
	}
	if sb.Len() != 0 {
		t.Fatalf("failed compile produced output:\n%s", sb.String())
	}
}

func TestCompileAllMissingFile(t *testing.T) {
	err := compileAll(context.Background(), []string{"does-not-exist.tbl"}, &strings.Builder{})
	if err == nil {
		t.Fatalf("expected error for missing file, got none")
	}
}
