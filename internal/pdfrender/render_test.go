package pdfrender

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/itm-platform/itm-data-api/internal/logger"
)

type fakeRunner struct {
	calls    [][]string
	failFor  map[string]bool // page number -> fail
	writeOut bool
}

func (f *fakeRunner) Run(ctx context.Context, bin string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, args)
	page := ""
	for i, a := range args {
		if a == "-f" && i+1 < len(args) {
			page = args[i+1]
		}
	}
	if f.failFor[page] {
		return []byte("Syntax Error: page out of range"), errors.New("exit status 99")
	}
	if f.writeOut {
		outPrefix := args[len(args)-1]
		if err := os.WriteFile(outPrefix+".png", []byte("png-bytes"), 0o644); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func pageOf(t *testing.T, args []string) string {
	t.Helper()
	for i, a := range args {
		if a == "-f" && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("no -f flag in args %v", args)
	return ""
}

func newTestConverter(t *testing.T, r Runner) *Converter {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewConverter("", log).WithRunner(r)
}

func TestConvertPageSuccess(t *testing.T) {
	runner := &fakeRunner{writeOut: true, failFor: map[string]bool{}}
	c := newTestConverter(t, runner)
	prefix := filepath.Join(t.TempDir(), "out")

	outPath, err := c.ConvertPage(context.Background(), "in.pdf", prefix, 3)
	if err != nil {
		t.Fatalf("ConvertPage: %v", err)
	}
	if outPath != prefix+".png" {
		t.Errorf("outPath = %q, want %q", outPath, prefix+".png")
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(runner.calls))
	}
	if got := pageOf(t, runner.calls[0]); got != "3" {
		t.Errorf("page = %s, want 3", got)
	}
}

func TestConvertPageClampsToFirstPage(t *testing.T) {
	runner := &fakeRunner{writeOut: true, failFor: map[string]bool{}}
	c := newTestConverter(t, runner)
	prefix := filepath.Join(t.TempDir(), "out")

	if _, err := c.ConvertPage(context.Background(), "in.pdf", prefix, 0); err != nil {
		t.Fatalf("ConvertPage: %v", err)
	}
	if got := pageOf(t, runner.calls[0]); got != "1" {
		t.Errorf("page = %s, want 1", got)
	}
}

func TestConvertPageEmptyOutputIsError(t *testing.T) {
	runner := &fakeRunner{writeOut: false, failFor: map[string]bool{}}
	c := newTestConverter(t, runner)
	prefix := filepath.Join(t.TempDir(), "out")

	if _, err := c.ConvertPage(context.Background(), "in.pdf", prefix, 1); err == nil {
		t.Fatal("expected error when converter writes nothing")
	}
}

func TestConvertWithFallbackRetriesFirstPageOnce(t *testing.T) {
	runner := &fakeRunner{writeOut: true, failFor: map[string]bool{"5": true}}
	c := newTestConverter(t, runner)
	prefix := filepath.Join(t.TempDir(), "out")

	outPath, err := c.ConvertWithFallback(context.Background(), "in.pdf", prefix, 5)
	if err != nil {
		t.Fatalf("ConvertWithFallback: %v", err)
	}
	if outPath != prefix+".png" {
		t.Errorf("outPath = %q, want %q", outPath, prefix+".png")
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(runner.calls))
	}
	if got := pageOf(t, runner.calls[0]); got != "5" {
		t.Errorf("first attempt page = %s, want 5", got)
	}
	if got := pageOf(t, runner.calls[1]); got != "1" {
		t.Errorf("fallback page = %s, want 1", got)
	}
}

func TestConvertWithFallbackNoRetryForFirstPage(t *testing.T) {
	runner := &fakeRunner{failFor: map[string]bool{"1": true}}
	c := newTestConverter(t, runner)
	prefix := filepath.Join(t.TempDir(), "out")

	if _, err := c.ConvertWithFallback(context.Background(), "in.pdf", prefix, 1); err == nil {
		t.Fatal("expected error")
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 invocation for page 1, got %d", len(runner.calls))
	}
}

func TestConvertWithFallbackBothFail(t *testing.T) {
	runner := &fakeRunner{failFor: map[string]bool{"1": true, "4": true}}
	c := newTestConverter(t, runner)
	prefix := filepath.Join(t.TempDir(), "out")

	if _, err := c.ConvertWithFallback(context.Background(), "in.pdf", prefix, 4); err == nil {
		t.Fatal("expected error when both attempts fail")
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(runner.calls))
	}
}
