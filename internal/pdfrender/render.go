// Package pdfrender rasterizes single PDF pages to PNG using the
// poppler pdftocairo utility.
package pdfrender

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/itm-platform/itm-data-api/internal/logger"
)

const (
	// DefaultTimeout bounds a single pdftocairo invocation.
	DefaultTimeout = 60 * time.Second

	// retryDelay is the pause before the page-1 fallback attempt.
	retryDelay = 500 * time.Millisecond
)

// Runner executes the external converter binary. Tests substitute a
// fake to exercise the fallback policy without poppler installed.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	return cmd.CombinedOutput()
}

type Converter struct {
	bin     string
	runner  Runner
	timeout time.Duration
	log     *logger.Logger
}

// NewConverter builds a Converter around the pdftocairo binary. binDir
// may be empty, in which case pdftocairo is resolved from PATH.
func NewConverter(binDir string, baseLog *logger.Logger) *Converter {
	bin := "pdftocairo"
	if binDir != "" {
		bin = filepath.Join(binDir, "pdftocairo")
	}
	return &Converter{
		bin:     bin,
		runner:  execRunner{},
		timeout: DefaultTimeout,
		log:     baseLog.With("component", "pdfrender"),
	}
}

// WithRunner replaces the process runner. Test hook.
func (c *Converter) WithRunner(r Runner) *Converter {
	c.runner = r
	return c
}

// ConvertPage renders one page of pdfPath as PNG at outPrefix+".png".
// Pages below 1 are clamped to 1. Any stale output file is removed
// first so a failed run cannot be mistaken for success.
func (c *Converter) ConvertPage(ctx context.Context, pdfPath, outPrefix string, page int) (string, error) {
	if page < 1 {
		page = 1
	}
	outPath := outPrefix + ".png"
	_ = os.Remove(outPath)

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	p := strconv.Itoa(page)
	out, err := c.runner.Run(runCtx, c.bin, "-png", "-f", p, "-l", p, "-singlefile", pdfPath, outPrefix)
	if err != nil {
		return "", fmt.Errorf("pdftocairo page %d: %w (output: %s)", page, err, string(out))
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return "", fmt.Errorf("pdftocairo produced no output for page %d: %w", page, err)
	}
	if info.Size() == 0 {
		_ = os.Remove(outPath)
		return "", fmt.Errorf("pdftocairo produced empty output for page %d", page)
	}
	return outPath, nil
}

// ConvertWithFallback renders the requested page, and on failure waits
// briefly and retries page 1 exactly once. Multi-page wafer map PDFs
// sometimes report fewer pages than the point index implies; page 1
// always exists in well-formed files.
func (c *Converter) ConvertWithFallback(ctx context.Context, pdfPath, outPrefix string, page int) (string, error) {
	outPath, err := c.ConvertPage(ctx, pdfPath, outPrefix, page)
	if err == nil {
		return outPath, nil
	}
	if page <= 1 {
		return "", err
	}
	c.log.Warn("page conversion failed, retrying first page",
		"pdf", pdfPath, "page", page, "error", err)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(retryDelay):
	}
	return c.ConvertPage(ctx, pdfPath, outPrefix, 1)
}
