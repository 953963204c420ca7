// Package loader picks the dialect of a board file and parses it.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile/brd"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile/brd2"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile/kicad"
)

// ErrUnknownFormat is returned when no dialect accepts a buffer
var ErrUnknownFormat = errors.New("unknown board file format")

// Dialects lists the supported dialects in detection order
var Dialects = []boardfile.Dialect{
	brd.Parser{},
	brd2.Parser{},
	kicad.Parser{},
}

// Options configures loading
type Options struct {
	// Logger receives probe and timing messages; nil uses log.Default()
	Logger *log.Logger
}

func (o *Options) logger() *log.Logger {
	if o == nil || o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// Result is what LoadAsync delivers
type Result struct {
	Path  string
	Board *board.Board
	Err   error
}

// Detect returns the first dialect whose Verify accepts buf
func Detect(buf []byte) (boardfile.Dialect, error) {
	return detect(buf, log.Default())
}

func detect(buf []byte, logger *log.Logger) (boardfile.Dialect, error) {
	if err := boardfile.CheckSize(buf); err != nil {
		return nil, err
	}
	for _, d := range Dialects {
		ok := d.Verify(buf)
		logger.Debug("probe", "dialect", d.Name(), "match", ok)
		if ok {
			return d, nil
		}
	}
	return nil, ErrUnknownFormat
}

// Load detects the dialect of buf and parses it
func Load(buf []byte, opts *Options) (*board.Board, error) {
	logger := opts.logger()
	d, err := detect(buf, logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	b, err := d.Parse(buf)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed board",
		"dialect", d.Name(),
		"parts", len(b.Parts),
		"pins", len(b.Pins),
		"took", time.Since(start))
	return b, nil
}

// LoadFile reads path and parses it
func LoadFile(path string, opts *Options) (*board.Board, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	b, err := Load(buf, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// LoadAsync parses path on its own goroutine and delivers one Result on the
// returned channel. If ctx is done first the result is dropped and the
// channel is closed without a value; the parse itself is not interrupted.
func LoadAsync(ctx context.Context, path string, opts *Options) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		b, err := LoadFile(path, opts)
		if ctx.Err() != nil {
			opts.logger().Debug("load dropped", "path", path, "reason", ctx.Err())
			return
		}
		select {
		case out <- Result{Path: path, Board: b, Err: err}:
		case <-ctx.Done():
		}
	}()
	return out
}
