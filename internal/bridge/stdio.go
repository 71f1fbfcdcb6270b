package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// maxLineSize bounds a single protocol line; exports travel base64-encoded.
const maxLineSize = 64 << 20

// Serve connects a Hub to a line-delimited JSON stream. Each input line is
// a date or csv envelope; each Response is written as one JSON line. Serve
// returns when the input is exhausted and all responses are written, or
// when ctx is cancelled.
func Serve(ctx context.Context, h *Hub, in io.Reader, out io.Writer, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("component", "stdio")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The reader is not part of the group; a blocked Read must not keep
	// Serve from returning after cancellation.
	readErr := make(chan error, 1)
	go func() {
		readErr <- readLoop(ctx, h, in, log)
		close(h.dates)
		close(h.data)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.Run(gctx) })
	g.Go(func() error { return writeLoop(h.Responses(), out) })
	if err := g.Wait(); err != nil {
		return err
	}

	select {
	case err := <-readErr:
		return err
	default:
		return nil
	}
}

func readLoop(ctx context.Context, h *Hub, in io.Reader, log *slog.Logger) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for line := 1; sc.Scan(); line++ {
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		msg, err := decodeEnvelope(raw)
		if err != nil {
			log.Warn("skipping line", "line", line, "error", err)
			continue
		}
		switch m := msg.(type) {
		case *DateRequest:
			select {
			case h.dates <- *m:
			case <-ctx.Done():
				return nil
			}
		case *CSVData:
			select {
			case h.data <- *m:
			case <-ctx.Done():
				return nil
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func writeLoop(responses <-chan Response, out io.Writer) error {
	enc := json.NewEncoder(out)
	for resp := range responses {
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	return nil
}
