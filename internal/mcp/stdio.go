// ABOUTME: Newline-delimited JSON-RPC session over a reader/writer pair.
// ABOUTME: One request is read, handled and answered before the next read.

package mcp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// ServeStdio runs a session until r reaches EOF (returns nil), ctx is cancelled
// (returns ctx.Err()), or reading or writing fails. Blank lines and malformed
// requests produce no output. A trailing line with no newline is discarded.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	writer := bufio.NewWriter(w)

	s.logger.Info("stdio session started")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(bytes.TrimSpace(line)) > 0 {
					s.logger.Debug("discarding unterminated line at EOF", "bytes", len(line))
				}
				s.logger.Info("stdio session ended")
				return nil
			}
			return fmt.Errorf("reading request: %w", err)
		}

		if err := s.serveLine(ctx, line, writer); err != nil {
			return err
		}
	}
}

// serveLine handles one framed line. Only write failures are returned.
func (s *Server) serveLine(ctx context.Context, line []byte, w *bufio.Writer) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	req, err := ParseRequest(line)
	if err != nil {
		s.logger.Warn("skipping malformed request", "error", err, "bytes", len(line))
		return nil
	}

	resp := s.Handle(ctx, TransportStdio, req)
	data, err := encodeJSON(resp)
	if err != nil {
		s.logger.Error("encoding response", "error", err, "method", req.Method)
		data, err = encodeJSON(errorResponse(req.ID, fmt.Sprintf("Internal error: %v", err)))
		if err != nil {
			return fmt.Errorf("encoding error response: %w", err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing response: %w", err)
	}
	return nil
}
