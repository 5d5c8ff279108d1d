package transport

import (
	"bufio"
	"context"
	"io"
	"log"
)

// MessageHandler processes one request's raw bytes and returns the raw
// response bytes to write back, or nil if no response is due (a
// notification).
type MessageHandler func(ctx context.Context, raw []byte) []byte

// ServeStdio runs a line-framed JSON-RPC pipe over r/w until ctx is
// cancelled or the reader reaches EOF. Each line of input is one JSON-RPC
// message; each response is written back as a single line.
func ServeStdio(ctx context.Context, r io.Reader, w io.Writer, handle MessageHandler) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		msg := make([]byte, len(line))
		copy(msg, line)

		resp := handle(ctx, msg)
		if resp == nil {
			continue
		}
		if _, err := w.Write(append(resp, '\n')); err != nil {
			return &Error{Kind: ErrIO, Message: "stdio write failed", Cause: err}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("stdio transport: scan error: %v", err)
		return &Error{Kind: ErrIO, Message: "stdio read failed", Cause: err}
	}
	return nil
}
