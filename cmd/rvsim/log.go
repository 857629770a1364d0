package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

// Logger builds a logfmt-handler log.Logger writing to w at the given
// level, matching the teacher's cmd.Logger.
func Logger(w io.Writer, lvl slog.Level) log.Logger {
	return log.NewLogger(log.LogfmtHandlerWithLevel(w, lvl))
}

// LoggingWriter adapts a log.Logger to an io.Writer, for the guest
// program's stdout/stderr to write through. Text is logged as a string
// field; anything containing control bytes outside \n/\t, or any non-ASCII
// character, is logged as hex
// instead, so binary output from a misbehaving guest doesn't corrupt the
// log stream.
type LoggingWriter struct {
	Name string
	Log  log.Logger
}

func logAsText(b string) bool {
	for _, c := range b {
		if (c < 0x20 || c >= 0x7F) && (c != '\n' && c != '\t') {
			return false
		}
	}
	return true
}

func (lw *LoggingWriter) Write(b []byte) (int, error) {
	t := string(b)
	if logAsText(t) {
		lw.Log.Info(lw.Name, "text", t)
	} else {
		lw.Log.Info(lw.Name, "data", hexutil.Bytes(b))
	}
	return len(b), nil
}

// HexU32 lazy-formats a 32-bit value as 8 hex digits for structured log
// attributes.
type HexU32 uint32

func (v HexU32) String() string {
	return fmt.Sprintf("%08x", uint32(v))
}

func (v HexU32) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
