// Package roundlog buffers one round's diagnostics and serializes them, with a
// compressed view of the snapshot and the emitted orders, into one JSON line.
package roundlog

import (
	"fmt"
	"strings"
)

// Buffer 收集单轮的自由文本日志，由调用方在轮末 Flush。零值可用。
type Buffer struct {
	sb strings.Builder
}

// Printf appends a formatted line; a trailing newline is added when missing.
func (b *Buffer) Printf(format string, args ...any) {
	fmt.Fprintf(&b.sb, format, args...)
	if !strings.HasSuffix(format, "\n") {
		b.sb.WriteByte('\n')
	}
}

// Print appends the operands separated by spaces, followed by a newline.
func (b *Buffer) Print(args ...any) {
	fmt.Fprintln(&b.sb, args...)
}

func (b *Buffer) String() string { return b.sb.String() }

func (b *Buffer) Len() int { return b.sb.Len() }

func (b *Buffer) Reset() { b.sb.Reset() }
