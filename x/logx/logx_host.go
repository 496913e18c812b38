//go:build !tinygo

package logx

import (
	"fmt"
	"io"
	"os"
)

var out io.Writer = os.Stderr

// SetOutput redirects host logging.
func SetOutput(w io.Writer) { out = w }

func emit(line []byte) { fmt.Fprintln(out, string(line)) }
