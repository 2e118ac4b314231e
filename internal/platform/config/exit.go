package config

import (
	"fmt"
	"io"
	"os"
)

// Exitf writes "tictac: <message>" to stderr and exits with code 1. Commands
// use it for failures that happen before a logger exists.
func Exitf(format string, args ...any) {
	writeExit(os.Stderr, format, args...)
	os.Exit(1)
}

func writeExit(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "tictac: "+format+"\n", args...)
}
