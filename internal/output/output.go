// Package output switches command output between human text and JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONMode controls whether output is JSON or human-readable
var JSONMode bool

// Out receives JSON documents. Tests point it at a buffer.
var Out io.Writer = os.Stdout

// exit is swapped in tests.
var exit = os.Exit

// Result represents a generic result for JSON output
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Print outputs data. In JSON mode, marshals to JSON. Otherwise calls the textFn.
func Print(data any, textFn func()) {
	if JSONMode {
		write(Result{Success: true, Data: data})
		return
	}
	textFn()
}

// PrintFailure reports data that describes a failure, such as a
// notification Result with an error. In JSON mode the document carries both
// the data and the error; otherwise textFn runs. It does not exit.
func PrintFailure(data any, err error, textFn func()) {
	if JSONMode {
		write(Result{Success: false, Data: data, Error: err.Error()})
		return
	}
	textFn()
}

// PrintError outputs an error and exits with status 1.
func PrintError(err error) {
	if JSONMode {
		write(Result{Success: false, Error: err.Error()})
		exit(1)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exit(1)
}

func write(r Result) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		out, _ = json.Marshal(Result{Success: false, Error: err.Error()})
	}
	fmt.Fprintln(Out, string(out))
}
