package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// CIResult is the single JSON line a command prints in --ci mode.
type CIResult struct {
	OK      bool     `json:"ok"`
	Command string   `json:"command"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func PrintCIResult(ok bool, command string, details []string, err error) {
	FprintCIResult(os.Stdout, ok, command, details, err)
}

func FprintCIResult(w io.Writer, ok bool, command string, details []string, err error) {
	res := CIResult{OK: ok, Command: command, Details: details}
	if err != nil {
		res.Error = err.Error()
	}
	b, mErr := json.Marshal(res)
	if mErr != nil {
		_, _ = fmt.Fprintf(w, "{\"ok\":false,\"command\":%q,\"error\":%q}\n", command, mErr.Error())
		return
	}
	_, _ = fmt.Fprintln(w, string(b))
}
