package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rxfork/worktrunk/internal/trace"
)

// chromeEvent is one entry of the Chrome Trace Event Format's JSON Array
// form (https://chromium.googlesource.com/catapult, the format both
// chrome://tracing and Perfetto accept).
type chromeEvent struct {
	Name  string  `json:"name"`
	Cat   string  `json:"cat,omitempty"`
	Ph    string  `json:"ph"`
	TS    int64   `json:"ts"`
	Dur   float64 `json:"dur,omitempty"`
	PID   int     `json:"pid"`
	TID   int64   `json:"tid"`
	Scope string  `json:"s,omitempty"`
}

// newAnalyzeTraceCmd converts [wt-trace] log lines into Chrome Trace Event
// JSON, mirroring original_source/src/bin/analyze-trace.rs: a command
// entry becomes a complete ("X") slice, an instant becomes an instant ("I")
// event scoped to the whole trace ("g").
func newAnalyzeTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "analyze-trace [file]",
		Short:  "Convert wt-trace log lines into Chrome Trace Format JSON",
		Hidden: true,
		Args:   cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("reading %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			} else if isTerminal(os.Stdin) {
				fmt.Fprintln(os.Stderr, "Reading from stdin... (pipe trace data or use Ctrl+D to end)")
				fmt.Fprintln(os.Stderr, "Hint: WT_TRACE_FILE=/tmp/t.log wt list; wt analyze-trace /tmp/t.log")
			}

			entries, err := parseTraceStream(r)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(os.Stderr, "No trace entries found in input.")
				fmt.Fprintln(os.Stderr)
				fmt.Fprintln(os.Stderr, "Trace lines should look like:")
				fmt.Fprintln(os.Stderr, `  [wt-trace] ts=1234567890 tid=3 cmd="git status" dur=12.3ms ok=true`)
				fmt.Fprintln(os.Stderr, `  [wt-trace] ts=1234567890 tid=3 event="Showed skeleton"`)
				return fmt.Errorf("no trace entries found")
			}

			out, err := toChromeTrace(entries)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func parseTraceStream(r io.Reader) ([]trace.Entry, error) {
	var entries []trace.Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		idx := strings.Index(line, "[wt-trace]")
		if idx < 0 {
			continue
		}
		e, err := trace.Parse(line[idx:])
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

func toChromeTrace(entries []trace.Entry) ([]byte, error) {
	events := make([]chromeEvent, 0, len(entries))
	for _, e := range entries {
		if e.IsInstant {
			events = append(events, chromeEvent{
				Name: e.Name, Cat: "milestone", Ph: "I", TS: e.StartUS, PID: 1, TID: e.ThreadID, Scope: "g",
			})
			continue
		}
		cat := "command"
		if !e.OK {
			cat = "command_failed"
		}
		events = append(events, chromeEvent{
			Name: e.Name, Cat: cat, Ph: "X", TS: e.StartUS,
			Dur: float64(e.Duration.Microseconds()), PID: 1, TID: e.ThreadID,
		})
	}
	return json.MarshalIndent(events, "", "  ")
}
