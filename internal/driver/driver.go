// Package driver implements Component H: the progressive rendering state
// machine. It owns the snapshot's render cadence — consuming task
// results, debouncing redraws, and emitting skeleton/streaming/finalized
// frames to stderr without ever tearing a partially-drawn row.
package driver

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rxfork/worktrunk/internal/task"
)

// DefaultDebounce is the coalescing window picked for progressive
// repaints: loose enough to avoid visible flicker, tight enough to still
// feel live (spec §9's open question, pinned here at 40ms).
const DefaultDebounce = 40 * time.Millisecond

// State names the driver's position in its own small state machine.
type State int

const (
	StateInit State = iota
	StateStreaming
	StateQuiesced
	StateFinalized
)

// Mode selects interactive progressive frames vs. the directive-mode
// shell-integration protocol (§6); the driver only concerns itself with
// interactive framing, directive mode's empty-stdout-until-exit contract
// is handled entirely by cmd/wt.
type Mode int

const (
	ModeInteractive Mode = iota
	ModeDirective
)

// Driver runs the state machine for one `list` invocation.
type Driver struct {
	Results     <-chan task.Result
	Apply       func(task.Result)
	RenderFrame func() []string // renders the *entire* current snapshot

	Out         io.Writer
	Progressive bool
	Debounce    time.Duration

	state      State
	lastHeight int
}

// Run drives the state machine to completion: it emits the skeleton frame
// immediately, then streams coalesced repaints until the results channel
// closes, then emits one final frame.
//
// On ctx cancellation (interrupt), Run stops waiting for new results,
// relies on the caller to have already stopped dispatching new tasks
// (component E's responsibility), prints whatever the snapshot holds, and
// returns — it never kills an in-flight child process.
func (d *Driver) Run(ctx context.Context) {
	if d.Debounce == 0 {
		d.Debounce = DefaultDebounce
	}

	d.state = StateInit
	d.paint()

	if !d.Progressive {
		d.drainWithoutRendering(ctx)
		d.state = StateFinalized
		d.paint()
		return
	}

	timer := time.NewTimer(d.Debounce)
	defer timer.Stop()
	dirty := false

	for {
		select {
		case <-ctx.Done():
			d.paint()
			return

		case r, ok := <-d.Results:
			if !ok {
				d.state = StateFinalized
				d.paint()
				return
			}
			d.Apply(r)
			d.state = StateStreaming
			dirty = true

		case <-timer.C:
			if d.state == StateStreaming && dirty {
				d.paint()
				dirty = false
			}
			d.state = StateQuiesced
			timer.Reset(d.Debounce)
		}
	}
}

func (d *Driver) drainWithoutRendering(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-d.Results:
			if !ok {
				return
			}
			d.Apply(r)
		}
	}
}

// paint renders the current snapshot in full and overwrites the previous
// frame atomically: move the cursor to the previous frame's first line,
// rewrite each line, clear to end-of-line. It never emits a partial row —
// the entire frame comes from RenderFrame, which always reads the
// complete current snapshot.
func (d *Driver) paint() {
	lines := d.RenderFrame()

	if d.lastHeight > 0 {
		fmt.Fprintf(d.Out, "\x1b[%dA", d.lastHeight) // cursor up N lines
	}
	for _, line := range lines {
		fmt.Fprint(d.Out, line)
		fmt.Fprint(d.Out, "\x1b[K") // clear to end-of-line
		fmt.Fprint(d.Out, "\n")
	}
	d.lastHeight = len(lines)
}
