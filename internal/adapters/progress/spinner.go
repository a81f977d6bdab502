package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

// SpinnerProgressReporter shows deployment stages next to a spinner
type SpinnerProgressReporter struct {
	out     io.Writer
	spinner *spinner.Spinner
	stages  []stageInfo
}

type stageInfo struct {
	Stage     string
	StartTime time.Time
	EndTime   time.Time
}

// NewSpinnerProgressReporter creates a spinner writing to out (normally stderr)
func NewSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
	}
}

// OnProgress records stage transitions and updates the spinner text
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != "" && (len(r.stages) == 0 || r.stages[len(r.stages)-1].Stage != event.Stage) {
		r.completeCurrentStage()
		r.stages = append(r.stages, stageInfo{Stage: event.Stage, StartTime: time.Now()})
	}

	if event.Stage == string(usecase.StageCompleted) {
		r.completeCurrentStage()
		r.spinner.Stop()
		return
	}

	if !event.Spinner {
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		if event.Message != "" {
			fmt.Fprintln(r.out, event.Message)
		}
		return
	}

	r.spinner.Suffix = " " + r.display(event.Message)
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.printAround(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.printAround(color.New(color.FgRed), message)
}

// printAround pauses the spinner while a line is printed
func (r *SpinnerProgressReporter) printAround(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) completeCurrentStage() {
	if len(r.stages) > 0 && r.stages[len(r.stages)-1].EndTime.IsZero() {
		r.stages[len(r.stages)-1].EndTime = time.Now()
	}
}

// display renders finished stages with their durations, then the running one
func (r *SpinnerProgressReporter) display(message string) string {
	var display string
	for i, stage := range r.stages {
		if i > 0 {
			display += " → "
		}
		if stage.EndTime.IsZero() {
			display += fmt.Sprintf("● %s", color.YellowString(stage.Stage))
			continue
		}
		display += fmt.Sprintf("✓ %s (%s)", color.GreenString(stage.Stage), stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
	}
	if message != "" {
		display += "  " + message
	}
	return display
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
