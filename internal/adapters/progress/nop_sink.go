package progress

import (
	"context"

	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

// NopSink discards progress, used for JSON output and non-interactive runs
type NopSink struct{}

// NewNopSink creates a new no-op progress sink
func NewNopSink() *NopSink {
	return &NopSink{}
}

func (n *NopSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {}

func (n *NopSink) Info(message string) {}

func (n *NopSink) Error(message string) {}

var _ usecase.ProgressSink = (*NopSink)(nil)
