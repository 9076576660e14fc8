package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/buildply/intake/internal/sink"
)

// Summary reports the outcome of a batch run.
type Summary struct {
	Total        int      `json:"total" yaml:"total"`
	Succeeded    int      `json:"succeeded" yaml:"succeeded"`
	Failed       int      `json:"failed" yaml:"failed"`
	FailedInputs []string `json:"failed_inputs,omitempty" yaml:"failed_inputs,omitempty"`
}

// Runner processes inputs sequentially, appending each record to the
// sink as soon as its extraction completes.
type Runner struct {
	extractor *Extractor
	sink      sink.RecordSink
	logger    *slog.Logger
}

// NewRunner creates a batch runner.
func NewRunner(extractor *Extractor, recordSink sink.RecordSink, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		extractor: extractor,
		sink:      recordSink,
		logger:    logger,
	}
}

// Run extracts every input in order. A failed extraction yields its
// fallback record and the run continues; only sink failures and
// cancellation abort the batch, since past that point records would be
// silently dropped.
func (r *Runner) Run(ctx context.Context, inputs []string) (Summary, error) {
	summary := Summary{Total: len(inputs)}

	for i, text := range inputs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		preview := text
		if len(preview) > 60 {
			preview = preview[:60] + "..."
		}
		r.logger.Info("processing input",
			"index", i+1,
			"total", len(inputs),
			"text", preview)

		result := r.extractor.Extract(ctx, text)
		if err := r.sink.Append(ctx, result); err != nil {
			return summary, fmt.Errorf("failed to persist record %d: %w", i+1, err)
		}

		if result.Failed() {
			summary.Failed++
			summary.FailedInputs = append(summary.FailedInputs, text)
		} else {
			summary.Succeeded++
			r.logger.Info("extraction succeeded", "index", i+1, "attempts", result.Attempts)
		}
	}

	return summary, nil
}
