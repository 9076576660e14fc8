package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/buildply/intake/internal/metrics"
	"github.com/buildply/intake/internal/order"
	"github.com/buildply/intake/internal/providers"
	promptorder "github.com/buildply/intake/internal/prompts/order"
)

const (
	// DefaultMaxAttempts bounds LLM invocations per input.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay spaces retries 2s, then 4s apart (first attempt
	// is immediate), keeping retries gentle on rate limits.
	DefaultRetryDelay = 2 * time.Second
)

// ErrEmptyResponse indicates the model returned no usable text.
var ErrEmptyResponse = errors.New("empty response from model")

// Options configures an Extractor.
type Options struct {
	// MaxAttempts bounds total LLM invocations per input (default: 3).
	MaxAttempts int

	// RetryDelay is the base delay between attempts; attempt N waits
	// (N-1) * RetryDelay (default: 2s).
	RetryDelay time.Duration

	// DeadlineFirst makes deadline proximity outrank urgency keywords.
	DeadlineFirst bool

	// Now supplies the reference time (default: time.Now). Injected so
	// relative dates and proximity thresholds are testable.
	Now func() time.Time

	// Logger for attempt-level progress (default: slog.Default).
	Logger *slog.Logger

	// Usage, when set, accumulates token usage for every chat call.
	Usage *metrics.Recorder
}

// Extractor turns one free-text request into an order record, retrying
// transient failures and repairing non-conformant model output. Each
// input gets its own attempt counter; there is no shared retry state.
type Extractor struct {
	client providers.LLMClient

	mu            sync.RWMutex
	maxAttempts   int
	retryDelay    time.Duration
	deadlineFirst bool

	now    func() time.Time
	logger *slog.Logger
	usage  *metrics.Recorder
}

// New creates an Extractor backed by the given LLM client.
func New(client providers.LLMClient, opts Options) *Extractor {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Extractor{
		client:        client,
		maxAttempts:   opts.MaxAttempts,
		retryDelay:    opts.RetryDelay,
		deadlineFirst: opts.DeadlineFirst,
		now:           opts.Now,
		logger:        opts.Logger,
		usage:         opts.Usage,
	}
}

// Reconfigure updates the retry and heuristic knobs in place. Safe to
// call while a batch is running; the change applies from the next
// input, not mid-retry-loop. Zero values fall back to defaults, same
// as New.
func (e *Extractor) Reconfigure(opts Options) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.maxAttempts = opts.MaxAttempts
	e.retryDelay = opts.RetryDelay
	e.deadlineFirst = opts.DeadlineFirst
}

// settings snapshots the tunables for one input's attempt loop.
func (e *Extractor) settings() (maxAttempts int, retryDelay time.Duration, deadlineFirst bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.maxAttempts, e.retryDelay, e.deadlineFirst
}

// Extract runs the invoke/parse/repair loop for one input.
//
// A failed attempt (transport error, empty response, unparseable
// payload) is retried up to the attempt bound with increasing delay.
// When every attempt fails the returned Result carries the fallback
// all-null record and an error marker - the failure never propagates,
// so one bad input cannot halt a batch.
func (e *Extractor) Extract(ctx context.Context, text string) order.Result {
	now := e.now()
	maxAttempts, retryDelay, deadlineFirst := e.settings()
	attempts := 0

	var fields map[string]any
	err := retry.Do(
		func() error {
			attempts++
			f, aErr := e.attempt(ctx, text, now, attempts)
			if aErr != nil {
				e.logger.Warn("extraction attempt failed",
					"attempt", attempts,
					"max_attempts", maxAttempts,
					"error", aErr)
				return aErr
			}
			fields = f
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxAttempts)),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			// n is the attempt that just failed (1 before the second
			// attempt), giving waits of base, 2*base, ...
			return time.Duration(n) * retryDelay
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		e.logger.Error("extraction exhausted retries",
			"attempts", attempts,
			"error", err)
		return order.Result{
			Order:     order.Fallback(),
			InputText: text,
			Error:     err.Error(),
			Attempts:  attempts,
		}
	}

	if vErr := ValidateSchema(fields); vErr != nil {
		// Repair handles it; note the deviation for diagnostics.
		e.logger.Debug("response required repair", "error", vErr)
	}

	return order.Result{
		Order:     Repair(fields, text, now, deadlineFirst),
		InputText: text,
		Attempts:  attempts,
	}
}

// attempt performs one LLM invocation and parse.
func (e *Extractor) attempt(ctx context.Context, text string, now time.Time, attempt int) (map[string]any, error) {
	req := promptorder.BuildRequest(text, now)
	req.RequestID = uuid.New().String()

	result, err := e.client.Chat(ctx, req)
	if e.usage != nil {
		e.usage.Record(result)
	}
	if err != nil {
		return nil, fmt.Errorf("llm call failed: %w", err)
	}

	content := strings.TrimSpace(result.Content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	e.logger.Debug("llm response received",
		"attempt", attempt,
		"request_id", req.RequestID,
		"model", result.ModelUsed,
		"tokens", result.TotalTokens,
		"length", len(content))

	return ParseResponse(content)
}
