package advisory

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
	"github.com/mamadbah2/invest-advisor/pkg/clients/completion"
)

// Outcome sources and fallback reasons reported to the Recorder.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"

	ReasonDisabled = "disabled"
	ReasonNetwork  = "network"
	ReasonStatus   = "status"
	ReasonShape    = "shape"
)

// Recorder receives the outcome of each analysis.
type Recorder interface {
	RecordAdvisory(source, reason string, duration time.Duration)
}

// Analyzer answers a financial question about a company snapshot.
type Analyzer interface {
	Analyze(ctx context.Context, userMessage string, snapshot models.CompanySnapshot) string
}

// Dispatcher tries the remote completion endpoint once and falls back to the
// local heuristic narrative on any failure. It holds no per-call state.
type Dispatcher struct {
	client   completion.Client
	recorder Recorder
	timeout  time.Duration
	logger   *zap.Logger
}

// NewDispatcher wires a dispatcher. A nil client disables the remote path.
func NewDispatcher(client completion.Client, recorder Recorder, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		client:   client,
		recorder: recorder,
		timeout:  timeout,
		logger:   logger,
	}
}

// Analyze always returns displayable text; remote failures are logged and absorbed.
func (d *Dispatcher) Analyze(ctx context.Context, userMessage string, snapshot models.CompanySnapshot) string {
	start := time.Now()

	if d.client == nil {
		d.record(SourceFallback, ReasonDisabled, start)
		return Fallback(userMessage, snapshot)
	}

	callCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	text, err := d.client.Complete(callCtx, BuildRequest(userMessage, snapshot))
	if err != nil {
		reason := failureReason(err)
		d.logger.Warn("advisory endpoint failed, using fallback response",
			zap.String("reason", reason),
			zap.Error(err))
		d.record(SourceFallback, reason, start)
		return Fallback(userMessage, snapshot)
	}

	d.record(SourceRemote, "", start)
	return text
}

func (d *Dispatcher) record(source, reason string, start time.Time) {
	if d.recorder != nil {
		d.recorder.RecordAdvisory(source, reason, time.Since(start))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, completion.ErrUnexpectedStatus):
		return ReasonStatus
	case errors.Is(err, completion.ErrInvalidResponseShape):
		return ReasonShape
	default:
		return ReasonNetwork
	}
}
