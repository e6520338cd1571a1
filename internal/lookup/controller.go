package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yegors/skytrack/pkg/logger"
)

// Controller runs the request lifecycle of one view instance:
// Idle -> Loading -> Succeeded | Failed -> Loading on the next submission.
//
// Every submission gets a new generation. Starting a submission cancels the
// one in flight, and a resolution is applied only while its generation is
// still the latest, so the last submission always wins.
type Controller struct {
	endpoint Endpoint
	fetcher  Fetcher
	logger   *logger.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	closed bool
}

// NewController creates a controller in the Idle phase
func NewController(endpoint Endpoint, fetcher Fetcher, logger *logger.Logger) *Controller {
	return &Controller{
		endpoint: endpoint,
		fetcher:  fetcher,
		logger:   logger.Named("lookup-" + endpoint.Noun),
		state:    State{Phase: PhaseIdle},
	}
}

// Endpoint returns the endpoint this controller queries
func (c *Controller) Endpoint() Endpoint {
	return c.endpoint
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs a submission to completion and returns its final state. If a
// later submission started meanwhile, the returned state is not applied.
func (c *Controller) Submit(ctx context.Context, query Query) State {
	gen, runCtx := c.begin(ctx, query)

	if err := c.precheck(query); err != nil {
		return c.resolve(gen, query, nil, err)
	}

	records, err := c.run(runCtx, query)
	return c.resolve(gen, query, records, err)
}

// SubmitAsync starts a submission and returns its generation without waiting
// for the response. Precondition failures are applied before it returns.
func (c *Controller) SubmitAsync(ctx context.Context, query Query) uint64 {
	gen, runCtx := c.begin(ctx, query)

	if err := c.precheck(query); err != nil {
		c.resolve(gen, query, nil, err)
		return gen
	}

	go func() {
		records, err := c.run(runCtx, query)
		c.resolve(gen, query, records, err)
	}()

	return gen
}

// Close cancels the in-flight request, if any. Its result is discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// begin moves to Loading under a new generation and cancels the previous
// in-flight request
func (c *Controller) begin(ctx context.Context, query Query) (uint64, context.Context) {
	runCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel

	c.state = State{
		Phase:      PhaseLoading,
		Generation: c.state.Generation + 1,
		Query:      query,
	}

	return c.state.Generation, runCtx
}

// precheck enforces the credential and non-blank input requirements
func (c *Controller) precheck(query Query) error {
	if c.endpoint.Credential.Value == "" {
		return &Error{Kind: KindConfigurationMissing, Message: MissingCredentialMessage}
	}
	if query.Blank() {
		return &Error{Kind: KindValidationFailed, Message: c.endpoint.ValidationMessage}
	}
	return nil
}

// run performs the outbound request and maps the response
func (c *Controller) run(ctx context.Context, query Query) ([]Record, error) {
	body, err := c.fetcher.Fetch(ctx, c.endpoint, query)
	if err != nil {
		return nil, c.transportError(err)
	}
	return MapResponse(c.endpoint, body)
}

func (c *Controller) transportError(err error) *Error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return &Error{
			Kind:       KindTransportFailed,
			Message:    fmt.Sprintf("Failed to fetch %s data (status %d)", c.endpoint.Noun, statusErr.StatusCode),
			StatusCode: statusErr.StatusCode,
			Err:        err,
		}
	}
	return &Error{
		Kind:    KindTransportFailed,
		Message: fmt.Sprintf("Failed to fetch %s data: %v", c.endpoint.Noun, err),
		Err:     err,
	}
}

// resolve builds the final state of generation gen and applies it if gen is
// still current
func (c *Controller) resolve(gen uint64, query Query, records []Record, err error) State {
	final := State{
		Phase:      PhaseSucceeded,
		Generation: gen,
		Query:      query,
		Records:    records,
	}
	if err != nil {
		final.Phase = PhaseFailed
		final.Records = nil
		final.Err = asLookupError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Debug("Discarding result of closed controller", logger.Uint64("generation", gen))
		return final
	}
	if gen != c.state.Generation {
		c.logger.Debug("Discarding superseded result",
			logger.Uint64("generation", gen),
			logger.Uint64("current_generation", c.state.Generation),
		)
		return final
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = final

	if final.Err != nil && final.Err.Kind == KindTransportFailed {
		c.logger.Warn("Search request failed",
			logger.Uint64("generation", gen),
			logger.Int("status_code", final.Err.StatusCode),
			logger.Error(final.Err.Err),
		)
	} else {
		c.logger.Debug("Search resolved",
			logger.Uint64("generation", gen),
			logger.String("phase", string(final.Phase)),
			logger.Int("records", len(final.Records)),
		)
	}

	return final
}

func asLookupError(err error) *Error {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr
	}
	return &Error{Kind: KindTransportFailed, Message: err.Error(), Err: err}
}
