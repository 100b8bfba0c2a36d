package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"
	"github.com/mashirou1234/yesod-auth/internal/core/ports"
	"github.com/mashirou1234/yesod-auth/internal/observability"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	maxResponseBody = 64 * 1024
	maxBackoffShift = 20
	recordTimeout   = 5 * time.Second
)

// errDeliveryAbandoned marks a delivery cut short by worker shutdown.
var errDeliveryAbandoned = errors.New("delivery abandoned")

// HTTPClient abstracts the HTTP client for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewDeliveryHTTPClient returns the client used for endpoint POSTs. Redirects
// are not followed; a 3xx is the endpoint's answer and is classified like any
// other status. A nil transport uses a clone of the default one.
func NewDeliveryHTTPClient(transport http.RoundTripper) *http.Client {
	if transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// WorkerOptions tunes the delivery loop.
type WorkerOptions struct {
	PopTimeout          time.Duration
	ErrorBackoff        time.Duration
	EndpointConcurrency int
}

// WebhookWorker consumes the event queue and delivers each event to its
// subscribers. Events are handled one at a time, which keeps per-endpoint
// delivery in queue order.
type WebhookWorker struct {
	queue      ports.EventQueue
	config     ports.WebhookConfigProvider
	signer     ports.WebhookSigner
	deliveries ports.DeliveryRepository
	client     HTTPClient
	tracer     *observability.Tracer
	opts       WorkerOptions
	log        zerolog.Logger

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWebhookWorker creates a stopped worker.
func NewWebhookWorker(
	queue ports.EventQueue,
	config ports.WebhookConfigProvider,
	signer ports.WebhookSigner,
	deliveries ports.DeliveryRepository,
	client HTTPClient,
	tracer *observability.Tracer,
	opts WorkerOptions,
	log zerolog.Logger,
) *WebhookWorker {
	if opts.PopTimeout <= 0 {
		opts.PopTimeout = time.Second
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = time.Second
	}
	if opts.EndpointConcurrency <= 0 {
		opts.EndpointConcurrency = 1
	}
	if tracer == nil {
		tracer = observability.NoopTracer()
	}
	return &WebhookWorker{
		queue:      queue,
		config:     config,
		signer:     signer,
		deliveries: deliveries,
		client:     client,
		tracer:     tracer,
		opts:       opts,
		log:        log.With().Str("component", "webhook_worker").Logger(),
		sleep:      sleepContext,
		now:        time.Now,
	}
}

// Start recovers events left unacknowledged by a previous run and starts the
// loop in its own goroutine. Starting a running worker is a no-op.
func (w *WebhookWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done != nil {
		w.log.Warn().Msg("webhook worker is already running")
		return nil
	}

	n, err := w.queue.Recover(ctx)
	if err != nil {
		return fmt.Errorf("recovering unacknowledged events: %w", err)
	}
	if n > 0 {
		w.log.Info().Int("events", n).Msg("requeued unacknowledged webhook events")
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(runCtx, w.done)

	w.log.Info().Msg("webhook worker started")
	return nil
}

// Stop signals the loop and waits for it to exit or for ctx to expire.
// An event whose delivery is interrupted stays reserved in the queue and is
// redelivered after the next Start.
func (w *WebhookWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if done == nil {
		return nil
	}

	cancel()
	select {
	case <-done:
		w.log.Info().Msg("webhook worker stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for webhook worker: %w", ctx.Err())
	}
}

func (w *WebhookWorker) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for ctx.Err() == nil {
		if err := w.processNext(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Msg("webhook worker loop error")
			_ = w.sleep(ctx, w.opts.ErrorBackoff)
		}
	}
}

// processNext pops and handles at most one event.
func (w *WebhookWorker) processNext(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing webhook event: %v", r)
		}
	}()

	entry, err := w.queue.Pop(ctx, w.opts.PopTimeout)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}

	event, err := domain.WebhookEventFromPayload(entry.Payload)
	if err != nil {
		w.log.Error().Err(err).Msg("malformed webhook event, moving to dead-letter list")
		if dlErr := w.queue.DeadLetter(detached(ctx), entry); dlErr != nil {
			return dlErr
		}
		return nil
	}

	if err := w.handleEvent(ctx, event); err != nil {
		if errors.Is(err, errDeliveryAbandoned) {
			w.log.Info().Str("event_id", event.ID.String()).Msg("webhook event interrupted, left for redelivery")
			return nil
		}
		return err
	}

	ackCtx, cancel := context.WithTimeout(detached(ctx), recordTimeout)
	defer cancel()
	return w.queue.Ack(ackCtx, entry)
}

// handleEvent delivers event to every current subscriber. It returns
// errDeliveryAbandoned if shutdown interrupted any endpoint.
func (w *WebhookWorker) handleEvent(ctx context.Context, event *domain.WebhookEvent) error {
	cfg := w.config.Current()
	endpoints := cfg.EndpointsForEvent(event.Type)
	if len(endpoints) == 0 {
		w.log.Debug().Str("event_id", event.ID.String()).Str("event_type", event.Type).Msg("no endpoints for webhook event")
		return nil
	}

	if w.opts.EndpointConcurrency == 1 || len(endpoints) == 1 {
		for _, ep := range endpoints {
			if err := w.deliver(ctx, event, ep, cfg.Settings); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(w.opts.EndpointConcurrency)
	for _, ep := range endpoints {
		g.Go(func() error {
			return w.deliver(ctx, event, ep, cfg.Settings)
		})
	}
	return g.Wait()
}

// attemptResult is the outcome of one HTTP attempt.
type attemptResult struct {
	outcome    domain.DeliveryOutcome
	httpStatus int // 0 when no response arrived
	latencyMs  *int
	errMsg     string
}

// deliver runs the attempt sequence for one endpoint and records its outcome.
func (w *WebhookWorker) deliver(ctx context.Context, event *domain.WebhookEvent, ep domain.WebhookEndpoint, settings domain.WebhookSettings) error {
	log := w.log.With().
		Str("event_id", event.ID.String()).
		Str("event_type", event.Type).
		Str("endpoint_id", ep.ID).
		Logger()

	body, err := event.BodyFor(ep.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to build webhook body")
		w.record(ctx, event, ep, attemptResult{outcome: domain.OutcomePermanent, errMsg: err.Error()}, 0, 1)
		return nil
	}

	maxAttempts := settings.MaxAttempts()
	var (
		res        attemptResult
		lastStatus int
		attempt    int
	)
	for attempt = 1; ; attempt++ {
		if attempt > 1 {
			delay := BackoffDelay(settings.RetryBaseDelay(), attempt-2)
			log.Info().
				Int("attempt", attempt).
				Int("max_attempts", maxAttempts).
				Dur("delay", delay).
				Msg("retrying webhook delivery")
			if err := w.sleep(ctx, delay); err != nil {
				return errDeliveryAbandoned
			}
		}

		res = w.attempt(ctx, event, ep, body, settings.DeliveryTimeout(), attempt)
		if ctx.Err() != nil && res.httpStatus == 0 {
			return errDeliveryAbandoned
		}
		if res.httpStatus != 0 {
			lastStatus = res.httpStatus
		}

		if res.outcome != domain.OutcomeRetryable || attempt >= maxAttempts {
			break
		}
		log.Warn().Int("attempt", attempt).Int("http_status", res.httpStatus).Str("error", res.errMsg).Msg("webhook delivery attempt failed")
	}

	switch res.outcome {
	case domain.OutcomeSuccess:
		latency := 0
		if res.latencyMs != nil {
			latency = *res.latencyMs
		}
		log.Info().Int("attempts", attempt).Int("latency_ms", latency).Msg("webhook delivered")
	case domain.OutcomePermanent:
		log.Warn().Int("http_status", res.httpStatus).Msg("webhook rejected by endpoint, not retrying")
	default:
		log.Error().Int("attempts", attempt).Str("error", res.errMsg).Msg("webhook delivery failed after retries")
	}

	w.record(ctx, event, ep, res, lastStatus, attempt)
	return nil
}

// attempt performs a single signed POST and classifies the result.
func (w *WebhookWorker) attempt(ctx context.Context, event *domain.WebhookEvent, ep domain.WebhookEndpoint, body []byte, timeout time.Duration, n int) attemptResult {
	spanCtx, span := w.tracer.StartAttemptSpan(ctx, event.ID.String(), event.Type, ep.ID, n)
	res := w.post(spanCtx, event, ep, body, timeout)

	latency := 0
	if res.latencyMs != nil {
		latency = *res.latencyMs
	}
	w.tracer.EndAttemptSpan(span, res.httpStatus, latency, res.outcome.String(), res.errMsg)
	return res
}

func (w *WebhookWorker) post(ctx context.Context, event *domain.WebhookEvent, ep domain.WebhookEndpoint, body []byte, timeout time.Duration) attemptResult {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return attemptResult{outcome: domain.OutcomePermanent, errMsg: err.Error()}
	}
	req.Header = w.signer.Headers(string(body), ep.Secret, event.Type, ep.ID)

	start := w.now()
	resp, err := w.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return attemptResult{outcome: domain.OutcomeRetryable, errMsg: "Request timeout"}
		}
		return attemptResult{outcome: domain.OutcomeRetryable, errMsg: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	latency := int(w.now().Sub(start).Milliseconds())

	res := attemptResult{
		outcome:    domain.ClassifyStatus(resp.StatusCode),
		httpStatus: resp.StatusCode,
		latencyMs:  &latency,
	}
	if res.outcome != domain.OutcomeSuccess {
		res.errMsg = strings.TrimSpace(string(respBody))
		if res.errMsg == "" {
			res.errMsg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
	}
	return res
}

// record writes the terminal outcome. A failed write is logged and dropped.
func (w *WebhookWorker) record(ctx context.Context, event *domain.WebhookEvent, ep domain.WebhookEndpoint, res attemptResult, lastStatus, attempts int) {
	now := w.now().UTC()
	d := &domain.WebhookDelivery{
		ID:           uuid.New(),
		EventID:      event.ID,
		EventType:    event.Type,
		EndpointID:   ep.ID,
		EndpointURL:  ep.URL,
		Status:       domain.DeliveryStatusFailed,
		AttemptCount: attempts,
		LatencyMs:    res.latencyMs,
		CreatedAt:    now,
		CompletedAt:  &now,
	}
	if res.outcome == domain.OutcomeSuccess {
		d.Status = domain.DeliveryStatusSuccess
	}
	if lastStatus != 0 {
		d.HTTPStatus = &lastStatus
	}
	if res.errMsg != "" {
		msg := domain.TruncateError(res.errMsg)
		d.ErrorMessage = &msg
	}

	writeCtx, cancel := context.WithTimeout(detached(ctx), recordTimeout)
	defer cancel()
	if err := w.deliveries.Create(writeCtx, d); err != nil {
		w.log.Error().Err(err).
			Str("event_id", event.ID.String()).
			Str("endpoint_id", ep.ID).
			Msg("failed to record webhook delivery")
	}
}

// BackoffDelay returns the wait before retry number retry (0-based):
// base, 2*base, 4*base, ...
func BackoffDelay(base time.Duration, retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}
	if retry > maxBackoffShift {
		retry = maxBackoffShift
	}
	return base * time.Duration(1<<retry)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func detached(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
