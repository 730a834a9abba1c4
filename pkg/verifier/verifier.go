package verifier

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/gopact/gopact/internal/id"
	"github.com/gopact/gopact/internal/matching"
	"github.com/gopact/gopact/pkg/broker"
	"github.com/gopact/gopact/pkg/logging"
	"github.com/gopact/gopact/pkg/metrics"
	"github.com/gopact/gopact/pkg/pact"
	"github.com/gopact/gopact/pkg/pacterr"
	"github.com/gopact/gopact/pkg/providerstate"
	"github.com/gopact/gopact/pkg/ratelimit"
	gotls "github.com/gopact/gopact/pkg/tls"
	"github.com/gopact/gopact/pkg/tracing"
	"github.com/gopact/gopact/pkg/util"
)

// Option configures a Verifier, mirroring the functional-options style used
// throughout this module's builders.
type Option func(*Verifier)

// WithLogger overrides the verifier's slog logger (default: logging.Nop()).
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) { v.log = logger }
}

// WithBroker attaches a broker client so Verify can publish per-pact results
// after verification, tagged with providerVersion.
func WithBroker(client broker.BrokerClient, providerVersion string) Option {
	return func(v *Verifier) {
		v.broker = client
		v.providerVersion = providerVersion
	}
}

// WithConcurrency bounds how many pacts verify in parallel; interactions
// within one pact always run sequentially regardless of this setting, to
// preserve provider-state ordering. n <= 1 means fully sequential.
func WithConcurrency(n int) Option {
	return func(v *Verifier) { v.concurrency = n }
}

// WithExtraHeaders attaches headers (e.g. auth) sent with every provider
// request.
func WithExtraHeaders(headers map[string]string) Option {
	return func(v *Verifier) { v.extraHeaders = headers }
}

// WithClientCertificate presents a client certificate on every provider
// request, for providers sitting behind mutual TLS.
func WithClientCertificate(certFile, keyFile string) Option {
	return func(v *Verifier) { v.certFile, v.keyFile = certFile, keyFile }
}

// WithRateLimit throttles outgoing provider requests to at most rps per
// second, with burst as the token bucket's capacity. Useful against
// providers that rate-limit or to avoid overwhelming a shared staging
// environment during verification.
func WithRateLimit(rps float64, burst int) Option {
	return func(v *Verifier) { v.limiter = ratelimit.NewBucket(rps, burst) }
}

// WithMetrics records per-interaction duration and outcome counts into reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(v *Verifier) { v.metrics = newVerifierMetrics(reg) }
}

// WithTracer wraps each interaction verification in a client span, useful
// for correlating a verification run with the provider's own traces.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(v *Verifier) { v.tracer = tracer }
}

// Verifier replays pact interactions against a real running provider.
type Verifier struct {
	providerBaseURL string
	setter          providerstate.Setter
	httpClient      *http.Client
	log             *slog.Logger
	broker          broker.BrokerClient
	providerVersion string
	concurrency     int
	extraHeaders    map[string]string
	certFile        string
	keyFile         string
	limiter         *ratelimit.Bucket
	metrics         *verifierMetrics
	tracer          *tracing.Tracer
}

type verifierMetrics struct {
	duration *metrics.Histogram
	total    *metrics.Counter
}

func newVerifierMetrics(reg *metrics.Registry) *verifierMetrics {
	return &verifierMetrics{
		duration: reg.NewHistogram("pactverify_interaction_duration_seconds",
			"Duration of a single interaction verification against the provider.",
			metrics.DefaultBuckets),
		total: reg.NewCounter("pactverify_interactions_total",
			"Count of verified interactions by status.", "status"),
	}
}

func (m *verifierMetrics) observe(status Status, elapsed time.Duration) {
	if m == nil {
		return
	}
	_ = m.duration.Observe(elapsed.Seconds())
	if vec, err := m.total.WithLabels(string(status)); err == nil {
		_ = vec.Inc()
	}
}

// New returns a Verifier that sends requests to providerBaseURL, using
// setter to apply provider states before each interaction.
func New(providerBaseURL string, setter providerstate.Setter, opts ...Option) (*Verifier, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("verifier: creating cookie jar: %w", err)
	}

	v := &Verifier{
		providerBaseURL: strings.TrimRight(providerBaseURL, "/"),
		setter:          setter,
		httpClient:      &http.Client{Jar: jar},
		log:             logging.Nop(),
		concurrency:     1,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.setter == nil {
		v.setter = providerstate.NoneKnown
	}
	if v.certFile != "" && v.keyFile != "" {
		cert, err := gotls.LoadTLSCertificate(v.certFile, v.keyFile)
		if err != nil {
			return nil, fmt.Errorf("verifier: loading client certificate: %w", err)
		}
		v.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
		}
	}
	return v, nil
}

// Verify runs every pact's interactions against the provider and returns the
// aggregate summary. It honours ctx at interaction boundaries: if ctx is
// already done when an interaction is about to start, that interaction and
// every one after it in the same pact are left unverified and the pact's
// result simply stops short — cancellation never interrupts an in-flight
// provider-state call or request.
func (v *Verifier) Verify(ctx context.Context, pacts []*pact.Pact) (Summary, error) {
	runID := id.UUID()
	log := v.log.With("run_id", runID)

	if v.concurrency <= 1 {
		results := make([]PactResult, len(pacts))
		for i, p := range pacts {
			r, err := v.verifyPact(ctx, log, runID, p)
			if err != nil {
				return Summary{}, err
			}
			results[i] = r
		}
		return Summary{RunID: runID, Pacts: results}, nil
	}

	return v.verifyConcurrently(ctx, log, runID, pacts)
}

func (v *Verifier) verifyConcurrently(ctx context.Context, log *slog.Logger, runID string, pacts []*pact.Pact) (Summary, error) {
	results := make([]PactResult, len(pacts))
	errs := make([]error, len(pacts))

	sem := make(chan struct{}, v.concurrency)
	var wg sync.WaitGroup
	for i, p := range pacts {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p *pact.Pact) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = v.verifyPact(ctx, log, runID, p)
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Summary{}, err
		}
	}
	return Summary{RunID: runID, Pacts: results}, nil
}

func (v *Verifier) verifyPact(ctx context.Context, log *slog.Logger, runID string, p *pact.Pact) (result PactResult, err error) {
	result = PactResult{Consumer: p.Consumer, Provider: p.Provider}
	log = log.With("consumer", p.Consumer, "provider", p.Provider)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("verifier: matcher panic verifying pact %s-%s: %v", p.Consumer, p.Provider, r)
		}
	}()

	for _, interaction := range p.Interactions {
		if ctx.Err() != nil {
			break
		}
		result.Interactions = append(result.Interactions, v.verifyInteraction(ctx, log, runID, interaction))
	}

	if v.broker != nil {
		_ = v.broker.PublishResult(ctx, broker.PactRef{Consumer: p.Consumer, Provider: p.Provider},
			result.Passed(), v.providerVersion)
	}

	return result, nil
}

func (v *Verifier) verifyInteraction(ctx context.Context, baseLog *slog.Logger, runID string, interaction *pact.Interaction) InteractionResult {
	log := baseLog.With("interaction", interaction.Description)

	if v.tracer != nil {
		var span *tracing.Span
		ctx, span = v.tracer.Start(ctx, "pactverify.interaction")
		span.SetAttribute("run.id", runID)
		span.SetAttribute("http.method", interaction.Request.Method)
		span.SetAttribute("http.path", interaction.Request.Path)
		start := time.Now()
		result := v.doVerifyInteraction(ctx, log, interaction)
		if result.Status == StatusFail {
			span.SetStatus(tracing.StatusError, "")
		} else {
			span.SetStatus(tracing.StatusOK, "")
		}
		span.End()
		v.metrics.observe(result.Status, time.Since(start))
		return result
	}

	start := time.Now()
	result := v.doVerifyInteraction(ctx, log, interaction)
	v.metrics.observe(result.Status, time.Since(start))
	return result
}

func (v *Verifier) doVerifyInteraction(ctx context.Context, log *slog.Logger, interaction *pact.Interaction) InteractionResult {
	// Provider-state calls and the provider request run to completion even if
	// ctx is cancelled meanwhile; Verify checks ctx between interactions.
	callCtx := context.WithoutCancel(ctx)
	for _, state := range interaction.ProviderStates {
		outcome, err := v.setter.Apply(callCtx, state.Name, state.Params)
		if err != nil {
			log.Warn("provider state setter failed", "state", state.Name, "error", err)
			return InteractionResult{Description: interaction.Description, Status: StatusSkippedStateError, Warning: err}
		}
		if outcome == providerstate.Missing {
			log.Warn("provider state not recognised", "state", state.Name)
			return InteractionResult{Description: interaction.Description, Status: StatusSkippedStateMissing}
		}
	}

	req, err := v.buildRequest(callCtx, interaction)
	if err != nil {
		return InteractionResult{Description: interaction.Description, Status: StatusFail,
			Mismatches: []matching.Mismatch{{Path: "$", Reason: err.Error()}}}
	}

	if v.limiter != nil {
		if err := v.limiter.Wait(ctx); err != nil {
			return InteractionResult{Description: interaction.Description, Status: StatusFail,
				Mismatches: []matching.Mismatch{{Path: "$", Reason: "rate limit wait: " + err.Error()}}}
		}
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		transportErr := pacterr.TransportError(err, "request to provider for %q", interaction.Description)
		log.Warn("provider request failed", "error", transportErr)
		return InteractionResult{Description: interaction.Description, Status: StatusFail,
			Mismatches: []matching.Mismatch{{Path: "$", Reason: transportErr.Error()}}, Warning: transportErr}
	}
	defer resp.Body.Close()

	mismatches := v.compareResponse(interaction, resp)
	if len(mismatches) > 0 {
		log.Warn("verification mismatch", "count", len(mismatches),
			"first", util.TruncateBody(mismatches[0].Reason, 0))
		return InteractionResult{Description: interaction.Description, Status: StatusFail, Mismatches: mismatches}
	}
	return InteractionResult{Description: interaction.Description, Status: StatusPass}
}

func (v *Verifier) buildRequest(ctx context.Context, interaction *pact.Interaction) (*http.Request, error) {
	url := v.providerBaseURL + interaction.Request.Path
	if len(interaction.Request.Query) > 0 {
		q := make([]string, 0, len(interaction.Request.Query))
		for name, values := range interaction.Request.Query {
			for _, val := range values {
				q = append(q, name+"="+val)
			}
		}
		url += "?" + strings.Join(q, "&")
	}

	var body io.Reader
	if interaction.Request.Body != nil {
		data, err := json.Marshal(interaction.Request.Body)
		if err != nil {
			return nil, fmt.Errorf("verifier: marshalling request body for %q: %w", interaction.Description, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, interaction.Request.Method, url, body)
	if err != nil {
		return nil, fmt.Errorf("verifier: building request for %q: %w", interaction.Description, err)
	}
	for name, value := range interaction.Request.Headers {
		req.Header.Set(name, value)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range v.extraHeaders {
		req.Header.Set(name, value)
	}
	if v.tracer != nil {
		tracing.Inject(ctx, req.Header)
	}
	return req, nil
}

func (v *Verifier) compareResponse(interaction *pact.Interaction, resp *http.Response) []matching.Mismatch {
	var mismatches []matching.Mismatch

	if resp.StatusCode != interaction.Response.Status {
		mismatches = append(mismatches, matching.Mismatch{
			Path:     "$.status",
			Reason:   "status code mismatch",
			Expected: fmt.Sprint(interaction.Response.Status),
			Actual:   fmt.Sprint(resp.StatusCode),
		})
	}

	actualHeaders := map[string][]string(resp.Header)
	mismatches = append(mismatches, matching.CompareHeaders(interaction.Response.Headers, actualHeaders, interaction.Response.HeaderRules)...)

	if interaction.Response.Body != nil {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			mismatches = append(mismatches, matching.Mismatch{Path: "$.body", Reason: "reading response body: " + err.Error()})
			return mismatches
		}
		actualBody, err := matching.DecodeBody(resp.Header.Get("Content-Type"), raw)
		if err != nil {
			mismatches = append(mismatches, matching.Mismatch{Path: "$.body", Reason: "decoding response body: " + err.Error()})
			return mismatches
		}
		mismatches = append(mismatches, matching.CompareBody(interaction.Response.Body, actualBody, interaction.Response.BodyRules)...)
	}

	return mismatches
}
