package ivaoapi

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/vatsimnerd/ivao-overlay/ivao-api"

	apiKeyHeader = "ApiKey"
)

var (
	// ErrStatus reports a non-2xx response from the roster endpoint.
	ErrStatus = errors.New("unexpected http status")
)

func newHTTPClient(cfg Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-in
	}
	// redirects are followed by the default policy
	return &http.Client{Transport: transport}
}

// parse turns one downloaded roster into controllers sorted by rank.
func (p *Provider) parse(raw []byte) ([]*Controller, error) {
	ctrls, err := parseRoster(raw)
	p.metrics.observeOutcome(fetchOutcome(err))
	if err == nil {
		log.WithField("bytes", len(raw)).Trace("ivao atc roster parsed")
	}
	return ctrls, err
}

// download is the poller's fetcher: one roster request bound to the
// provider's lifetime context.
func (p *Provider) download(ctx context.Context) (raw []byte, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ivao.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", p.cfg.URL)),
	)
	started := time.Now()
	defer func() {
		if err != nil {
			p.metrics.observeOutcome(fetchOutcome(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("http.response_size", len(raw)))
		}
		if !errors.Is(err, context.Canceled) {
			p.metrics.observeDownload(time.Since(started))
		}
		span.End()
	}()

	return p.request(ctx)
}

func (p *Provider) request(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Poll.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set(apiKeyHeader, p.cfg.APIKey)
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	return raw, nil
}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrShape):
		return outcomeShape
	case errors.Is(err, ErrStatus):
		return outcomeStatus
	case errors.Is(err, context.Canceled):
		return outcomeCancelled
	}
	return outcomeTransport
}
