// Package rates serves USD-based exchange rates from a public rate service, degrading to a
// static table whenever the service cannot be used.
package rates

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sony/gobreaker/v2"
	"github.com/valyala/fasthttp"

	"quotegen/internal/domain"
	"quotegen/internal/metrics"
	"quotegen/internal/port"
)

//go:embed schema.json
var payloadSchema []byte

const schemaURL = "rates.schema.json"

// Config controls the live lookup.
type Config struct {
	URL     string
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open before a probe is allowed.
	BreakerCooldown time.Duration
}

type payload struct {
	Result            string             `json:"result"`
	BaseCode          string             `json:"base_code"`
	TimeLastUpdateUTC string             `json:"time_last_update_utc"`
	Rates             map[string]float64 `json:"rates"`
}

// Provider fetches live rates with at most one network call per lookup.
type Provider struct {
	cfg     Config
	client  *fasthttp.Client
	breaker *gobreaker.CircuitBreaker[domain.CurrencyRates]
	schema  *jsonschema.Schema
	metrics *metrics.Metrics
}

// NewProvider creates a rate provider. m may be nil.
func NewProvider(cfg Config, m *metrics.Metrics) (*Provider, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = time.Minute
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(payloadSchema)); err != nil {
		return nil, fmt.Errorf("loading rate payload schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling rate payload schema: %w", err)
	}

	failures := cfg.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker[domain.CurrencyRates](gobreaker.Settings{
		Name:        "exchange-rates",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("rates.Provider: breaker %s %s -> %s", name, from, to)
		},
	})

	return &Provider{
		cfg:     cfg,
		client:  &fasthttp.Client{Name: "quotegen", ReadTimeout: cfg.Timeout, WriteTimeout: cfg.Timeout},
		breaker: breaker,
		schema:  schema,
		metrics: m,
	}, nil
}

// Latest returns the live table, or the fallback table after publishing one notification.
func (p *Provider) Latest(ctx context.Context, notifier port.Notifier) domain.CurrencyRates {
	r, err := p.breaker.Execute(func() (domain.CurrencyRates, error) {
		return p.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Printf("rates.Provider: breaker open, serving fallback table")
		} else {
			log.Printf("rates.Provider: live lookup failed, serving fallback table: %v", err)
		}
		p.metrics.RecordRatesFetch(string(domain.RateSourceFallback))
		if notifier != nil {
			n := FallbackNotification()
			n.CreatedAt = time.Now().UTC()
			notifier.Notify(n)
		}
		return Fallback()
	}
	p.metrics.RecordRatesFetch(string(domain.RateSourceLive))
	return r
}

func (p *Provider) fetch(ctx context.Context) (domain.CurrencyRates, error) {
	if err := ctx.Err(); err != nil {
		return domain.CurrencyRates{}, err
	}
	timeout := p.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.cfg.URL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := p.client.DoTimeout(req, resp, timeout); err != nil {
		return domain.CurrencyRates{}, fmt.Errorf("%w: %v", domain.ErrRateFetchFailed, err)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return domain.CurrencyRates{}, fmt.Errorf("%w: status %d", domain.ErrRateFetchFailed, code)
	}
	return p.decode(resp.Body())
}

func (p *Provider) decode(body []byte) (domain.CurrencyRates, error) {
	var raw any
	if err := gojson.Unmarshal(body, &raw); err != nil {
		return domain.CurrencyRates{}, fmt.Errorf("%w: malformed payload: %v", domain.ErrRateFetchFailed, err)
	}
	if err := p.schema.Validate(raw); err != nil {
		return domain.CurrencyRates{}, fmt.Errorf("%w: unexpected payload: %v", domain.ErrRateFetchFailed, err)
	}

	var pl payload
	if err := gojson.Unmarshal(body, &pl); err != nil {
		return domain.CurrencyRates{}, fmt.Errorf("%w: decoding payload: %v", domain.ErrRateFetchFailed, err)
	}
	if pl.Result != "success" {
		return domain.CurrencyRates{}, fmt.Errorf("%w: result %q", domain.ErrRateFetchFailed, pl.Result)
	}
	if pl.BaseCode != "USD" {
		return domain.CurrencyRates{}, fmt.Errorf("%w: base %q", domain.ErrRateFetchFailed, pl.BaseCode)
	}

	r := make(map[string]float64, len(pl.Rates)+1)
	for k, v := range pl.Rates {
		r[k] = v
	}
	r["USD"] = 1

	return domain.CurrencyRates{
		Base:   "USD",
		Date:   rateDate(pl.TimeLastUpdateUTC),
		Rates:  r,
		Source: domain.RateSourceLive,
	}, nil
}

// rateDate reduces the service's RFC 1123 timestamp to an ISO date, keeping unknown formats as-is.
func rateDate(stamp string) string {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, stamp); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return stamp
}
