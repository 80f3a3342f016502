// Package alerthook delivers pipeline run outcomes to an operator-owned
// webhook. Delivery is best effort: the pipeline never blocks or fails a run
// because the hook is down, so the publisher guards itself with a circuit
// breaker instead of retrying.
package alerthook

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pitwall/f1-stats/internal/platform/logging"
	"github.com/pitwall/f1-stats/internal/platform/resilience"
	"github.com/pitwall/f1-stats/internal/usecase"
)

var errAlertHookTransient = crerr.New("alert hook transient failure")

type PublisherConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Publisher struct {
	client         *fasthttp.Client
	url            string
	token          string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewPublisher(cfg PublisherConfig, logger *logging.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Publisher{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		url:            strings.TrimSpace(cfg.URL),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type runAlertBody struct {
	RunID          string `json:"run_id"`
	Mode           string `json:"mode"`
	Status         string `json:"status"`
	Seasons        []int  `json:"seasons"`
	UnitsTotal     int    `json:"units_total"`
	UnitsSucceeded int    `json:"units_succeeded"`
	UnitsFailed    int    `json:"units_failed"`
	ErrorSummary   string `json:"error_summary,omitempty"`
	EmittedAt      string `json:"emitted_at"`
}

func (p *Publisher) PublishRunAlert(ctx context.Context, alert usecase.RunAlert) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "alert hook circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("alert hook is temporarily unavailable: %w", err)
		}
	}

	hookURL, err := validateHTTPURL(p.url)
	if err != nil {
		return crerr.Wrap(err, "invalid ALERT_HOOK_URL")
	}
	if strings.TrimSpace(alert.RunID) == "" {
		return crerr.New("run id is required")
	}

	body, err := sonic.Marshal(runAlertBody{
		RunID:          alert.RunID,
		Mode:           alert.Mode,
		Status:         alert.Status,
		Seasons:        alert.Seasons,
		UnitsTotal:     alert.UnitsTotal,
		UnitsSucceeded: alert.UnitsSucceeded,
		UnitsFailed:    alert.UnitsFailed,
		ErrorSummary:   alert.ErrorSummary,
		EmittedAt:      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return crerr.Wrap(err, "marshal run alert")
	}
	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildAlertCurlPreview(hookURL, bodyText, p.token != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("alerthook.url", hookURL),
			attribute.String("alerthook.run_id", alert.RunID),
			attribute.String("alerthook.request_body", bodyText),
			attribute.String("alerthook.request_curl_preview", curlPreview),
		)
	}
	p.logger.InfoContext(ctx, "alert hook request", "run_id", alert.RunID, "status", alert.Status, "url", hookURL, "curl_preview", curlPreview)

	if err := ctx.Err(); err != nil {
		return crerr.Wrap(err, "publish run alert")
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(hookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderUserAgent, "f1-stats-etl/1.0")
	if p.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+p.token)
	}
	req.SetBody(body)

	if err := p.client.DoTimeout(req, resp, p.timeout); err != nil {
		callErr := fmt.Errorf("%w: publish run alert run_id=%s url=%s: %v", errAlertHookTransient, alert.RunID, hookURL, err)
		p.recordCircuitResult(callErr)
		return callErr
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		raw := truncateForLog(strings.TrimSpace(string(resp.Body())), 4096)
		if isAlertHookRetryableStatus(status) {
			callErr := fmt.Errorf("%w: publish run alert status=%d run_id=%s url=%s body=%s", errAlertHookTransient, status, alert.RunID, hookURL, raw)
			p.recordCircuitResult(callErr)
			return callErr
		}

		callErr := fmt.Errorf("publish run alert status=%d run_id=%s url=%s body=%s", status, alert.RunID, hookURL, raw)
		p.recordCircuitResult(callErr)
		return callErr
	}

	p.logger.InfoContext(ctx, "run alert delivered", "run_id", alert.RunID, "status", alert.Status, "http_status", status)
	p.recordCircuitResult(nil)
	return nil
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return candidate, nil
}

func buildAlertCurlPreview(hookURL string, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(hookURL))
	appendFlagHeader("Content-Type: application/json")
	if withToken {
		appendFlagHeader("Authorization: Bearer ***")
	}
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (p *Publisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if isAlertHookCircuitFailure(err) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func isAlertHookCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errAlertHookTransient)
}

func isAlertHookRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}
