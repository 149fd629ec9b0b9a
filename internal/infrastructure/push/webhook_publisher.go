package push

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matchnight/clubhouse/internal/domain/notification"
	"github.com/matchnight/clubhouse/internal/platform/logging"
	"github.com/matchnight/clubhouse/internal/platform/resilience"
)

var errWebhookTransient = crerr.New("push webhook transient failure")

type WebhookPublisherConfig struct {
	URL     string
	Token   string
	Retries int
	Timeout time.Duration

	CircuitEnabled          bool
	CircuitFailureThreshold int
	CircuitOpenTimeout      time.Duration
}

// WebhookPublisher delivers notifications to the club's push gateway with a
// single POST per notification. Delivery is best effort: the caller already
// stored the notification, so a failed push only costs the device banner.
type WebhookPublisher struct {
	client         *http.Client
	url            string
	token          string
	retries        int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

type pushPayload struct {
	NotificationID string `json:"notificationId"`
	UserID         string `json:"userId"`
	Kind           string `json:"kind"`
	Message        string `json:"message"`
	CreatedAt      string `json:"createdAt"`
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, logger *logging.Logger) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	return &WebhookPublisher{
		client:         &http.Client{Timeout: timeout},
		url:            strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		retries:        retries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitFailureThreshold, cfg.CircuitOpenTimeout),
		circuitEnabled: cfg.CircuitEnabled,
	}
}

func (p *WebhookPublisher) Publish(ctx context.Context, n notification.Notification) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "push circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("push gateway is temporarily unavailable: %w", err)
		}
	}

	endpoint, err := validateHTTPURL(p.url)
	if err != nil {
		return crerr.Wrap(err, "invalid PUSH_WEBHOOK_URL")
	}

	body, err := sonic.Marshal(pushPayload{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Kind:           string(n.Kind),
		Message:        n.Message,
		CreatedAt:      n.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return crerr.Wrap(err, "marshal push payload")
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("push.url", endpoint),
			attribute.String("push.kind", string(n.Kind)),
			attribute.String("push.user_id", n.UserID),
		)
	}

	callErr := p.post(ctx, endpoint, body)
	for attempt := 0; callErr != nil && stderrors.Is(callErr, errWebhookTransient) && attempt < p.retries; attempt++ {
		callErr = p.post(ctx, endpoint, body)
	}
	p.recordCircuitResult(callErr)
	if callErr != nil {
		return callErr
	}

	p.logger.DebugContext(ctx, "push notification delivered",
		"notification_id", n.ID, "user_id", n.UserID, "kind", string(n.Kind))
	return nil
}

func (p *WebhookPublisher) post(ctx context.Context, endpoint string, body []byte) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(buf.String()))
	if err != nil {
		return crerr.Wrap(err, "create push request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post push url=%s: %v", errWebhookTransient, endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if isRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: post push status=%d url=%s body=%s",
				errWebhookTransient, resp.StatusCode, endpoint, strings.TrimSpace(string(raw)))
		}
		return fmt.Errorf("post push status=%d url=%s body=%s",
			resp.StatusCode, endpoint, strings.TrimSpace(string(raw)))
	}
	return nil
}

func (p *WebhookPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errWebhookTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
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

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
