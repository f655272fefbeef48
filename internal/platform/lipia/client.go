package lipia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/andikar-ai/wordledger/pkg/config"
	"github.com/andikar-ai/wordledger/pkg/logctx"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CheckoutResult carries the correlation ids the aggregator assigns to an STK
// push. Later callbacks echo one of them.
type CheckoutResult struct {
	Reference         string `json:"reference"`
	CheckoutRequestID string `json:"checkout_request_id"`
}

// Client initiates an M-Pesa checkout through the Lipia aggregator. The
// aggregator is a black box from the ledger's perspective: it either hands
// back correlation ids or fails.
type Client interface {
	InitiateCheckout(ctx context.Context, phone string, amount int64) (*CheckoutResult, error)
	// PaymentURL returns the hosted payment page for end users.
	PaymentURL() string
}

type stkRequest struct {
	Phone  string `json:"phone"`
	Amount string `json:"amount"`
}

type stkResponse struct {
	Message string `json:"message"`
	Data    struct {
		Reference         string `json:"reference"`
		CheckoutRequestID string `json:"CheckoutRequestID"`
	} `json:"data"`
}

// HTTPClient is the production Client over the aggregator's REST API.
type HTTPClient struct {
	cfg  *config.Config
	log  *zap.SugaredLogger
	http *http.Client
}

func NewHTTPClient(cfg *config.Config, log *zap.SugaredLogger) Client {
	timeout := time.Duration(cfg.Lipia.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{cfg: cfg, log: log, http: &http.Client{Timeout: timeout}}
}

func (c *HTTPClient) InitiateCheckout(ctx context.Context, phone string, amount int64) (*CheckoutResult, error) {
	normalized := NormalizePhone(phone)
	body, err := json.Marshal(stkRequest{Phone: normalized, Amount: strconv.FormatInt(amount, 10)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode stk request: %w", err)
	}

	url := c.cfg.Lipia.APIBaseURL + "/request/stk"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build stk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logctx.FromCtx(ctx, c.log).Infow("initiating stk push", "phone", normalized, "amount", amount)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stk push request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stk response: %w", err)
	}

	var parsed stkResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode stk response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || parsed.Data.Reference == "" {
		msg := parsed.Message
		if msg == "" {
			msg = fmt.Sprintf("aggregator returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("checkout rejected: %s", msg)
	}

	logctx.FromCtx(ctx, c.log).Infow("stk push accepted",
		"reference", parsed.Data.Reference,
		"checkout_request_id", parsed.Data.CheckoutRequestID,
	)
	return &CheckoutResult{
		Reference:         parsed.Data.Reference,
		CheckoutRequestID: parsed.Data.CheckoutRequestID,
	}, nil
}

func (c *HTTPClient) PaymentURL() string {
	return c.cfg.Lipia.PaymentURL
}

// NoopClient accepts every checkout without contacting an aggregator. Used in
// dev environments where no Lipia credentials exist; the resulting payments
// can only be resolved through the callback endpoint or the admin sweep.
type NoopClient struct {
	log *zap.SugaredLogger
}

func NewNoopClient(log *zap.SugaredLogger) *NoopClient {
	return &NoopClient{log: log}
}

func (c *NoopClient) InitiateCheckout(ctx context.Context, phone string, amount int64) (*CheckoutResult, error) {
	ref := fmt.Sprintf("noop-%d", time.Now().UnixNano())
	logctx.FromCtx(ctx, c.log).Infow("noop checkout", "phone", NormalizePhone(phone), "amount", amount, "reference", ref)
	return &CheckoutResult{Reference: ref, CheckoutRequestID: ref}, nil
}

func (c *NoopClient) PaymentURL() string { return "" }

// NewClient picks the noop client when no aggregator URL is configured.
func NewClient(cfg *config.Config, log *zap.SugaredLogger) Client {
	if cfg.Lipia.APIBaseURL == "" {
		log.Warnw("no aggregator URL configured, using noop checkout client")
		return NewNoopClient(log)
	}
	return NewHTTPClient(cfg, log)
}

var Module = fx.Options(
	fx.Provide(NewClient),
)
