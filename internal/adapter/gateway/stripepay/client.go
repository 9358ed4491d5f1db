package stripepay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eshopcore/storefront/internal/adapter/config"
	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const sessionTTL = 30 * time.Minute

// Client talks to a Stripe-compatible checkout-session API. Session
// creation is the only call the core makes; confirmation arrives
// asynchronously through the webhook endpoint.
type Client struct {
	logger     *zap.Logger
	httpClient *http.Client
	apiBase    string
	secretKey  string
	successURL string
	cancelURL  string
}

func NewClient(cfg *config.Payment, log *zap.Logger) (*Client, error) {
	return &Client{
		logger:     log,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiBase:    strings.TrimRight(cfg.APIBase, "/"),
		secretKey:  cfg.SecretKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}, nil
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, order *domain.Order, customerEmail string) (*port.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", order.Reference)
	form.Set("success_url", c.successURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", c.cancelURL)
	form.Set("expires_at", strconv.FormatInt(time.Now().Add(sessionTTL).Unix(), 10))
	if customerEmail != "" {
		form.Set("customer_email", customerEmail)
	}
	form.Set("metadata[order_reference]", order.Reference)

	idx := 0
	for _, item := range order.Items {
		cents, err := amountCents(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("line item amount for %q: %w", item.ProductName, err)
		}
		prefix := fmt.Sprintf("line_items[%d]", idx)
		form.Set(prefix+"[price_data][currency]", "eur")
		form.Set(prefix+"[price_data][product_data][name]", item.ProductName)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(cents, 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		idx++
	}

	if order.ShippingCost.Cmp(decimal.Zero) > 0 {
		cents, err := amountCents(order.ShippingCost)
		if err != nil {
			return nil, fmt.Errorf("shipping amount: %w", err)
		}
		prefix := fmt.Sprintf("line_items[%d]", idx)
		form.Set(prefix+"[price_data][currency]", "eur")
		form.Set(prefix+"[price_data][product_data][name]", "Shipping - "+order.ShippingMethod.Label())
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(cents, 10))
		form.Set(prefix+"[quantity]", "1")
	}

	requestStr := c.apiBase + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestStr,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error on %s : %w", requestStr, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("Create checkout session", zap.String("order", order.Reference))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error %s : %w", requestStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("unexpected status for session creation",
			zap.String("order", order.Reference), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("bad response %v for request %s: %s", resp.StatusCode, requestStr, body)
	}

	var result sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error on response decode: %w", err)
	}
	if result.ID == "" {
		return nil, fmt.Errorf("session response missing id")
	}

	return &port.CheckoutSession{
		SessionID:  result.ID,
		SessionURL: result.URL,
	}, nil
}

// amountCents converts an exact decimal amount into gateway minor units,
// e.g. 10.99 -> 1099.
func amountCents(amount decimal.Decimal) (int64, error) {
	m, err := amount.Mul(decimal.Hundred)
	if err != nil {
		return 0, err
	}
	whole, _, ok := m.Round(0).Int64(0)
	if !ok {
		return 0, fmt.Errorf("amount %s out of range", amount)
	}
	return whole, nil
}
