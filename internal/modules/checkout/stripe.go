package checkout

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// StripeGateway creates hosted Checkout Sessions over Stripe's
// form-encoded API.
type StripeGateway struct {
	secretKey  string
	successURL string
	cancelURL  string
	baseURL    string
	client     *http.Client
}

func NewStripeGateway(secretKey, successURL, cancelURL, baseURL string) *StripeGateway {
	if baseURL == "" {
		baseURL = stripeAPIBase
	}
	return &StripeGateway{
		secretKey:  secretKey,
		successURL: successURL,
		cancelURL:  cancelURL,
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if g.secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is not configured")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", req.Reference)
	form.Set("success_url", g.successURL)
	form.Set("cancel_url", g.cancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][product_data][name]", req.Description)
	// THB has no sub-unit smaller than satang; Stripe wants the amount
	// in the smallest currency unit.
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(int64(math.Round(req.Amount*100)), 10))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode stripe response: %w", err)
	}
	return &Session{ID: out.ID, PaymentURL: out.URL}, nil
}

// VerifyWebhookSignature checks the Stripe-Signature header against
// the raw payload. The header carries a timestamp and one or more v1
// HMAC-SHA256 signatures over "<timestamp>.<payload>".
func VerifyWebhookSignature(payload []byte, header, secret string, tolerance time.Duration) error {
	if header == "" {
		return fmt.Errorf("missing signature header")
	}

	var ts string
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts = kv[1]
		case "v1":
			candidates = append(candidates, kv[1])
		}
	}
	if ts == "" || len(candidates) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed signature timestamp")
	}
	if tolerance > 0 {
		age := time.Since(time.Unix(unix, 0))
		if age > tolerance || age < -tolerance {
			return fmt.Errorf("signature timestamp outside tolerance")
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, candidate := range candidates {
		if hmac.Equal([]byte(expected), []byte(candidate)) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}
