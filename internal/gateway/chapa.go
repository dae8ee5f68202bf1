package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tourism-backend/internal/domain"
)

// ChapaClient talks to the Chapa payment processor. When no secret key
// is configured every call degrades to a stub result so local
// bookkeeping never depends on the gateway being reachable.
type ChapaClient struct {
	BaseURL   string
	SecretKey string
	HTTP      *http.Client
}

func NewChapaClient(baseURL, secretKey string) *ChapaClient {
	return &ChapaClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		SecretKey: secretKey,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

// IsConfigured reports whether remote calls can be made at all.
func (c *ChapaClient) IsConfigured() bool {
	return c != nil && strings.TrimSpace(c.SecretKey) != ""
}

// InitializeRequest is the transaction/initialize payload.
type InitializeRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	TxRef       string  `json:"tx_ref"`
	CallbackURL string  `json:"callback_url,omitempty"`
	ReturnURL   string  `json:"return_url,omitempty"`
}

// InitializeResult carries the checkout handle for the frontend redirect.
type InitializeResult struct {
	TxRef       string `json:"tx_ref"`
	CheckoutURL string `json:"checkout_url"`
}

type chapaEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize registers a transaction and returns its checkout URL.
func (c *ChapaClient) Initialize(ctx context.Context, in InitializeRequest) (InitializeResult, error) {
	var out InitializeResult
	body, err := json.Marshal(in)
	if err != nil {
		return out, domain.GatewayError{Op: "initialize", Err: err}
	}

	env, err := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return out, domain.GatewayError{Op: "initialize", Err: err}
	}
	if env.Status != "success" {
		return out, domain.GatewayError{Op: "initialize", Err: fmt.Errorf("chapa: %s", env.Message)}
	}

	var data struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return out, domain.GatewayError{Op: "initialize", Err: err}
	}

	out.TxRef = in.TxRef
	out.CheckoutURL = data.CheckoutURL
	return out, nil
}

// Verify queries the remote status of a transaction by reference.
// The returned bool is true only when Chapa reports the transaction as
// successfully settled.
func (c *ChapaClient) Verify(ctx context.Context, txRef string) (bool, error) {
	env, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+txRef, nil)
	if err != nil {
		return false, domain.GatewayError{Op: "verify", Err: err}
	}
	if env.Status != "success" {
		return false, nil
	}

	var data struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return false, domain.GatewayError{Op: "verify", Err: err}
	}
	return data.Status == "success", nil
}

func (c *ChapaClient) do(ctx context.Context, method, path string, body io.Reader) (chapaEnvelope, error) {
	var env chapaEnvelope

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return env, err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return env, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("unexpected gateway response (http %d)", resp.StatusCode)
	}
	return env, nil
}
