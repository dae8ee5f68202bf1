package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourism-backend/internal/domain"
)

func TestChapaInitializeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("missing bearer auth, got %q", got)
		}
		w.Write([]byte(`{"status":"success","data":{"checkout_url":"https://checkout.chapa.co/x"}}`))
	}))
	defer srv.Close()

	c := NewChapaClient(srv.URL, "sk-test")
	res, err := c.Initialize(context.Background(), InitializeRequest{
		Amount:   500,
		Currency: "ETB",
		TxRef:    "TX-abc",
	})
	if err != nil {
		t.Fatalf("initialize error: %v", err)
	}
	if res.CheckoutURL != "https://checkout.chapa.co/x" {
		t.Fatalf("wrong checkout url: %s", res.CheckoutURL)
	}
	if res.TxRef != "TX-abc" {
		t.Fatalf("tx_ref not echoed: %s", res.TxRef)
	}
}

func TestChapaInitializeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"failed","message":"invalid currency"}`))
	}))
	defer srv.Close()

	c := NewChapaClient(srv.URL, "sk-test")
	_, err := c.Initialize(context.Background(), InitializeRequest{Amount: 1, Currency: "XXX", TxRef: "TX-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsGateway(err) {
		t.Fatalf("expected GatewayError, got %T", err)
	}
}

func TestChapaVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/TX-ok" {
			w.Write([]byte(`{"status":"success","data":{"status":"pending"}}`))
			return
		}
		w.Write([]byte(`{"status":"success","data":{"status":"success"}}`))
	}))
	defer srv.Close()

	c := NewChapaClient(srv.URL, "sk-test")

	ok, err := c.Verify(context.Background(), "TX-ok")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected settled transaction")
	}

	ok, err = c.Verify(context.Background(), "TX-pending")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if ok {
		t.Fatal("pending transaction must not verify")
	}
}

func TestChapaVerifyUnreachable(t *testing.T) {
	c := NewChapaClient("http://127.0.0.1:1", "sk-test")
	_, err := c.Verify(context.Background(), "TX-x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsGateway(err) {
		t.Fatalf("expected GatewayError, got %T", err)
	}
}

func TestChapaIsConfigured(t *testing.T) {
	if NewChapaClient("https://api.chapa.co/v1", "").IsConfigured() {
		t.Fatal("empty secret must report unconfigured")
	}
	if !NewChapaClient("https://api.chapa.co/v1", "sk").IsConfigured() {
		t.Fatal("secret set must report configured")
	}
}
