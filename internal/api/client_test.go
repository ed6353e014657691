package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront-next/internal/models"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("want ErrConfigInvalid got %v", err)
	}
	if _, err := New(Config{BaseURL: "://bad"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("want ErrConfigInvalid for malformed url got %v", err)
	}
}

func TestFetchCartSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"items":[{"id":1,"name":"Tee","quantity":2,"unit_price":"25.00"}],"total_amount":"50.00","total_items":2}}`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Token: "tok-123"})
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}
	cart, err := client.FetchCart(context.Background())
	if err != nil {
		t.Fatalf("fetch cart failed: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("authorization want Bearer tok-123 got %q", gotAuth)
	}
	if cart.TotalItems != 2 || cart.TotalAmount.String() != "50.00" {
		t.Fatalf("cart totals mismatch: %d %s", cart.TotalItems, cart.TotalAmount.String())
	}
}

func TestUpdateItemOptionsOmitsEmptyFields(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body failed: %v", err)
		}
		w.Write([]byte(`{"success":true,"data":{"items":[{"id":2,"name":"Belt","color":"brown","quantity":1,"unit_price":"9.99"}],"total_amount":"9.99","total_items":1}}`))
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL})
	// 配饰只改颜色：空尺码不得出现在请求体里
	cart, err := client.UpdateItemOptions(context.Background(), 2, "brown", "")
	if err != nil {
		t.Fatalf("update options failed: %v", err)
	}
	if gotBody["color"] != "brown" {
		t.Fatalf("color want brown got %v", gotBody["color"])
	}
	if _, present := gotBody["size"]; present {
		t.Fatalf("empty size must be omitted, body: %v", gotBody)
	}
	if cart.Items[0].Color != "brown" {
		t.Fatalf("cart not adopted: %+v", cart.Items[0])
	}

	if _, err := client.UpdateItemOptions(context.Background(), 2, "", ""); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("no option fields want ErrConfigInvalid got %v", err)
	}
}

func TestDecodeFailureUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token invalid"}`))
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL})
	if _, err := client.FetchCart(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized got %v", err)
	}
}

func TestCreateCheckoutSessionAmountTooSmall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"amount below provider minimum","error_code":"amount_too_small","minimum_amount":"0.50","current_amount":"0.10"}`))
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL})
	_, err := client.CreateCheckoutSession(context.Background(), CreateSessionInput{
		Amount:   models.MustMoney("0.10"),
		Currency: "USD",
	})

	var tooSmall *AmountTooSmallError
	if !errors.As(err, &tooSmall) {
		t.Fatalf("want AmountTooSmallError got %v", err)
	}
	if tooSmall.Minimum.String() != "0.50" || tooSmall.Current.String() != "0.10" {
		t.Fatalf("amounts want 0.50/0.10 got %s/%s", tooSmall.Minimum.String(), tooSmall.Current.String())
	}
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("AmountTooSmallError should unwrap to ErrRejected")
	}
}

func TestCreateCheckoutSessionReturnsRedirectURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payment/create-checkout-session" {
			t.Errorf("path want /payment/create-checkout-session got %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"url":"https://pay.example/cs_abc"}`))
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL})
	url, err := client.CreateCheckoutSession(context.Background(), CreateSessionInput{
		Amount:   models.MustMoney("49.99"),
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if url != "https://pay.example/cs_abc" {
		t.Fatalf("url want https://pay.example/cs_abc got %s", url)
	}
}

func TestGetPaymentSessionDecodesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"session":{"id":"cs_abc","payment_status":"paid","amount_total":4999,"currency":"USD","metadata":{"user_id":"1"}}}`))
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL})
	session, err := client.GetPaymentSession(context.Background(), "cs_abc")
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if session.ID != "cs_abc" || session.PaymentStatus != "paid" || session.AmountTotal != 4999 {
		t.Fatalf("session mismatch: %+v", session)
	}
}

func TestCreateOrderRequiresSessionID(t *testing.T) {
	client, _ := New(Config{BaseURL: "http://127.0.0.1:0"})
	if _, err := client.CreateOrder(context.Background(), CreateOrderInput{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("want ErrConfigInvalid got %v", err)
	}
}

func TestContextCancellationAbortsRequest(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	if _, err := client.FetchCart(ctx); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("want ErrRequestFailed got %v", err)
	}
}
