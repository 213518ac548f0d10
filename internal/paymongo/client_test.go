package paymongo_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"growlokal/internal/paymongo"
)

func TestCreateIntentRequestShape(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"data":{"id":"pi_1","attributes":{"status":"awaiting_payment_method","client_key":"pi_1_ck","amount":50000,"currency":"PHP"}}}`))
	}))
	defer srv.Close()

	c := paymongo.New(srv.URL, "sk_test_abc")
	intent, err := c.CreateIntent(context.Background(), paymongo.CreateIntentParams{
		Amount:   50000,
		Currency: "PHP",
	})
	if err != nil {
		t.Fatal(err)
	}

	// secret key as basic-auth username with an empty password
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("sk_test_abc:"))
	if gotAuth != wantAuth {
		t.Fatalf("auth header = %q, want %q", gotAuth, wantAuth)
	}

	attrs := gotBody["data"].(map[string]any)["attributes"].(map[string]any)
	if attrs["amount"].(float64) != 50000 || attrs["currency"].(string) != "PHP" {
		t.Fatalf("bad body attributes: %v", attrs)
	}

	if intent.ID != "pi_1" || intent.ClientKey != "pi_1_ck" || intent.Amount != 50000 {
		t.Fatalf("bad intent: %+v", intent)
	}
}

func TestRetrieveIntentDecodesErrorsAndNextAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"pi_2","attributes":{"status":"awaiting_next_action",
		  "next_action":{"redirect":{"url":"https://gateway.test/3ds/pi_2"}},
		  "last_payment_error":{"detail":"requires authentication"}}}}`))
	}))
	defer srv.Close()

	c := paymongo.New(srv.URL, "sk_test_abc")
	intent, err := c.RetrieveIntent(context.Background(), "pi_2")
	if err != nil {
		t.Fatal(err)
	}
	if intent.Status != "awaiting_next_action" {
		t.Fatalf("status = %q", intent.Status)
	}
	if intent.NextActionURL != "https://gateway.test/3ds/pi_2" {
		t.Fatalf("next action url = %q", intent.NextActionURL)
	}
	if intent.LastPayError != "requires authentication" {
		t.Fatalf("last payment error = %q", intent.LastPayError)
	}
}

func TestGatewayErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"errors":[{"detail":"The amount must be at least 2000"}]}`))
	}))
	defer srv.Close()

	c := paymongo.New(srv.URL, "sk_test_abc")
	_, err := c.CreateIntent(context.Background(), paymongo.CreateIntentParams{Amount: 100, Currency: "PHP"})
	gwErr, ok := err.(*paymongo.Error)
	if !ok {
		t.Fatalf("want *paymongo.Error, got %T %v", err, err)
	}
	if gwErr.Status != http.StatusPaymentRequired {
		t.Fatalf("status = %d", gwErr.Status)
	}
	if gwErr.Detail != "The amount must be at least 2000" {
		t.Fatalf("detail = %q", gwErr.Detail)
	}
	if !strings.Contains(gwErr.Error(), "402") {
		t.Fatalf("error string should carry the status: %q", gwErr.Error())
	}
}

func TestCreateSourceRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/sources" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		attrs := body["data"].(map[string]any)["attributes"].(map[string]any)
		if attrs["type"].(string) != "gcash" {
			t.Errorf("source type = %v", attrs["type"])
		}
		w.Write([]byte(`{"data":{"id":"src_1","attributes":{"status":"pending","redirect":{"checkout_url":"https://gateway.test/checkout/src_1"}}}}`))
	}))
	defer srv.Close()

	c := paymongo.New(srv.URL, "sk_test_abc")
	src, err := c.CreateSource(context.Background(), paymongo.CreateSourceParams{
		Amount: 104700, Currency: "PHP",
		SuccessURL: "http://localhost/payment/success", FailedURL: "http://localhost/payment/failed",
	})
	if err != nil {
		t.Fatal(err)
	}
	if src.ID != "src_1" || src.CheckoutURL != "https://gateway.test/checkout/src_1" {
		t.Fatalf("bad source: %+v", src)
	}
}
