// Package paymongo is a thin server-side client for the payment gateway's
// intent and source endpoints. Only the secret key is used here; card data
// never passes through this process (the browser tokenizes directly against
// the gateway with the publishable key).
package paymongo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	BaseURL   string
	SecretKey string
	HTTP      *http.Client
}

func New(baseURL, secretKey string) *Client {
	return &Client{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Error is a non-2xx gateway response with its user-facing detail.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %d %s", e.Status, e.Detail)
}

type Intent struct {
	ID            string
	Status        string
	ClientKey     string
	Amount        int64
	Currency      string
	LastPayError  string
	NextActionURL string
}

type Source struct {
	ID          string
	Status      string
	CheckoutURL string
}

type CreateIntentParams struct {
	Amount              int64 // minor currency units
	Currency            string
	Description         string
	StatementDescriptor string
	Metadata            map[string]string
}

type CreateSourceParams struct {
	Amount       int64
	Currency     string
	SuccessURL   string
	FailedURL    string
	BillingName  string
	BillingEmail string
	BillingPhone string
}

// wire envelopes

type envelope struct {
	Data struct {
		ID         string          `json:"id"`
		Attributes json.RawMessage `json:"attributes"`
	} `json:"data"`
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

type intentAttrs struct {
	Status       string `json:"status"`
	ClientKey    string `json:"client_key"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	LastPayError *struct {
		Detail string `json:"detail"`
	} `json:"last_payment_error"`
	NextAction *struct {
		Redirect struct {
			URL string `json:"url"`
		} `json:"redirect"`
	} `json:"next_action"`
}

type sourceAttrs struct {
	Status   string `json:"status"`
	Redirect struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"redirect"`
}

func (c *Client) CreateIntent(ctx context.Context, p CreateIntentParams) (Intent, error) {
	body := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"amount":                 p.Amount,
				"currency":               p.Currency,
				"description":            p.Description,
				"statement_descriptor":   p.StatementDescriptor,
				"payment_method_allowed": []string{"card"},
				"metadata":               p.Metadata,
			},
		},
	}
	env, err := c.do(ctx, http.MethodPost, "/v1/payment_intents", body)
	if err != nil {
		return Intent{}, err
	}
	return decodeIntent(env)
}

func (c *Client) RetrieveIntent(ctx context.Context, intentID string) (Intent, error) {
	env, err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+intentID, nil)
	if err != nil {
		return Intent{}, err
	}
	return decodeIntent(env)
}

// CreateSource creates a redirect-based e-wallet payment (GCash).
func (c *Client) CreateSource(ctx context.Context, p CreateSourceParams) (Source, error) {
	body := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"type":     "gcash",
				"amount":   p.Amount,
				"currency": p.Currency,
				"redirect": map[string]string{
					"success": p.SuccessURL,
					"failed":  p.FailedURL,
				},
				"billing": map[string]string{
					"name":  p.BillingName,
					"email": p.BillingEmail,
					"phone": p.BillingPhone,
				},
			},
		},
	}
	env, err := c.do(ctx, http.MethodPost, "/v1/sources", body)
	if err != nil {
		return Source{}, err
	}
	var a sourceAttrs
	if err := json.Unmarshal(env.Data.Attributes, &a); err != nil {
		return Source{}, fmt.Errorf("gateway: decode source: %w", err)
	}
	return Source{ID: env.Data.ID, Status: a.Status, CheckoutURL: a.Redirect.CheckoutURL}, nil
}

func decodeIntent(env envelope) (Intent, error) {
	var a intentAttrs
	if err := json.Unmarshal(env.Data.Attributes, &a); err != nil {
		return Intent{}, fmt.Errorf("gateway: decode intent: %w", err)
	}
	out := Intent{
		ID:        env.Data.ID,
		Status:    a.Status,
		ClientKey: a.ClientKey,
		Amount:    a.Amount,
		Currency:  a.Currency,
	}
	if a.LastPayError != nil {
		out.LastPayError = a.LastPayError.Detail
	}
	if a.NextAction != nil {
		out.NextActionURL = a.NextAction.Redirect.URL
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (envelope, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return envelope{}, err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return envelope{}, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(c.SecretKey))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return envelope{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return envelope{}, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return envelope{}, &Error{Status: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
		}
		return envelope{}, fmt.Errorf("gateway: decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		detail := "payment gateway error"
		if len(env.Errors) > 0 && env.Errors[0].Detail != "" {
			detail = env.Errors[0].Detail
		}
		return envelope{}, &Error{Status: resp.StatusCode, Detail: detail}
	}
	return env, nil
}

// The gateway authenticates with the key as a basic-auth username and an
// empty password.
func basicAuth(key string) string {
	return base64.StdEncoding.EncodeToString([]byte(key + ":"))
}
