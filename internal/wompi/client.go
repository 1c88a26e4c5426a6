package wompi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Wompi REST API. Every call is a single stateless HTTP
// request; no retries happen at this layer.
type Client struct {
	baseURL   string
	publicKey string
	http      *http.Client
}

func NewClient(baseURL, publicKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		publicKey: publicKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) FetchAcceptanceTokens(ctx context.Context) (*AcceptanceTokens, error) {
	var out struct {
		Data struct {
			PresignedAcceptance struct {
				AcceptanceToken string `json:"acceptance_token"`
				Permalink       string `json:"permalink"`
			} `json:"presigned_acceptance"`
			PresignedPersonalDataAuth struct {
				AcceptanceToken string `json:"acceptance_token"`
				Permalink       string `json:"permalink"`
			} `json:"presigned_personal_data_auth"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/merchants/"+c.publicKey, nil, false, &out); err != nil {
		return nil, err
	}
	return &AcceptanceTokens{
		AcceptanceToken:       out.Data.PresignedAcceptance.AcceptanceToken,
		PersonalDataAuthToken: out.Data.PresignedPersonalDataAuth.AcceptanceToken,
		PermalinkA:            out.Data.PresignedAcceptance.Permalink,
		PermalinkB:            out.Data.PresignedPersonalDataAuth.Permalink,
	}, nil
}

// TokenizeCard exchanges raw card data for a one-time card token.
func (c *Client) TokenizeCard(ctx context.Context, card CardRequest) (string, error) {
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/tokens/cards", card, true, &out); err != nil {
		return "", err
	}
	return out.Data.ID, nil
}

func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (*Transaction, error) {
	var out struct {
		Data Transaction `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/transactions", req, true, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	var out struct {
		Data Transaction `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/transactions/"+transactionID, nil, false, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, auth bool, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.publicKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("wompi: %s %s: status %d: %s", method, path, resp.StatusCode, snippet)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
