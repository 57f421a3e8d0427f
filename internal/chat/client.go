package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the external chat identity provider's REST API. A chat
// identity mirrors each local user so reporters can message case workers.
type Client struct {
	BaseURL string
	AppID   string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, appID, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		AppID:   appID,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("appId", c.AppID)
	req.Header.Set("apiKey", c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode >= 300 {
		return fmt.Errorf("chat provider %s %s: status %d", method, path, res.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}

// Upsert creates or updates the chat identity for a local user.
func (c *Client) Upsert(ctx context.Context, uid, name, email string) error {
	body := map[string]string{"uid": uid, "name": name, "email": email}
	err := c.do(ctx, http.MethodPost, "/users", body, nil)
	if err == nil {
		return nil
	}
	// Provider returns 409 for existing uids; fall back to update.
	return c.do(ctx, http.MethodPut, "/users/"+uid, map[string]string{"name": name}, nil)
}

// SessionToken mints a chat auth token for an existing identity.
func (c *Client) SessionToken(ctx context.Context, uid string) (string, error) {
	var parsed struct {
		Data struct {
			AuthToken string `json:"authToken"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/"+uid+"/auth_tokens", nil, &parsed); err != nil {
		return "", err
	}
	return parsed.Data.AuthToken, nil
}

// Delete hard-deletes the chat identity. Called when the local account is
// destroyed; failures are surfaced to the caller, not swallowed.
func (c *Client) Delete(ctx context.Context, uid string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+uid, map[string]bool{"permanent": true}, nil)
}
