// Package msgraph is the Microsoft Graph mail provider adapter. The client
// is constructed explicitly and carries its own HTTP client; nothing in
// this package holds global state.
package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"outreach_portal_backend/platform/config"
)

// Client talks to the Microsoft identity platform and the Graph mail API.
type Client struct {
	tenantID     string
	clientID     string
	clientSecret string
	baseURL      string
	loginBaseURL string
	httpClient   *http.Client
}

// NewClient builds a Graph client. The HTTP client is injected so tests can
// substitute a fake transport.
func NewClient(cfg config.GraphConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		tenantID:     cfg.GetGraphTenantID(),
		clientID:     cfg.GetGraphClientID(),
		clientSecret: cfg.GetGraphClientSecret(),
		baseURL:      strings.TrimRight(cfg.GetGraphBaseURL(), "/"),
		loginBaseURL: strings.TrimRight(cfg.GetGraphLoginBaseURL(), "/"),
		httpClient:   httpClient,
	}
}

// Token is the result of a token refresh.
type Token struct {
	AccessToken  string
	RefreshToken string
	Scope        string
	ExpiresAt    time.Time
}

// Message is the provider's wire shape for both sent items and inbox items.
type Message struct {
	ID                string           `json:"id"`
	Subject           string           `json:"subject"`
	BodyPreview       string           `json:"bodyPreview"`
	InternetMessageID string           `json:"internetMessageId"`
	ReceivedDateTime  *time.Time       `json:"receivedDateTime,omitempty"`
	SentDateTime      *time.Time       `json:"sentDateTime,omitempty"`
	From              *recipientField  `json:"from,omitempty"`
	ToRecipients      []recipientField `json:"toRecipients,omitempty"`
}

type recipientField struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// SenderAddress returns the from address, if present.
func (m Message) SenderAddress() string {
	if m.From == nil {
		return ""
	}
	return m.From.EmailAddress.Address
}

// FirstRecipient returns the first to address, if present.
func (m Message) FirstRecipient() string {
	if len(m.ToRecipients) == 0 {
		return ""
	}
	return m.ToRecipients[0].EmailAddress.Address
}

// ProviderError carries the provider's status and message through to the
// caller unchanged.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("graph request failed: status %d: %s", e.StatusCode, e.Body)
}

// IsUnauthorized reports whether the provider rejected the access token.
func (e *ProviderError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (Token, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("scope", "https://graph.microsoft.com/.default offline_access")

	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.loginBaseURL, c.tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Token{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return Token{}, &ProviderError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		Scope        string `json:"scope"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Token{}, err
	}

	token := Token{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		Scope:        payload.Scope,
		ExpiresAt:    time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return token, nil
}

type sendMailRequest struct {
	Message struct {
		Subject string `json:"subject"`
		Body    struct {
			ContentType string `json:"contentType"`
			Content     string `json:"content"`
		} `json:"body"`
		ToRecipients []recipientField `json:"toRecipients"`
	} `json:"message"`
	SaveToSentItems bool `json:"saveToSentItems"`
}

// SendMail submits an outbound message. The provider acknowledges with
// 202 Accepted on success.
func (c *Client) SendMail(ctx context.Context, accessToken, toAddress, toName, subject, htmlBody string) error {
	payload := sendMailRequest{SaveToSentItems: true}
	payload.Message.Subject = subject
	payload.Message.Body.ContentType = "HTML"
	payload.Message.Body.Content = htmlBody
	payload.Message.ToRecipients = []recipientField{
		{EmailAddress: emailAddress{Name: toName, Address: toAddress}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/me/sendMail", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusAccepted {
		data, _ := io.ReadAll(resp.Body)
		return &ProviderError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return nil
}

// ListSentItems fetches the most recent sent messages, newest first.
func (c *Client) ListSentItems(ctx context.Context, accessToken string, top int) ([]Message, error) {
	return c.listMessages(ctx, accessToken, "SentItems", top, "sentDateTime desc")
}

// ListInbox fetches the most recent inbox messages, newest first. The reply
// matcher depends on this ordering for its first-match policy.
func (c *Client) ListInbox(ctx context.Context, accessToken string, top int) ([]Message, error) {
	return c.listMessages(ctx, accessToken, "Inbox", top, "receivedDateTime desc")
}

func (c *Client) listMessages(ctx context.Context, accessToken, folder string, top int, orderBy string) ([]Message, error) {
	query := url.Values{}
	query.Set("$top", strconv.Itoa(top))
	query.Set("$select", "id,subject,bodyPreview,internetMessageId,receivedDateTime,sentDateTime,from,toRecipients")
	query.Set("$orderby", orderBy)

	endpoint := fmt.Sprintf("%s/me/mailFolders/%s/messages?%s", c.baseURL, folder, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var payload struct {
		Value []Message `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Value, nil
}

// FindSentMessage looks up a just-sent message by subject to capture its
// provider identifiers.
func (c *Client) FindSentMessage(ctx context.Context, accessToken, subject string) (Message, bool, error) {
	query := url.Values{}
	query.Set("$top", "5")
	query.Set("$select", "id,subject,internetMessageId,sentDateTime,toRecipients")
	query.Set("$filter", fmt.Sprintf("subject eq '%s'", strings.ReplaceAll(subject, "'", "''")))

	endpoint := fmt.Sprintf("%s/me/mailFolders/SentItems/messages?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Message{}, false, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Message{}, false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return Message{}, false, &ProviderError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var payload struct {
		Value []Message `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Message{}, false, err
	}
	if len(payload.Value) == 0 {
		return Message{}, false, nil
	}
	return payload.Value[0], true, nil
}
