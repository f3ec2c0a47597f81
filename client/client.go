// Package client is the Go API client for the chat-bridge server. The
// terminal frontend builds on it, and its List method plugs straight into the
// polling feed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chat-bridge/domain"
	apperrors "chat-bridge/errors"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Session holds the anonymous identity returned by the server. The token is
// attached to every subsequent call.
type Session struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type Profile struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

type acceptResponse struct {
	ChatID  domain.ChatID  `json:"chat_id"`
	Partner domain.Profile `json:"partner"`
}

type codeResponse struct {
	Code string `json:"code"`
}

type messageResponse struct {
	Message domain.Message `json:"message"`
}

type listResponse struct {
	Messages []domain.Message `json:"messages"`
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// StartSession obtains a fresh anonymous identity and remembers its token.
func (c *Client) StartSession(ctx context.Context) (Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/v1/session", nil, &session); err != nil {
		return Session{}, err
	}
	c.token = session.Token
	return session, nil
}

// CreateInvitation registers the caller's profile and returns a shareable
// code.
func (c *Client) CreateInvitation(ctx context.Context, profile Profile) (string, error) {
	var resp codeResponse
	if err := c.do(ctx, http.MethodPost, "/v1/invitations", profile, &resp); err != nil {
		return "", err
	}
	return resp.Code, nil
}

// AcceptInvitation redeems a code and returns the session id together with
// the partner's profile.
func (c *Client) AcceptInvitation(ctx context.Context, code string, profile Profile) (domain.ChatID, domain.Profile, error) {
	var resp acceptResponse
	path := "/v1/invitations/" + strings.ToUpper(strings.TrimSpace(code)) + "/accept"
	if err := c.do(ctx, http.MethodPost, path, profile, &resp); err != nil {
		return "", domain.Profile{}, err
	}
	return resp.ChatID, resp.Partner, nil
}

// ActiveSession recovers the partner link for a returning participant.
func (c *Client) ActiveSession(ctx context.Context) (domain.PartnerLink, error) {
	var link domain.PartnerLink
	if err := c.do(ctx, http.MethodGet, "/v1/session/active", nil, &link); err != nil {
		return domain.PartnerLink{}, err
	}
	return link, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID domain.ChatID, text string) (domain.Message, error) {
	var resp messageResponse
	path := fmt.Sprintf("/v1/chats/%s/messages", chatID)
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return domain.Message{}, err
	}
	return resp.Message, nil
}

// List fetches the session log oldest first. It satisfies the message lister
// the poller consumes.
func (c *Client) List(ctx context.Context, chatID domain.ChatID) ([]domain.Message, error) {
	var resp listResponse
	path := fmt.Sprintf("/v1/chats/%s/messages", chatID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError rebuilds a sentinel from the error payload so callers can use
// errors.Is the same way they would in process.
func decodeError(resp *http.Response) error {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	for _, sentinel := range []error{
		apperrors.ErrEmptyName,
		apperrors.ErrEmptyLanguage,
		apperrors.ErrEmptyMessage,
		apperrors.ErrMalformedCode,
		apperrors.ErrNotPaired,
		apperrors.ErrInvitationNotFound,
		apperrors.ErrNoActiveSession,
		apperrors.ErrInvitationUsed,
		apperrors.ErrSelfRedemption,
		apperrors.ErrCodeExhausted,
	} {
		if strings.Contains(body.Error, sentinel.Error()) {
			return sentinel
		}
	}
	return fmt.Errorf("%s (status %d)", body.Error, resp.StatusCode)
}
