package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"rendezvous/internal/domain"
)

// Client talks to the auth server. It only exchanges credentials for
// identities; the auth protocol itself lives on the server.
type Client struct {
	http      *resty.Client
	jwtSecret []byte
}

func New(baseURL string, timeout time.Duration, jwtSecret string) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("Content-Type", "application/json"),
		jwtSecret: []byte(jwtSecret),
	}
}

type sessionResp struct {
	Session *struct {
		Token string `json:"token"`
	} `json:"session"`
	User *domain.Identity `json:"user"`
}

type signInResp struct {
	Token string           `json:"token"`
	User  *domain.Identity `json:"user"`
}

// Session returns the signed-in identity behind token, or nil when the token
// does not belong to a live session.
func (c *Client) Session(ctx context.Context, token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	if len(c.jwtSecret) > 0 && strings.Count(token, ".") == 2 {
		return c.identityFromJWT(token)
	}
	resp, err := c.http.R().SetContext(ctx).SetAuthToken(token).Get("/api/auth/get-session")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("auth get-session: status %d", resp.StatusCode())
	}
	var out *sessionResp
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("auth get-session: %w", err)
	}
	if out == nil || out.User == nil || out.User.ID == "" {
		return nil, nil
	}
	return out.User, nil
}

// SignInAnonymous asks the server for a guest identity and returns it with
// its bearer token.
func (c *Client) SignInAnonymous(ctx context.Context) (*domain.Identity, string, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(map[string]any{}).Post("/api/auth/sign-in/anonymous")
	if err != nil {
		return nil, "", err
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("auth anonymous sign-in: status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	var out signInResp
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, "", fmt.Errorf("auth anonymous sign-in: %w", err)
	}
	token := resp.Header().Get("Set-Auth-Token")
	if token == "" {
		token = out.Token
	}
	if token == "" || out.User == nil || out.User.ID == "" {
		return nil, "", errors.New("auth anonymous sign-in: incomplete response")
	}
	out.User.IsAnonymous = true
	return out.User, token, nil
}

func (c *Client) UpdateUser(ctx context.Context, token, name string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]string{"name": name}).
		Post("/api/auth/update-user")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("auth update-user: status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

func (c *Client) identityFromJWT(token string) (*domain.Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return c.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil
		}
		return nil, err
	}
	m, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("auth token: unexpected claims")
	}
	id, _ := m["sub"].(string)
	if id == "" {
		id, _ = m["id"].(string)
	}
	if id == "" {
		return nil, nil
	}
	name, _ := m["name"].(string)
	image, _ := m["image"].(string)
	anon, _ := m["isAnonymous"].(bool)
	return &domain.Identity{ID: id, Name: name, Image: image, IsAnonymous: anon}, nil
}
