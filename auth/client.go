package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the /auth endpoints of the storefront API.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json"),
	}
}

type authResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/auth/login")
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return "", failure("login", resp)
	}
	var body authResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("failed to parse login response: %w", err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("token not found in login response")
	}
	return body.Token, nil
}

func (c *Client) Signup(ctx context.Context, email, password, fullName string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password, "full_name": fullName}).
		Post("/auth/signup")
	if err != nil {
		return fmt.Errorf("signup request failed: %w", err)
	}
	if resp.StatusCode() != 201 {
		return failure("signup", resp)
	}
	return nil
}

// failure reports the server's message, or the raw body when it is not JSON.
func failure(op string, resp *resty.Response) error {
	message := strings.TrimSpace(string(resp.Body()))
	var body authResponse
	if json.Unmarshal(resp.Body(), &body) == nil && body.Message != "" {
		message = body.Message
	}
	return fmt.Errorf("%s failed with status %d: %s", op, resp.StatusCode(), message)
}
