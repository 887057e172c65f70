package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type User struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// Login отправляет форму username/password и сохраняет полученный токен.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	form := url.Values{"username": {username}, "password": {password}}
	req := request{
		method:      http.MethodPost,
		path:        "/api/auth/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}
	var res AuthResult
	if err := c.do(ctx, req, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.AccessToken)
	return &res, nil
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	req, err := c.jsonRequest(http.MethodPost, "/api/auth/register", in)
	if err != nil {
		return nil, err
	}
	var u User
	if err := c.do(ctx, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UsersRepository - экран управления пользователями (только администратор).
type UsersRepository struct {
	client *Client
}

func (c *Client) Users() *UsersRepository { return &UsersRepository{client: c} }

func (r *UsersRepository) List(ctx context.Context) ([]User, error) {
	var body listBody[User]
	if err := r.client.do(ctx, request{method: http.MethodGet, path: "/api/users"}, &body); err != nil {
		return nil, err
	}
	return body.List, nil
}

func (r *UsersRepository) ChangeRole(ctx context.Context, id uint64, role string) (*User, error) {
	req, err := r.client.jsonRequest(http.MethodPatch, "/api/users/"+strconv.FormatUint(id, 10)+"/role", map[string]string{"role": role})
	if err != nil {
		return nil, err
	}
	var u User
	if err := r.client.do(ctx, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UsersRepository) Delete(ctx context.Context, id uint64) error {
	return r.client.do(ctx, request{method: http.MethodDelete, path: "/api/users/" + strconv.FormatUint(id, 10)}, nil)
}
