// Package client - HTTP-клиент портала для админки и публичной части.
// Подставляет токен, разбирает конверт {status, body, message} и переводит
// коды ответа в ошибки пакета.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"rheuma-portal/pkg/i18n"
)

const DefaultLoginPath = "/admin/login"

type Client struct {
	httpClient   *http.Client
	baseURL      string
	mediaBaseURL string
	storage      Storage
	navigator    Navigator
	inAdminArea  func() bool
	loginPath    string
	logger       *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

func WithStorage(s Storage) Option { return func(c *Client) { c.storage = s } }

func WithNavigator(n Navigator) Option { return func(c *Client) { c.navigator = n } }

// WithAdminArea задаёт признак "пользователь сейчас в админке": только там 401 ведёт на вход.
func WithAdminArea(f func() bool) Option { return func(c *Client) { c.inAdminArea = f } }

func WithLoginPath(path string) Option { return func(c *Client) { c.loginPath = path } }

// WithMediaBaseURL - база для ссылок на загруженные файлы, если она отличается от API.
func WithMediaBaseURL(base string) Option {
	return func(c *Client) { c.mediaBaseURL = strings.TrimRight(base, "/") }
}

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// New создаёт клиент для сервера по адресу baseURL (без /api).
func New(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	c := &Client{
		httpClient:   &http.Client{Timeout: 20 * time.Second},
		baseURL:      base,
		mediaBaseURL: base,
		storage:      NewMemoryStorage(),
		inAdminArea:  func() bool { return false },
		loginPath:    DefaultLoginPath,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("portal_client")
	return c
}

func (c *Client) Storage() Storage { return c.storage }

func (c *Client) Token() string {
	t, _ := c.storage.Get(TokenKey)
	return t
}

func (c *Client) SetToken(token string) { c.storage.Set(TokenKey, token) }

func (c *Client) Logout() { c.storage.Remove(TokenKey) }

// ActiveLocale - язык из хранилища, по умолчанию ru.
func (c *Client) ActiveLocale() i18n.Locale {
	v, _ := c.storage.Get(LanguageKey)
	return i18n.Normalize(v)
}

func (c *Client) SetLocale(l i18n.Locale) {
	if !l.Valid() {
		l = i18n.Default
	}
	c.storage.Set(LanguageKey, string(l))
}

// MediaURL превращает путь /uploads/... в абсолютную ссылку. Абсолютные URL и пустая строка
// возвращаются как есть.
func (c *Client) MediaURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.mediaBaseURL + path
}

type envelope struct {
	Status  bool            `json:"status"`
	Body    json.RawMessage `json:"body"`
	Message string          `json:"message"`
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) jsonRequest(method, path string, payload interface{}) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}
	return request{method: method, path: path, body: bytes.NewReader(data), contentType: "application/json"}, nil
}

// do выполняет запрос и раскладывает body ответа в out (если out не nil).
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(i18n.LangHeader, string(c.ActiveLocale()))
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("неожиданный формат ответа: %w", err)
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(env.Body) == 0 || string(env.Body) == "null" {
			return nil
		}
		dec := json.NewDecoder(bytes.NewReader(env.Body))
		dec.UseNumber()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("ошибка разбора ответа: %w", err)
		}
		return nil
	}
	return c.statusError(resp.StatusCode, env)
}

func (c *Client) statusError(status int, env envelope) error {
	switch status {
	case http.StatusUnauthorized:
		c.storage.Remove(TokenKey)
		if c.inAdminArea() && c.navigator != nil {
			c.logger.Info("Сессия истекла, переход на страницу входа", zap.String("path", c.loginPath))
			c.navigator.Redirect(c.loginPath)
		}
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		verr := &ValidationError{Status: status, Message: env.Message}
		var fields map[string]string
		if len(env.Body) > 0 && json.Unmarshal(env.Body, &fields) == nil {
			verr.Fields = fields
		}
		return verr
	}
	msg := env.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.logger.Warn("Ошибка API", zap.Int("status", status), zap.String("message", msg))
	return &APIError{Status: status, Message: msg}
}
