package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// Record - запись сущности в том виде, в каком её отдаёт API.
type Record = map[string]interface{}

// RecordID достаёт положительный id записи.
func RecordID(r Record) (uint64, bool) {
	switch v := r["id"].(type) {
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		return n, err == nil && n > 0
	case float64:
		return uint64(v), v > 0
	case int64:
		return uint64(v), v > 0
	case int:
		return uint64(v), v > 0
	case uint64:
		return v, v > 0
	}
	return 0, false
}

// ListQuery - параметры GET /api/:entity.
type ListQuery struct {
	Type       string
	ActiveOnly bool
	Search     string
	Offset     int
	Limit      int
	// Lang просит сервер развернуть локализованные поля.
	Lang   string
	Filter map[string]string
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.ActiveOnly {
		v.Set("active_only", "true")
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Lang != "" {
		v.Set("lang", q.Lang)
	}
	for k, val := range q.Filter {
		v.Set(k, val)
	}
	return v
}

type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

type listBody[T any] struct {
	List       []T        `json:"list"`
	Pagination Pagination `json:"pagination"`
}

// Repository - CRUD одной сущности.
type Repository struct {
	client *Client
	entity string
}

func (c *Client) Entities(name string) *Repository {
	return &Repository{client: c, entity: name}
}

func (r *Repository) Name() string { return r.entity }

func (r *Repository) path(id ...uint64) string {
	p := "/api/" + url.PathEscape(r.entity)
	if len(id) > 0 {
		p += "/" + strconv.FormatUint(id[0], 10)
	}
	return p
}

func (r *Repository) List(ctx context.Context, q ListQuery) ([]Record, uint64, error) {
	var body listBody[Record]
	if err := r.client.do(ctx, request{method: http.MethodGet, path: r.path(), query: q.values()}, &body); err != nil {
		return nil, 0, err
	}
	if body.List == nil {
		body.List = []Record{}
	}
	return body.List, body.Pagination.TotalCount, nil
}

func (r *Repository) Get(ctx context.Context, id uint64) (Record, error) {
	var rec Record
	if err := r.client.do(ctx, request{method: http.MethodGet, path: r.path(id)}, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Repository) Create(ctx context.Context, record Record) (Record, error) {
	return r.send(ctx, http.MethodPost, r.path(), record)
}

// Update отправляет запись целиком (PUT).
func (r *Repository) Update(ctx context.Context, id uint64, record Record) (Record, error) {
	return r.send(ctx, http.MethodPut, r.path(id), record)
}

// Patch меняет только переданные поля.
func (r *Repository) Patch(ctx context.Context, id uint64, fields Record) (Record, error) {
	return r.send(ctx, http.MethodPatch, r.path(id), fields)
}

func (r *Repository) Delete(ctx context.Context, id uint64) error {
	return r.client.do(ctx, request{method: http.MethodDelete, path: r.path(id)}, nil)
}

func (r *Repository) send(ctx context.Context, method, path string, payload Record) (Record, error) {
	req, err := r.client.jsonRequest(method, path, payload)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := r.client.do(ctx, req, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UploadFile загружает файл в POST /api/upload и возвращает его путь (/uploads/...).
// uploadContext может быть пустым - сервер возьмёт image.
func (c *Client) UploadFile(ctx context.Context, uploadContext, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("ошибка чтения файла: %w", err)
	}
	if uploadContext != "" {
		if err := w.WriteField("context", uploadContext); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	var out struct {
		URL string `json:"url"`
	}
	req := request{method: http.MethodPost, path: "/api/upload", body: &buf, contentType: w.FormDataContentType()}
	if err := c.do(ctx, req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
