package client

import (
	"context"
	"net/http"
	"time"
)

// RegistrationInput - форма школы ревматолога / конгресса. EventID = nil уходит как null.
type RegistrationInput struct {
	SchoolType     string  `json:"school_type"`
	EventID        *uint64 `json:"event_id"`
	LastName       string  `json:"last_name"`
	FirstName      string  `json:"first_name"`
	MiddleName     string  `json:"middle_name"`
	Phone          string  `json:"phone"`
	City           string  `json:"city"`
	Category       string  `json:"category"`
	INN            string  `json:"inn"`
	Email          string  `json:"email"`
	Specialization string  `json:"specialization"`
	Workplace      string  `json:"workplace"`
}

type Registration struct {
	RegistrationInput
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) SubmitRegistration(ctx context.Context, in RegistrationInput) (*Registration, error) {
	req, err := c.jsonRequest(http.MethodPost, "/api/registrations", in)
	if err != nil {
		return nil, err
	}
	var reg Registration
	if err := c.do(ctx, req, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Registrations - список заявок для админки (только чтение).
func (c *Client) Registrations(ctx context.Context, q ListQuery) ([]Registration, uint64, error) {
	var body listBody[Registration]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/registrations", query: q.values()}, &body); err != nil {
		return nil, 0, err
	}
	return body.List, body.Pagination.TotalCount, nil
}
