package backend

import (
	"context"
	"fmt"
	"net/http"

	"healthweb/internal/domain"
)

const recordsPath = "/api/health/records"

// ListRecords returns the user's health records, newest first.
func (c *Client) ListRecords(ctx context.Context) ([]domain.HealthRecord, error) {
	var resp struct {
		Records []domain.HealthRecord `json:"records"`
	}
	if err := c.do(ctx, http.MethodGet, recordsPath, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// GetRecord returns a single health record.
func (c *Client) GetRecord(ctx context.Context, id int64) (*domain.HealthRecord, error) {
	var resp struct {
		Record *domain.HealthRecord `json:"record"`
	}
	path := fmt.Sprintf("%s/%d", recordsPath, id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Record == nil {
		return nil, &StatusError{Status: http.StatusNotFound, Method: http.MethodGet, Path: path, Message: "record missing from response"}
	}
	return resp.Record, nil
}

// CreateRecord stores a new health record.
func (c *Client) CreateRecord(ctx context.Context, in domain.RecordInput) error {
	return c.do(ctx, http.MethodPost, recordsPath, nil, in, nil)
}

// UpdateRecord replaces the fields of an existing record.
func (c *Client) UpdateRecord(ctx context.Context, id int64, in domain.RecordInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", recordsPath, id), nil, in, nil)
}

// DeleteRecord removes a health record.
func (c *Client) DeleteRecord(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", recordsPath, id), nil, nil, nil)
}
