package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"healthweb/internal/domain"
)

// DashboardData is what the dashboard page renders. Records are newest first.
type DashboardData struct {
	Records []domain.HealthRecord
	Editing *domain.HealthRecord
}

// DashboardService is the controller for the health record dashboard.
type DashboardService struct {
	inflight *Inflight
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(inflight *Inflight) *DashboardService {
	return &DashboardService{inflight: inflight}
}

// Load fetches the records once; the table, charts and summary all derive
// from the same list.
func (s *DashboardService) Load(ctx context.Context, ps *PageSession) (*DashboardData, error) {
	recs, err := ps.API.ListRecords(ctx)
	if err != nil {
		return nil, ps.Check(ctx, fmt.Errorf("load records: %w", err))
	}
	slices.SortStableFunc(recs, func(a, b domain.HealthRecord) int {
		return strings.Compare(b.RecordDate, a.RecordDate)
	})
	ps.Loaded = true
	return &DashboardData{Records: recs}, nil
}

// EditRecord loads the dashboard with record id prefilled in the form.
func (s *DashboardService) EditRecord(ctx context.Context, ps *PageSession, id int64) (*DashboardData, error) {
	rec, err := ps.API.GetRecord(ctx, id)
	if err != nil {
		return nil, ps.Check(ctx, fmt.Errorf("load record %d: %w", id, err))
	}
	data, err := s.Load(ctx, ps)
	if err != nil {
		return nil, err
	}
	data.Editing = rec
	return data, nil
}

// CreateRecord validates and stores a new record.
func (s *DashboardService) CreateRecord(ctx context.Context, ps *PageSession, in domain.RecordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	err := s.inflight.Do(ps.ClientID, "create-record", in.RecordDate, func() error {
		return ps.API.CreateRecord(ctx, in)
	})
	return ps.Check(ctx, err)
}

// UpdateRecord validates and saves changes to record id.
func (s *DashboardService) UpdateRecord(ctx context.Context, ps *PageSession, id int64, in domain.RecordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	err := s.inflight.Do(ps.ClientID, "update-record", id, func() error {
		return ps.API.UpdateRecord(ctx, id, in)
	})
	return ps.Check(ctx, err)
}

// DeleteRecord removes record id.
func (s *DashboardService) DeleteRecord(ctx context.Context, ps *PageSession, id int64) error {
	err := s.inflight.Do(ps.ClientID, "delete-record", id, func() error {
		return ps.API.DeleteRecord(ctx, id)
	})
	return ps.Check(ctx, err)
}
