// Package export downloads dashboard reports and stores them locally or in
// an S3-compatible bucket.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
)

const (
	TypeLeads     = "leads"
	TypeCampaigns = "campaigns"
)

var ErrInvalidType = errors.New("invalid export type")

var now = time.Now

// Exporter requests report data from the server.
type Exporter interface {
	Export(ctx context.Context, req models.ExportRequest) (*models.ExportResult, error)
}

// Sink stores an encoded report under key and returns where it ended up.
type Sink interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

type Result struct {
	Location     string
	Type         string
	TotalRecords int
}

type Service struct {
	api    Exporter
	sink   Sink
	logger logging.Logger
}

func NewService(api Exporter, sink Sink, logger logging.Logger) *Service {
	return &Service{api: api, sink: sink, logger: logger.With("component", "export")}
}

// Run fetches the report described by req and writes it to the sink. An
// empty type means leads.
func (s *Service) Run(ctx context.Context, req models.ExportRequest) (*Result, error) {
	if req.Type == "" {
		req.Type = TypeLeads
	}
	if req.Type != TypeLeads && req.Type != TypeCampaigns {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
	}
	for _, d := range []string{req.StartDate, req.EndDate} {
		if d == "" {
			continue
		}
		if _, err := parseDate(d); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", d, err)
		}
	}

	res, err := s.api.Export(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", req.Type, err)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := Key(req.Type, now())
	loc, err := s.sink.Write(ctx, key, data)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	s.logger.Info(ctx, "export stored", "type", req.Type, "records", res.TotalRecords, "location", loc)
	return &Result{Location: loc, Type: req.Type, TotalRecords: res.TotalRecords}, nil
}

// Key builds a unique object key: exports/<yyyy>/<mm>/<dd>/<type>-<uuid>.json.
func Key(typ string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("exports/%04d/%02d/%02d/%s-%s.json", t.Year(), t.Month(), t.Day(), typ, uuid.New())
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
