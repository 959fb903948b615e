package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
)

type DashboardAPI struct {
	gw *Gateway
}

func NewDashboardAPI(gw *Gateway) *DashboardAPI {
	return &DashboardAPI{gw: gw}
}

func (d *DashboardAPI) Overview(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := d.gw.Do(ctx, http.MethodGet, "/dashboard/overview", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Analytics accepts the server's optional filters (period, campaign_id).
func (d *DashboardAPI) Analytics(ctx context.Context, query url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := d.gw.Do(ctx, http.MethodGet, "/dashboard/analytics", query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (d *DashboardAPI) Export(ctx context.Context, req models.ExportRequest) (*models.ExportResult, error) {
	var res models.ExportResult
	if err := d.gw.Do(ctx, http.MethodPost, "/dashboard/export", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
