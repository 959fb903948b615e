package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
)

type CampaignsAPI struct {
	gw *Gateway
}

func NewCampaignsAPI(gw *Gateway) *CampaignsAPI {
	return &CampaignsAPI{gw: gw}
}

func (c *CampaignsAPI) List(ctx context.Context, f models.CampaignFilter) (*models.CampaignPage, error) {
	q := url.Values{}
	if f.TelegramBotID != "" {
		q.Set("telegram_bot_id", f.TelegramBotID)
	}
	if f.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*f.IsActive))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}

	var page models.CampaignPage
	if err := c.gw.Do(ctx, http.MethodGet, "/campaigns", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type campaignEnvelope struct {
	Campaign models.Campaign `json:"campaign"`
}

func (c *CampaignsAPI) Get(ctx context.Context, id string) (*models.Campaign, error) {
	var env campaignEnvelope
	if err := c.gw.Do(ctx, http.MethodGet, "/campaigns/"+url.PathEscape(id), nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Campaign, nil
}

func (c *CampaignsAPI) Create(ctx context.Context, in models.CampaignInput) (*models.Campaign, error) {
	var env campaignEnvelope
	if err := c.gw.Do(ctx, http.MethodPost, "/campaigns", nil, in, &env); err != nil {
		return nil, err
	}
	return &env.Campaign, nil
}

func (c *CampaignsAPI) Update(ctx context.Context, id string, in models.CampaignInput) (*models.Campaign, error) {
	var env campaignEnvelope
	if err := c.gw.Do(ctx, http.MethodPut, "/campaigns/"+url.PathEscape(id), nil, in, &env); err != nil {
		return nil, err
	}
	return &env.Campaign, nil
}

func (c *CampaignsAPI) Delete(ctx context.Context, id string) error {
	return c.gw.Do(ctx, http.MethodDelete, "/campaigns/"+url.PathEscape(id), nil, nil, nil)
}

type leadsEnvelope struct {
	Leads []models.Lead `json:"leads"`
}

func (c *CampaignsAPI) Leads(ctx context.Context, id string) ([]models.Lead, error) {
	var env leadsEnvelope
	if err := c.gw.Do(ctx, http.MethodGet, "/campaigns/"+url.PathEscape(id)+"/leads", nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Leads, nil
}

// Script returns the tracking snippet payload of a campaign.
func (c *CampaignsAPI) Script(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.gw.Do(ctx, http.MethodGet, "/campaigns/"+url.PathEscape(id)+"/script", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
