package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
)

type BotsAPI struct {
	gw *Gateway
}

func NewBotsAPI(gw *Gateway) *BotsAPI {
	return &BotsAPI{gw: gw}
}

type botsEnvelope struct {
	Bots []models.TelegramBot `json:"bots"`
}

type botEnvelope struct {
	Bot models.TelegramBot `json:"bot"`
}

func (b *BotsAPI) List(ctx context.Context) ([]models.TelegramBot, error) {
	var env botsEnvelope
	if err := b.gw.Do(ctx, http.MethodGet, "/telegram-bots", nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Bots, nil
}

func (b *BotsAPI) Get(ctx context.Context, id string) (*models.TelegramBot, error) {
	var env botEnvelope
	if err := b.gw.Do(ctx, http.MethodGet, "/telegram-bots/"+url.PathEscape(id), nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Bot, nil
}

func (b *BotsAPI) Create(ctx context.Context, in models.TelegramBotInput) (*models.TelegramBot, error) {
	var env botEnvelope
	if err := b.gw.Do(ctx, http.MethodPost, "/telegram-bots", nil, in, &env); err != nil {
		return nil, err
	}
	return &env.Bot, nil
}

func (b *BotsAPI) Update(ctx context.Context, id string, in models.TelegramBotInput) (*models.TelegramBot, error) {
	var env botEnvelope
	if err := b.gw.Do(ctx, http.MethodPut, "/telegram-bots/"+url.PathEscape(id), nil, in, &env); err != nil {
		return nil, err
	}
	return &env.Bot, nil
}

func (b *BotsAPI) Delete(ctx context.Context, id string) error {
	return b.gw.Do(ctx, http.MethodDelete, "/telegram-bots/"+url.PathEscape(id), nil, nil, nil)
}

// Test asks the server to send a probe message through the bot.
func (b *BotsAPI) Test(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := b.gw.Do(ctx, http.MethodPost, "/telegram-bots/"+url.PathEscape(id)+"/test", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
