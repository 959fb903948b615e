package campaigns

import (
	"context"
	"sort"
	"sync"

	"github.com/vitortiger/utm-tracker-saas/internal/common"
)

type Repository interface {
	CreateBot(ctx context.Context, bot *Bot) (*Bot, error)
	GetBot(ctx context.Context, userID, id string) (*Bot, error)
	ListBots(ctx context.Context, userID string) ([]Bot, error)
	UpdateBot(ctx context.Context, bot *Bot) (*Bot, error)
	DeleteBot(ctx context.Context, userID, id string) error

	CreateCampaign(ctx context.Context, c *Campaign) (*Campaign, error)
	GetCampaign(ctx context.Context, userID, id string) (*Campaign, error)
	ListCampaigns(ctx context.Context, userID string) ([]Campaign, error)
	UpdateCampaign(ctx context.Context, c *Campaign) (*Campaign, error)
	DeleteCampaign(ctx context.Context, userID, id string) error

	AddLead(ctx context.Context, lead *Lead) error
	ListLeads(ctx context.Context, campaignID string) ([]Lead, error)
}

// MemoryRepository is a Repository over maps. Lists are ordered by
// creation time.
type MemoryRepository struct {
	mu        sync.RWMutex
	bots      map[string]*Bot
	campaigns map[string]*Campaign
	leads     map[string][]Lead
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bots:      make(map[string]*Bot),
		campaigns: make(map[string]*Campaign),
		leads:     make(map[string][]Lead),
	}
}

func (r *MemoryRepository) CreateBot(_ context.Context, bot *Bot) (*Bot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bots {
		if b.UserID == bot.UserID && b.ChatID == bot.ChatID {
			return nil, common.ErrAlreadyExists
		}
	}
	c := *bot
	r.bots[c.ID] = &c
	out := c
	return &out, nil
}

func (r *MemoryRepository) GetBot(_ context.Context, userID, id string) (*Bot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bots[id]
	if !ok || b.UserID != userID {
		return nil, common.ErrNotFound
	}
	c := *b
	return &c, nil
}

func (r *MemoryRepository) ListBots(_ context.Context, userID string) ([]Bot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Bot{}
	for _, b := range r.bots {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) UpdateBot(_ context.Context, bot *Bot) (*Bot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.bots[bot.ID]
	if !ok || old.UserID != bot.UserID {
		return nil, common.ErrNotFound
	}
	c := *bot
	r.bots[c.ID] = &c
	out := c
	return &out, nil
}

func (r *MemoryRepository) DeleteBot(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bots[id]
	if !ok || b.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.bots, id)
	return nil
}

func (r *MemoryRepository) CreateCampaign(_ context.Context, c *Campaign) (*Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *c
	r.campaigns[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *MemoryRepository) GetCampaign(_ context.Context, userID, id string) (*Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.campaigns[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrNotFound
	}
	out := *c
	out.Stats = Stats{TotalLeads: len(r.leads[id])}
	return &out, nil
}

func (r *MemoryRepository) ListCampaigns(_ context.Context, userID string) ([]Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Campaign{}
	for _, c := range r.campaigns {
		if c.UserID == userID {
			cp := *c
			cp.Stats = Stats{TotalLeads: len(r.leads[c.ID])}
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) UpdateCampaign(_ context.Context, c *Campaign) (*Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.campaigns[c.ID]
	if !ok || old.UserID != c.UserID {
		return nil, common.ErrNotFound
	}
	cp := *c
	r.campaigns[cp.ID] = &cp
	out := cp
	out.Stats = Stats{TotalLeads: len(r.leads[c.ID])}
	return &out, nil
}

// DeleteCampaign removes the campaign and its leads.
func (r *MemoryRepository) DeleteCampaign(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[id]
	if !ok || c.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.campaigns, id)
	delete(r.leads, id)
	return nil
}

func (r *MemoryRepository) AddLead(_ context.Context, lead *Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.campaigns[lead.CampaignID]; !ok {
		return common.ErrNotFound
	}
	r.leads[lead.CampaignID] = append(r.leads[lead.CampaignID], *lead)
	return nil
}

func (r *MemoryRepository) ListLeads(_ context.Context, campaignID string) ([]Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Lead{}, r.leads[campaignID]...), nil
}
