package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
)

var ErrUsage = errors.New("usage")

func (a *App) Campaigns(ctx context.Context, args []string) error {
	f := models.CampaignFilter{PerPage: 20}
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 1 {
			return fmt.Errorf("%w: campaigns [page]", ErrUsage)
		}
		f.Page = p
	}

	page, err := a.campaigns.List(ctx, f)
	if err != nil {
		return err
	}
	if len(page.Campaigns) == 0 {
		fmt.Fprintln(a.out, "No campaigns.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBOT\tACTIVE")
	for _, c := range page.Campaigns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", c.ID, c.Name, c.TelegramBotID, c.IsActive)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if page.Pagination.Pages > 1 {
		fmt.Fprintf(a.out, "Page %d of %d\n", page.Pagination.Page, page.Pagination.Pages)
	}
	return nil
}

func (a *App) Leads(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: leads <campaign_id>", ErrUsage)
	}
	leads, err := a.campaigns.Leads(ctx, args[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TELEGRAM ID\tUSERNAME\tSOURCE\tMEDIUM\tCREATED")
	for _, l := range leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", string(l.TelegramID), l.Username, l.UTMSource, l.UTMMedium, l.CreatedAt)
	}
	return tw.Flush()
}

func (a *App) Bots(ctx context.Context) error {
	bots, err := a.bots.List(ctx)
	if err != nil {
		return err
	}
	if len(bots) == 0 {
		fmt.Fprintln(a.out, "No bots.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBOT\tCHAT\tACTIVE")
	for _, b := range bots {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", b.ID, b.BotUsername, displayName(b.ChatName, b.ChatID), b.IsActive)
	}
	return tw.Flush()
}

func (a *App) Overview(ctx context.Context) error {
	raw, err := a.dashboard.Overview(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(raw)
}

func (a *App) Analytics(ctx context.Context, args []string) error {
	q := url.Values{}
	if len(args) > 0 {
		q.Set("period", args[0])
	}
	raw, err := a.dashboard.Analytics(ctx, q)
	if err != nil {
		return err
	}
	return a.printJSON(raw)
}

func (a *App) Export(ctx context.Context, args []string) error {
	var req models.ExportRequest
	if len(args) > 0 {
		req.Type = args[0]
	}
	if len(args) > 1 {
		req.CampaignID = args[1]
	}

	res, err := a.exporter.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d %s record(s) to %s\n", res.TotalRecords, res.Type, res.Location)
	return nil
}

func (a *App) Webhook(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: webhook <setup|remove> <campaign_id>", ErrUsage)
	}
	switch args[0] {
	case "setup":
		hook, err := a.webhooks.SetupTelegram(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Webhook set: %s\n", hook)
	case "remove":
		if err := a.webhooks.RemoveTelegram(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Webhook removed.")
	default:
		return fmt.Errorf("%w: webhook <setup|remove> <campaign_id>", ErrUsage)
	}
	return nil
}

func (a *App) printJSON(raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, werr := a.out.Write(raw)
		return werr
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(a.out)
	return err
}
