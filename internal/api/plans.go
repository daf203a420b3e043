package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"visionlink/internal/types"
)

// Plans lists the catalog in server order. Nothing is cached.
func (c *Client) Plans(ctx context.Context) ([]types.Plan, error) {
	var out types.PlanList
	if err := c.call(ctx, http.MethodGet, "/plans/", nil, authNone, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Plan fetches one plan by slug.
func (c *Client) Plan(ctx context.Context, slug string) (*types.Plan, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, validationError("plan slug is required")
	}
	var p types.Plan
	if err := c.call(ctx, http.MethodGet, "/plans/"+url.PathEscape(slug)+"/", nil, authNone, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) PopularPlans(ctx context.Context) ([]types.Plan, error) {
	var out types.PlanList
	if err := c.call(ctx, http.MethodGet, "/plans/popular/", nil, authNone, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubscribeToPlan requires a login. Callers are expected to check
// IsAuthenticated first; the client does not redirect anywhere.
func (c *Client) SubscribeToPlan(ctx context.Context, planID int, notes string) (*types.Subscription, error) {
	if planID <= 0 {
		return nil, validationError("plan id is required")
	}
	var sub types.Subscription
	body := types.SubscribeRequest{Plan: planID, Notes: notes}
	if err := c.call(ctx, http.MethodPost, "/plans/subscribe/", nil, authRequired, body, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
