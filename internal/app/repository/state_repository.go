package repository

import (
	"context"
	"errors"
	"time"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	appredis "github.com/clozet/clozet-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
)

// StateRepository holds short-lived wizard state in redis. Keys expire on
// their own; an expired key reads as store.ErrNotFound.
type StateRepository interface {
	SaveLoginFlow(ctx context.Context, flow *model.LoginFlow, ttl time.Duration) error
	FindLoginFlow(ctx context.Context, id string) (*model.LoginFlow, error)
	SaveCheckoutDraft(ctx context.Context, draft *model.CheckoutDraft, ttl time.Duration) error
	FindCheckoutDraft(ctx context.Context, id string) (*model.CheckoutDraft, error)
	DeleteCheckoutDraft(ctx context.Context, id string) error
}

type stateRepository struct {
	client *redis.Client
}

func NewStateRepository(client *redis.Client) StateRepository {
	return &stateRepository{client: client}
}

func loginFlowKey(id string) string     { return "login_flow:" + id }
func checkoutDraftKey(id string) string { return "checkout:" + id }

func (r *stateRepository) SaveLoginFlow(ctx context.Context, flow *model.LoginFlow, ttl time.Duration) error {
	return appredis.SetJSON(ctx, r.client, loginFlowKey(flow.ID), flow, ttl)
}

func (r *stateRepository) FindLoginFlow(ctx context.Context, id string) (*model.LoginFlow, error) {
	var flow model.LoginFlow
	if err := appredis.GetJSON(ctx, r.client, loginFlowKey(id), &flow); err != nil {
		return nil, translateRedis(err)
	}
	return &flow, nil
}

func (r *stateRepository) SaveCheckoutDraft(ctx context.Context, draft *model.CheckoutDraft, ttl time.Duration) error {
	return appredis.SetJSON(ctx, r.client, checkoutDraftKey(draft.ID), draft, ttl)
}

func (r *stateRepository) FindCheckoutDraft(ctx context.Context, id string) (*model.CheckoutDraft, error) {
	var draft model.CheckoutDraft
	if err := appredis.GetJSON(ctx, r.client, checkoutDraftKey(id), &draft); err != nil {
		return nil, translateRedis(err)
	}
	return &draft, nil
}

func (r *stateRepository) DeleteCheckoutDraft(ctx context.Context, id string) error {
	return r.client.Del(ctx, checkoutDraftKey(id)).Err()
}

func translateRedis(err error) error {
	if errors.Is(err, appredis.ErrNotFound) {
		return store.ErrNotFound
	}
	return err
}
