package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStateTest(t *testing.T) (StateRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStateRepository(client), mr
}

func TestStateRepository_LoginFlowExpires(t *testing.T) {
	repo, mr := setupStateTest(t)
	ctx := context.Background()

	flow := &model.LoginFlow{ID: "flow-1", Step: model.LoginStepOTP, Channel: model.ChannelEmail, Identifier: "a@b.com"}
	require.NoError(t, repo.SaveLoginFlow(ctx, flow, 15*time.Minute))
	assert.True(t, mr.Exists("login_flow:flow-1"))

	got, err := repo.FindLoginFlow(ctx, "flow-1")
	require.NoError(t, err)
	assert.Equal(t, model.LoginStepOTP, got.Step)
	assert.Equal(t, "a@b.com", got.Identifier)

	mr.FastForward(16 * time.Minute)
	_, err = repo.FindLoginFlow(ctx, "flow-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStateRepository_CheckoutDraft(t *testing.T) {
	repo, mr := setupStateTest(t)
	ctx := context.Background()

	draft := &model.CheckoutDraft{ID: "co-1", IdentityID: "id-1", Step: model.CheckoutStepDelivery, DeliveryType: model.DeliveryStandard}
	require.NoError(t, repo.SaveCheckoutDraft(ctx, draft, 30*time.Minute))
	assert.Equal(t, 30*time.Minute, mr.TTL("checkout:co-1"))

	got, err := repo.FindCheckoutDraft(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStepDelivery, got.Step)
	assert.Equal(t, model.DeliveryStandard, got.DeliveryType)

	require.NoError(t, repo.DeleteCheckoutDraft(ctx, "co-1"))
	_, err = repo.FindCheckoutDraft(ctx, "co-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
