package service

import (
	"context"
	"errors"
	"testing"

	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressService_FirstAddressIsDefault(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewAddressService()
	ctx := context.Background()

	for name, sess := range map[string]*session.Session{
		"remote": env.remoteSession(t, "asha@example.com"),
		"demo":   env.demoSession(t, "demo@clozet.com"),
	} {
		t.Run(name, func(t *testing.T) {
			home, err := svc.Create(ctx, sess, vellore(""))
			require.NoError(t, err)
			assert.True(t, home.IsDefault)
			assert.Equal(t, "home", home.Label)

			work, err := svc.Create(ctx, sess, vellore("work"))
			require.NoError(t, err)
			assert.False(t, work.IsDefault)

			require.NoError(t, svc.SetDefault(ctx, sess, work.ID))

			addresses, err := svc.List(ctx, sess)
			require.NoError(t, err)
			require.Len(t, addresses, 2)
			assert.Equal(t, work.ID, addresses[0].ID, "default is listed first")
			assert.True(t, addresses[0].IsDefault)
			assert.False(t, addresses[1].IsDefault)
		})
	}
}

func TestAddressService_DeleteOnlyAddress(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewAddressService()
	ctx := context.Background()
	sess := env.demoSession(t, "demo@clozet.com")

	only, err := svc.Create(ctx, sess, vellore("home"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, sess, only.ID))

	addresses, err := svc.List(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, addresses)

	checkout := NewCheckoutService(env.states, svc, NewPaymentService(env.orders, env.stores, nil, testCheckoutConfig()), testCheckoutConfig().DraftTTL)
	view, err := checkout.Start(ctx, sess)
	require.NoError(t, err)
	assert.True(t, view.NoAddresses)
	assert.Empty(t, view.Draft.SelectedAddressID)
	assert.False(t, view.CanAdvance)
}

func TestAddressService_DeletingDefaultPromotesNothing(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewAddressService()
	ctx := context.Background()
	sess := env.remoteSession(t, "asha@example.com")

	home, err := svc.Create(ctx, sess, vellore("home"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, sess, vellore("work"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, sess, home.ID))

	addresses, err := svc.List(ctx, sess)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.False(t, addresses[0].IsDefault)
}

func TestAddressService_Validation(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewAddressService()
	ctx := context.Background()
	sess := env.remoteSession(t, "asha@example.com")

	fields := vellore("home")
	fields.FullName = "  "
	fields.PostalCode = ""
	_, err := svc.Create(ctx, sess, fields)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "full_name")
	assert.Contains(t, verr.Fields, "postal_code")
}

func TestAddressService_OtherIdentitiesAreInvisible(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewAddressService()
	ctx := context.Background()
	owner := env.remoteSession(t, "asha@example.com")
	other := env.remoteSession(t, "ravi@example.com")

	address, err := svc.Create(ctx, owner, vellore("home"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, other, address.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = svc.Update(ctx, other, address.ID, vellore("stolen"))
	assert.ErrorIs(t, err, ErrAddressNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, other, address.ID), ErrAddressNotFound)

	updated, err := svc.Update(ctx, owner, address.ID, vellore("work"))
	require.NoError(t, err)
	assert.Equal(t, "work", updated.Label)
}
