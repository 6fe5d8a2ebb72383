package storetest

import (
	"context"
	"testing"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCartStoreSuite checks the cart contract against the store built by newStore.
func RunCartStoreSuite(t *testing.T, newStore func(t *testing.T) store.CartStore) {
	ctx := context.Background()

	newLine := func(title string, price int64, qty int) *model.CartLine {
		return &model.CartLine{Title: title, Variant: "Medium / Blue", UnitPrice: decimal.NewFromInt(price), Quantity: qty}
	}

	t.Run("add and list", func(t *testing.T) {
		s := newStore(t)
		shirt := newLine("Premium Cotton T-Shirt", 899, 2)
		jeans := newLine("Designer Jeans", 2499, 1)
		require.NoError(t, s.AddCartLine(ctx, "id-1", shirt))
		require.NoError(t, s.AddCartLine(ctx, "id-1", jeans))
		assert.NotEmpty(t, shirt.ID)

		lines, err := s.ListCartLines(ctx, "id-1")
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "Premium Cotton T-Shirt", lines[0].Title)
		assert.True(t, decimal.NewFromInt(899).Equal(lines[0].UnitPrice))

		other, err := s.ListCartLines(ctx, "id-2")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("quantity zero removes line", func(t *testing.T) {
		s := newStore(t)
		line := newLine("Designer Jeans", 2499, 1)
		require.NoError(t, s.AddCartLine(ctx, "id-1", line))

		require.NoError(t, s.SetCartLineQuantity(ctx, "id-1", line.ID, 3))
		lines, err := s.ListCartLines(ctx, "id-1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 3, lines[0].Quantity)

		require.NoError(t, s.SetCartLineQuantity(ctx, "id-1", line.ID, 0))
		lines, err = s.ListCartLines(ctx, "id-1")
		require.NoError(t, err)
		assert.Empty(t, lines)

		assert.ErrorIs(t, s.SetCartLineQuantity(ctx, "id-1", line.ID, 2), store.ErrNotFound)
	})

	t.Run("remove and clear", func(t *testing.T) {
		s := newStore(t)
		a := newLine("A", 100, 1)
		b := newLine("B", 200, 1)
		require.NoError(t, s.AddCartLine(ctx, "id-1", a))
		require.NoError(t, s.AddCartLine(ctx, "id-1", b))

		require.NoError(t, s.RemoveCartLine(ctx, "id-1", a.ID))
		assert.ErrorIs(t, s.RemoveCartLine(ctx, "id-1", a.ID), store.ErrNotFound)

		require.NoError(t, s.ClearCart(ctx, "id-1"))
		lines, err := s.ListCartLines(ctx, "id-1")
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

// RunProfileStoreSuite checks the profile contract against the store built by newStore.
func RunProfileStoreSuite(t *testing.T, newStore func(t *testing.T) store.ProfileStore) {
	ctx := context.Background()

	t.Run("missing profile", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetProfile(ctx, "id-1")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("save then update", func(t *testing.T) {
		s := newStore(t)
		p := &model.Profile{UserID: "id-1", Name: "Demo User"}
		require.NoError(t, s.SaveProfile(ctx, p))

		got, err := s.GetProfile(ctx, "id-1")
		require.NoError(t, err)
		assert.Equal(t, "Demo User", got.Name)
		assert.False(t, got.OnboardingCompleted)

		got.OnboardingCompleted = true
		got.StylePreferences.Categories = []string{"ethnic", "streetwear"}
		require.NoError(t, s.SaveProfile(ctx, got))

		again, err := s.GetProfile(ctx, "id-1")
		require.NoError(t, err)
		assert.True(t, again.OnboardingCompleted)
		assert.Equal(t, []string{"ethnic", "streetwear"}, again.StylePreferences.Categories)
	})
}
