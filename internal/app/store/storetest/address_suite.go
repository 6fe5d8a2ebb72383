// Package storetest holds behaviour tests every store backend must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAddress(name string) *model.Address {
	a := &model.Address{}
	model.AddressFields{
		FullName:     name,
		Phone:        "9876543210",
		AddressLine1: "12 Katpadi Road",
		City:         "Vellore",
		State:        "Tamil Nadu",
		PostalCode:   "632014",
	}.Apply(a)
	return a
}

func defaultCount(addresses []model.Address) int {
	n := 0
	for _, a := range addresses {
		if a.IsDefault {
			n++
		}
	}
	return n
}

// RunAddressStoreSuite checks the address contract against the store built by newStore.
func RunAddressStoreSuite(t *testing.T, newStore func(t *testing.T) store.AddressStore) {
	ctx := context.Background()

	t.Run("first address becomes default", func(t *testing.T) {
		s := newStore(t)
		first := sampleAddress("Asha")
		require.NoError(t, s.CreateAddress(ctx, "id-1", first))
		assert.NotEmpty(t, first.ID)
		assert.True(t, first.IsDefault)
		assert.Equal(t, "id-1", first.UserID)
		assert.Equal(t, model.DefaultAddressLabel, first.Label)

		second := sampleAddress("Ravi")
		second.IsDefault = true
		require.NoError(t, s.CreateAddress(ctx, "id-1", second))
		assert.False(t, second.IsDefault)

		list, err := s.ListAddresses(ctx, "id-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 1, defaultCount(list))
		assert.Equal(t, first.ID, list[0].ID)
	})

	t.Run("identities are isolated", func(t *testing.T) {
		s := newStore(t)
		a := sampleAddress("Asha")
		require.NoError(t, s.CreateAddress(ctx, "id-1", a))
		b := sampleAddress("Meera")
		require.NoError(t, s.CreateAddress(ctx, "id-2", b))
		assert.True(t, b.IsDefault)

		_, err := s.GetAddress(ctx, "id-2", a.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.SetDefaultAddress(ctx, "id-2", a.ID), store.ErrNotFound)
		assert.ErrorIs(t, s.DeleteAddress(ctx, "id-2", a.ID), store.ErrNotFound)
	})

	t.Run("list is default first then creation order", func(t *testing.T) {
		s := newStore(t)
		var ids []string
		for _, name := range []string{"A", "B", "C"} {
			a := sampleAddress(name)
			require.NoError(t, s.CreateAddress(ctx, "id-1", a))
			ids = append(ids, a.ID)
			time.Sleep(2 * time.Millisecond)
		}
		require.NoError(t, s.SetDefaultAddress(ctx, "id-1", ids[2]))

		list, err := s.ListAddresses(ctx, "id-1")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{ids[2], ids[0], ids[1]}, []string{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("set default is exclusive and idempotent", func(t *testing.T) {
		s := newStore(t)
		a := sampleAddress("A")
		b := sampleAddress("B")
		require.NoError(t, s.CreateAddress(ctx, "id-1", a))
		require.NoError(t, s.CreateAddress(ctx, "id-1", b))

		require.NoError(t, s.SetDefaultAddress(ctx, "id-1", b.ID))
		once, err := s.ListAddresses(ctx, "id-1")
		require.NoError(t, err)

		require.NoError(t, s.SetDefaultAddress(ctx, "id-1", b.ID))
		twice, err := s.ListAddresses(ctx, "id-1")
		require.NoError(t, err)

		assert.Equal(t, 1, defaultCount(twice))
		require.Len(t, twice, 2)
		for i := range once {
			assert.Equal(t, once[i].ID, twice[i].ID)
			assert.Equal(t, once[i].IsDefault, twice[i].IsDefault)
		}
		assert.Equal(t, b.ID, twice[0].ID)
		assert.True(t, twice[0].IsDefault)
	})

	t.Run("update keeps default flag", func(t *testing.T) {
		s := newStore(t)
		a := sampleAddress("A")
		require.NoError(t, s.CreateAddress(ctx, "id-1", a))

		edited := sampleAddress("A Kumar")
		edited.ID = a.ID
		edited.City = "Chennai"
		edited.IsDefault = false
		require.NoError(t, s.UpdateAddress(ctx, "id-1", edited))

		got, err := s.GetAddress(ctx, "id-1", a.ID)
		require.NoError(t, err)
		assert.Equal(t, "A Kumar", got.FullName)
		assert.Equal(t, "Chennai", got.City)
		assert.True(t, got.IsDefault)

		missing := sampleAddress("X")
		missing.ID = "does-not-exist"
		assert.ErrorIs(t, s.UpdateAddress(ctx, "id-1", missing), store.ErrNotFound)
	})

	t.Run("delete does not promote another default", func(t *testing.T) {
		s := newStore(t)
		a := sampleAddress("A")
		b := sampleAddress("B")
		require.NoError(t, s.CreateAddress(ctx, "id-1", a))
		require.NoError(t, s.CreateAddress(ctx, "id-1", b))

		require.NoError(t, s.DeleteAddress(ctx, "id-1", a.ID))
		list, err := s.ListAddresses(ctx, "id-1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 0, defaultCount(list))

		require.NoError(t, s.DeleteAddress(ctx, "id-1", b.ID))
		list, err = s.ListAddresses(ctx, "id-1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
