package guestsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	"github.com/PresidentAnderson/checkin.pvthostel.com/repository/inmem"
)

func newSvc() (*inmem.Store, Service) {
	store := inmem.NewStore()
	return store, New(store, store.Guests())
}

func TestCreate_UpsertsByIDNumber(t *testing.T) {
	_, svc := newSvc()
	ctx := context.Background()

	first, err := svc.Create(ctx, model.Guest{
		FirstName: "Margaret", LastName: "Hamilton",
		Email: "mh@example.com", IDNumber: "PASS-77",
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	// Same document, new contact details: the profile is refreshed in place.
	again, err := svc.Create(ctx, model.Guest{
		FirstName: "Margaret", LastName: "Hamilton",
		Email: "margaret@example.com", IDNumber: "PASS-77",
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, "margaret@example.com", again.Email)
}

func TestCreate_Validation(t *testing.T) {
	_, svc := newSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, model.Guest{LastName: "X", IDNumber: "1"})
	require.Equal(t, ErrValidation, Code(err))

	_, err = svc.Create(ctx, model.Guest{FirstName: "X", LastName: "Y"})
	require.Equal(t, ErrValidation, Code(err))
}

func TestDetailAndList(t *testing.T) {
	_, svc := newSvc()
	ctx := context.Background()

	g, err := svc.Create(ctx, model.Guest{FirstName: "Katherine", LastName: "Johnson", IDNumber: "ID-9"})
	require.NoError(t, err)

	got, err := svc.Detail(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, "Katherine Johnson", got.FullName())

	_, err = svc.Detail(ctx, 404)
	require.Equal(t, ErrNotFound, Code(err))

	rows, err := svc.List(ctx, "johnson", 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = svc.List(ctx, "nobody", 0, 0)
	require.NoError(t, err)
	require.Empty(t, rows)
}
