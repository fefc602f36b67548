package reservation

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	"github.com/PresidentAnderson/checkin.pvthostel.com/repository/inmem"
	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

func day(s string) time.Time {
	t, err := time.Parse(dates.DayFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	store *inmem.Store
	svc   *service
	dorm  int64
	priv  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := inmem.NewStore()

	dorm := &model.Room{Number: "101", Type: model.RoomDorm, Capacity: 4, BasePrice: 25, Status: model.RoomAvailable, Floor: 1}
	require.NoError(t, store.Rooms().Insert(context.Background(), dorm))
	priv := &model.Room{Number: "201", Type: model.RoomPrivate, Capacity: 2, BasePrice: 80, Status: model.RoomAvailable, Floor: 2}
	require.NoError(t, store.Rooms().Insert(context.Background(), priv))

	svc := New(store, store.Reservations(), store.Rooms(), store.Guests(), time.UTC).(*service)
	return &fixture{store: store, svc: svc, dorm: dorm.ID, priv: priv.ID}
}

// at pins the service clock to 10:00 on the given day.
func (f *fixture) at(day string) {
	parsed, err := time.Parse(dates.DayFormat, day)
	if err != nil {
		panic(err)
	}
	f.svc.now = func() time.Time { return parsed.Add(10 * time.Hour) }
}

func guest(idNumber string) model.Guest {
	return model.Guest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		IDNumber:  idNumber,
	}
}

func (f *fixture) book(t *testing.T, roomID int64, in, out string) *model.Reservation {
	t.Helper()
	res, err := f.svc.Create(context.Background(), CreateParams{
		Guest:       guest("P-" + in + out),
		RoomIDs:     []int64{roomID},
		CheckIn:     day(in),
		CheckOut:    day(out),
		Adults:      1,
		TotalAmount: 100,
	})
	require.NoError(t, err)
	return res
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Create(context.Background(), CreateParams{
		Guest:       guest("AB123"),
		RoomIDs:     []int64{f.dorm},
		CheckIn:     day("2026-06-01"),
		CheckOut:    day("2026-06-05"),
		Adults:      2,
		Children:    1,
		Source:      model.SourceHostelworld,
		TotalAmount: 100,
	})
	require.NoError(t, err)
	require.Equal(t, model.ReservationPending, res.Status)
	require.Equal(t, model.PaymentPending, res.PaymentStatus)
	require.True(t, strings.HasPrefix(res.ConfirmationNumber, "PVT-"))
	require.Equal(t, 4, res.Nights)
	require.Equal(t, []string{"101"}, res.RoomNumbers)
	require.Equal(t, "Ada Lovelace", res.Guest.FullName())
	require.NotZero(t, res.GuestID)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []CreateParams{
		{Guest: guest("X"), RoomIDs: nil, CheckIn: day("2026-06-01"), CheckOut: day("2026-06-05")},
		{Guest: guest("X"), RoomIDs: []int64{f.dorm}, CheckIn: day("2026-06-05"), CheckOut: day("2026-06-05")},
		{Guest: guest("X"), RoomIDs: []int64{f.dorm}, CheckIn: day("2026-06-05"), CheckOut: day("2026-06-01")},
		{Guest: model.Guest{FirstName: "NoID", LastName: "Guest"}, RoomIDs: []int64{f.dorm}, CheckIn: day("2026-06-01"), CheckOut: day("2026-06-05")},
		{Guest: guest("X"), RoomIDs: []int64{f.dorm}, CheckIn: day("2026-06-01"), CheckOut: day("2026-06-05"), Source: "carrier_pigeon"},
		{Guest: guest("X"), RoomIDs: []int64{f.dorm}, CheckIn: day("2026-06-01"), CheckOut: day("2026-06-05"), TotalAmount: -1},
	}
	for _, p := range cases {
		_, err := f.svc.Create(ctx, p)
		require.Error(t, err)
		require.Equal(t, ErrValidation, Code(err))
	}
}

func TestCreate_UnknownRoom(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), CreateParams{
		Guest:    guest("X"),
		RoomIDs:  []int64{9999},
		CheckIn:  day("2026-06-01"),
		CheckOut: day("2026-06-05"),
	})
	require.Equal(t, ErrNotFound, Code(err))
}

func TestCreate_OverlapRejected(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.priv, "2026-06-01", "2026-06-05")

	_, err := f.svc.Create(context.Background(), CreateParams{
		Guest:    guest("Y9"),
		RoomIDs:  []int64{f.priv},
		CheckIn:  day("2026-06-04"),
		CheckOut: day("2026-06-08"),
	})
	require.Error(t, err)
	require.Equal(t, ErrRoomUnavailable, Code(err))
}

func TestCreate_CheckoutDayTurnover(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.priv, "2026-06-01", "2026-06-05")

	// Half-open ranges: a new arrival on the checkout day is fine.
	res := f.book(t, f.priv, "2026-06-05", "2026-06-08")
	require.Equal(t, model.ReservationPending, res.Status)
}

func TestCreate_MaintenanceRoomRejected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.RunTx(context.Background(), func(tx *sql.Tx) error {
		return f.store.Rooms().UpdateStatus(context.Background(), tx, f.priv, model.RoomMaintenance)
	}))

	_, err := f.svc.Create(context.Background(), CreateParams{
		Guest:    guest("Z1"),
		RoomIDs:  []int64{f.priv},
		CheckIn:  day("2026-06-01"),
		CheckOut: day("2026-06-05"),
	})
	require.Equal(t, ErrRoomUnavailable, Code(err))
}

func TestCreate_PreAuthorizedIntentBornConfirmed(t *testing.T) {
	f := newFixture(t)
	intent := "pi_prepaid_123"

	res, err := f.svc.Create(context.Background(), CreateParams{
		Guest:                 guest("W3"),
		RoomIDs:               []int64{f.priv},
		CheckIn:               day("2026-06-01"),
		CheckOut:              day("2026-06-05"),
		TotalAmount:           100,
		PreAuthorizedIntentID: &intent,
	})
	require.NoError(t, err)
	require.Equal(t, model.ReservationConfirmed, res.Status)
	require.NotNil(t, res.PaymentIntentID)
	require.Equal(t, intent, *res.PaymentIntentID)
}

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.priv, "2026-06-01", "2026-06-05")

	got, err := f.svc.Confirm(context.Background(), res.ID)
	require.NoError(t, err)
	require.Equal(t, model.ReservationConfirmed, got.Status)

	_, err = f.svc.Confirm(context.Background(), res.ID)
	require.Equal(t, ErrInvalidState, Code(err))
}

func TestCancel_AppendsReason(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.priv, "2026-06-01", "2026-06-05")

	got, err := f.svc.Cancel(context.Background(), res.ID, "guest changed plans")
	require.NoError(t, err)
	require.Equal(t, model.ReservationCancelled, got.Status)
	require.NotNil(t, got.Notes)
	require.Contains(t, *got.Notes, "Cancellation reason: guest changed plans")

	// Terminal: no way back.
	_, err = f.svc.Confirm(context.Background(), res.ID)
	require.Equal(t, ErrInvalidState, Code(err))
}

func TestCancel_FreesTheDates(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.priv, "2026-06-01", "2026-06-05")

	_, err := f.svc.Cancel(context.Background(), res.ID, "")
	require.NoError(t, err)

	// The same dates can be booked again.
	again := f.book(t, f.priv, "2026-06-01", "2026-06-05")
	require.Equal(t, model.ReservationPending, again.Status)
}

func TestCheckIn_Flow(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.priv, "2026-06-01", "2026-06-05")
	_, err := f.svc.Confirm(context.Background(), res.ID)
	require.NoError(t, err)

	f.at("2026-06-01")
	got, err := f.svc.CheckIn(context.Background(), res.ID)
	require.NoError(t, err)
	require.Equal(t, model.ReservationCheckedIn, got.Status)

	room, err := f.store.Rooms().GetByID(context.Background(), f.priv)
	require.NoError(t, err)
	require.Equal(t, model.RoomOccupied, room.Status)
	require.Equal(t, 1, room.CurrentOccupancy)

	// Checking in twice is a state error.
	_, err = f.svc.CheckIn(context.Background(), res.ID)
	require.Equal(t, ErrInvalidState, Code(err))
}

func TestCheckIn_RequiresConfirmed(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.priv, "2026-06-01", "2026-06-05")

	f.at("2026-06-01")
	_, err := f.svc.CheckIn(context.Background(), res.ID)
	require.Equal(t, ErrInvalidState, Code(err))
}

func TestCheckIn_OutsideStayWindow(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.priv, "2026-06-01", "2026-06-05")
	_, err := f.svc.Confirm(context.Background(), res.ID)
	require.NoError(t, err)

	f.at("2026-05-31")
	_, err = f.svc.CheckIn(context.Background(), res.ID)
	require.Equal(t, ErrInvalidState, Code(err))

	f.at("2026-06-05")
	_, err = f.svc.CheckIn(context.Background(), res.ID)
	require.Equal(t, ErrInvalidState, Code(err))
}

func TestCheckOut_RoomGoesToCleaning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.book(t, f.priv, "2026-06-01", "2026-06-05")
	_, err := f.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)

	f.at("2026-06-01")
	_, err = f.svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)

	got, err := f.svc.CheckOut(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, model.ReservationCheckedOut, got.Status)

	// Emptied room passes through cleaning, never straight back to available.
	room, err := f.store.Rooms().GetByID(ctx, f.priv)
	require.NoError(t, err)
	require.Equal(t, 0, room.CurrentOccupancy)
	require.Equal(t, model.RoomCleaning, room.Status)
}

func TestMultiRoomReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, CreateParams{
		Guest:       guest("GRP-1"),
		RoomIDs:     []int64{f.priv, f.dorm, f.dorm}, // duplicate collapses
		CheckIn:     day("2026-06-01"),
		CheckOut:    day("2026-06-03"),
		Adults:      4,
		TotalAmount: 400,
	})
	require.NoError(t, err)
	require.Len(t, res.RoomIDs, 2)

	_, err = f.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)

	f.at("2026-06-01")
	_, err = f.svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)

	for _, roomID := range []int64{f.priv, f.dorm} {
		room, err := f.store.Rooms().GetByID(ctx, roomID)
		require.NoError(t, err)
		require.Equal(t, 1, room.CurrentOccupancy)
		require.Equal(t, model.RoomOccupied, room.Status)
	}

	_, err = f.svc.CheckOut(ctx, res.ID)
	require.NoError(t, err)

	for _, roomID := range []int64{f.priv, f.dorm} {
		room, err := f.store.Rooms().GetByID(ctx, roomID)
		require.NoError(t, err)
		require.Equal(t, 0, room.CurrentOccupancy)
		require.Equal(t, model.RoomCleaning, room.Status)
	}
}

func TestCheckOut_RequiresCheckedIn(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.priv, "2026-06-01", "2026-06-05")

	_, err := f.svc.CheckOut(context.Background(), res.ID)
	require.Equal(t, ErrInvalidState, Code(err))
}

func TestCancel_AfterCheckInRejected(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.priv, "2026-06-01", "2026-06-05")
	_, err := f.svc.Confirm(context.Background(), res.ID)
	require.NoError(t, err)

	f.at("2026-06-02")
	_, err = f.svc.CheckIn(context.Background(), res.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), res.ID, "too late")
	require.Equal(t, ErrInvalidState, Code(err))
}

func TestNoShow(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.priv, "2026-06-01", "2026-06-05")

	// Not yet past the arrival day.
	f.at("2026-06-01")
	_, err := f.svc.NoShow(context.Background(), res.ID)
	require.Equal(t, ErrInvalidState, Code(err))

	f.at("2026-06-02")
	got, err := f.svc.NoShow(context.Background(), res.ID)
	require.NoError(t, err)
	require.Equal(t, model.ReservationNoShow, got.Status)

	// no_show frees the dates.
	again := f.book(t, f.priv, "2026-06-01", "2026-06-05")
	require.Equal(t, model.ReservationPending, again.Status)
}

func TestTodayLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	arriving := f.book(t, f.priv, "2026-06-01", "2026-06-05")
	_, err := f.svc.Confirm(ctx, arriving.ID)
	require.NoError(t, err)

	leaving := f.book(t, f.dorm, "2026-05-29", "2026-06-01")
	_, err = f.svc.Confirm(ctx, leaving.ID)
	require.NoError(t, err)
	f.at("2026-05-31")
	_, err = f.svc.CheckIn(ctx, leaving.ID)
	require.NoError(t, err)

	f.at("2026-06-01")
	ins, err := f.svc.TodayCheckIns(ctx)
	require.NoError(t, err)
	require.Len(t, ins, 1)
	require.Equal(t, arriving.ID, ins[0].ID)

	outs, err := f.svc.TodayCheckOuts(ctx)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	require.Equal(t, leaving.ID, outs[0].ID)
}

func TestSweeper_MarksStaleReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stale := f.book(t, f.priv, "2026-06-01", "2026-06-05")
	future := f.book(t, f.dorm, "2026-06-10", "2026-06-12")

	sw := NewSweeper(f.store.Reservations(), time.UTC).(*sweeper)
	sw.now = func() time.Time { return day("2026-06-03") }

	n, err := sw.MarkNoShows(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	got, err := f.svc.Detail(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, model.ReservationNoShow, got.Status)

	got, err = f.svc.Detail(ctx, future.ID)
	require.NoError(t, err)
	require.Equal(t, model.ReservationPending, got.Status)
}

func TestDedupeSorted(t *testing.T) {
	require.Equal(t, []int64{1, 2, 5}, dedupeSorted([]int64{5, 2, 1, 2, 5}))
	require.Equal(t, []int64{7}, dedupeSorted([]int64{7, 7, 7}))
}
