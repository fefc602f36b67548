package analyticssvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	analyticsrepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/analytics"
)

type repoMock struct {
	roomCountsFn func(ctx context.Context) (*analyticsrepo.RoomCounts, error)
	activeFn     func(ctx context.Context) (int, error)
	arrivalsFn   func(ctx context.Context, day time.Time) (int, error)
	departuresFn func(ctx context.Context, day time.Time) (int, error)
	revenueFn    func(ctx context.Context, from, to time.Time) (float64, error)
}

var _ analyticsrepo.Repo = (*repoMock)(nil)

func (m *repoMock) RoomCounts(ctx context.Context) (*analyticsrepo.RoomCounts, error) {
	return m.roomCountsFn(ctx)
}
func (m *repoMock) ActiveReservations(ctx context.Context) (int, error) { return m.activeFn(ctx) }
func (m *repoMock) ArrivalsOn(ctx context.Context, day time.Time) (int, error) {
	return m.arrivalsFn(ctx, day)
}
func (m *repoMock) DeparturesOn(ctx context.Context, day time.Time) (int, error) {
	return m.departuresFn(ctx, day)
}
func (m *repoMock) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return m.revenueFn(ctx, from, to)
}

func TestDashboard(t *testing.T) {
	var revFrom, revTo time.Time
	m := &repoMock{
		roomCountsFn: func(ctx context.Context) (*analyticsrepo.RoomCounts, error) {
			return &analyticsrepo.RoomCounts{TotalRooms: 10, AvailableRooms: 4, Capacity: 40, Occupied: 26}, nil
		},
		activeFn:     func(ctx context.Context) (int, error) { return 12, nil },
		arrivalsFn:   func(ctx context.Context, day time.Time) (int, error) { return 3, nil },
		departuresFn: func(ctx context.Context, day time.Time) (int, error) { return 2, nil },
		revenueFn: func(ctx context.Context, from, to time.Time) (float64, error) {
			revFrom, revTo = from, to
			return 412.50, nil
		},
	}

	svc := New(m, time.UTC).(*service)
	svc.now = func() time.Time { return time.Date(2026, 6, 10, 14, 30, 0, 0, time.UTC) }

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, stats.TotalRooms)
	require.Equal(t, 4, stats.AvailableRooms)
	require.Equal(t, 26, stats.OccupiedBeds)
	require.Equal(t, 12, stats.ActiveReservations)
	require.Equal(t, 3, stats.TodayCheckIns)
	require.Equal(t, 2, stats.TodayCheckOuts)
	require.Equal(t, 412.50, stats.RevenueToday)
	require.InDelta(t, 0.65, stats.OccupancyRate, 1e-9)

	// Revenue window is the hostel's civil day, [midnight, midnight+1d).
	require.Equal(t, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), revFrom)
	require.Equal(t, time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC), revTo)
}

func TestDashboard_ZeroCapacity(t *testing.T) {
	m := &repoMock{
		roomCountsFn: func(ctx context.Context) (*analyticsrepo.RoomCounts, error) {
			return &analyticsrepo.RoomCounts{}, nil
		},
		activeFn:     func(ctx context.Context) (int, error) { return 0, nil },
		arrivalsFn:   func(ctx context.Context, day time.Time) (int, error) { return 0, nil },
		departuresFn: func(ctx context.Context, day time.Time) (int, error) { return 0, nil },
		revenueFn:    func(ctx context.Context, from, to time.Time) (float64, error) { return 0, nil },
	}

	stats, err := New(m, time.UTC).Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0.0, stats.OccupancyRate)
}
