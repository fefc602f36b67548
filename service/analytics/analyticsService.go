package analyticssvc

import (
	"context"
	"time"

	analyticsrepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/analytics"
	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

type DashboardStats struct {
	TotalRooms         int     `json:"total_rooms"`
	AvailableRooms     int     `json:"available_rooms"`
	OccupiedBeds       int     `json:"occupied_beds"`
	Capacity           int     `json:"capacity"`
	OccupancyRate      float64 `json:"occupancy_rate"`
	ActiveReservations int     `json:"active_reservations"`
	TodayCheckIns      int     `json:"today_check_ins"`
	TodayCheckOuts     int     `json:"today_check_outs"`
	RevenueToday       float64 `json:"revenue_today"`
}

type Service interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type service struct {
	r   analyticsrepo.Repo
	loc *time.Location
	now func() time.Time
}

func New(r analyticsrepo.Repo, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{r: r, loc: loc, now: time.Now}
}

func (s *service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	today := dates.Today(s.now(), s.loc)

	rooms, err := s.r.RoomCounts(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.r.ActiveReservations(ctx)
	if err != nil {
		return nil, err
	}
	arrivals, err := s.r.ArrivalsOn(ctx, today)
	if err != nil {
		return nil, err
	}
	departures, err := s.r.DeparturesOn(ctx, today)
	if err != nil {
		return nil, err
	}
	revenue, err := s.r.RevenueBetween(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalRooms:         rooms.TotalRooms,
		AvailableRooms:     rooms.AvailableRooms,
		OccupiedBeds:       rooms.Occupied,
		Capacity:           rooms.Capacity,
		ActiveReservations: active,
		TodayCheckIns:      arrivals,
		TodayCheckOuts:     departures,
		RevenueToday:       revenue,
	}
	if rooms.Capacity > 0 {
		stats.OccupancyRate = float64(rooms.Occupied) / float64(rooms.Capacity)
	}
	return stats, nil
}
