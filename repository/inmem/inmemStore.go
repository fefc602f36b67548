// Package inmem is the in-memory implementation of the repositories. It backs
// tests and local development; the Postgres repositories are the production
// side of the same interfaces, selected by wiring, not environment sniffing.
package inmem

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	reservationrepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/reservation"
)

// Store holds every table behind one mutex. RunTx serializes mutating
// operations, which gives the same all-or-nothing guarantee as the Postgres
// transaction; tx-scoped methods expect to run inside RunTx and receive a
// nil *sql.Tx. Entity views (Rooms, Guests, Reservations, Ledger) expose the
// repository interfaces the services consume.
type Store struct {
	mu sync.Mutex

	rooms        map[int64]*model.Room
	guests       map[int64]*model.Guest
	guestsByDoc  map[string]int64
	reservations map[int64]*model.Reservation
	payments     []model.Payment

	nextRoom  int64
	nextGuest int64
	nextRes   int64
	nextPay   int64
}

func NewStore() *Store {
	return &Store{
		rooms:        map[int64]*model.Room{},
		guests:       map[int64]*model.Guest{},
		guestsByDoc:  map[string]int64{},
		reservations: map[int64]*model.Reservation{},
	}
}

func (s *Store) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(nil)
}

func (s *Store) Rooms() *RoomStore               { return &RoomStore{s: s} }
func (s *Store) Guests() *GuestStore             { return &GuestStore{s: s} }
func (s *Store) Reservations() *ReservationStore { return &ReservationStore{s: s} }
func (s *Store) Ledger() *LedgerStore            { return &LedgerStore{s: s} }

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func beforeDay(a, b time.Time) bool {
	return a.Format("2006-01-02") < b.Format("2006-01-02")
}

func spansOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func blocking(status model.ReservationStatus) bool {
	switch status {
	case model.ReservationPending, model.ReservationConfirmed, model.ReservationCheckedIn:
		return true
	}
	return false
}

// ----- rooms -----

type RoomStore struct{ s *Store }

func copyRoom(r *model.Room) *model.Room {
	c := *r
	return &c
}

func (v *RoomStore) Insert(ctx context.Context, r *model.Room) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, existing := range v.s.rooms {
		if existing.Number == r.Number {
			return errors.New("duplicate room number")
		}
	}
	v.s.nextRoom++
	r.ID = v.s.nextRoom
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	v.s.rooms[r.ID] = copyRoom(r)
	return nil
}

func (v *RoomStore) List(ctx context.Context) ([]model.Room, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := make([]model.Room, 0, len(v.s.rooms))
	for _, r := range v.s.rooms {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (v *RoomStore) GetByID(ctx context.Context, id int64) (*model.Room, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	r, ok := v.s.rooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyRoom(r), nil
}

func (v *RoomStore) UpdatePricing(ctx context.Context, id int64, basePrice float64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	r, ok := v.s.rooms[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.BasePrice = basePrice
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (v *RoomStore) LockRoom(ctx context.Context, tx *sql.Tx, id int64) (*model.Room, error) {
	r, ok := v.s.rooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyRoom(r), nil
}

func (v *RoomStore) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RoomStatus) error {
	r, ok := v.s.rooms[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (v *RoomStore) HasOverlap(ctx context.Context, tx *sql.Tx, roomID int64, checkIn, checkOut time.Time, excludeReservationID int64) (bool, error) {
	return v.s.hasOverlap(roomID, checkIn, checkOut, excludeReservationID), nil
}

func (s *Store) hasOverlap(roomID int64, checkIn, checkOut time.Time, excludeReservationID int64) bool {
	for _, res := range s.reservations {
		if res.ID == excludeReservationID || !blocking(res.Status) {
			continue
		}
		for _, id := range res.RoomIDs {
			if id == roomID && spansOverlap(res.CheckInDate, res.CheckOutDate, checkIn, checkOut) {
				return true
			}
		}
	}
	return false
}

func (v *RoomStore) ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]model.Room, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	var out []model.Room
	for _, r := range v.s.rooms {
		if r.Status != model.RoomAvailable {
			continue
		}
		if !v.s.hasOverlap(r.ID, checkIn, checkOut, 0) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (v *RoomStore) RecountOccupancy(ctx context.Context, tx *sql.Tx, roomID int64) (int, error) {
	r, ok := v.s.rooms[roomID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	n := 0
	for _, res := range v.s.reservations {
		if res.Status != model.ReservationCheckedIn {
			continue
		}
		for _, id := range res.RoomIDs {
			if id == roomID {
				n++
			}
		}
	}
	r.CurrentOccupancy = n
	r.UpdatedAt = time.Now().UTC()
	return n, nil
}

// ----- guests -----

type GuestStore struct{ s *Store }

func (v *GuestStore) Upsert(ctx context.Context, tx *sql.Tx, g *model.Guest) error {
	now := time.Now().UTC()
	if id, ok := v.s.guestsByDoc[g.IDNumber]; ok {
		existing := v.s.guests[id]
		existing.FirstName = g.FirstName
		existing.LastName = g.LastName
		existing.Email = g.Email
		existing.Phone = g.Phone
		existing.UpdatedAt = now
		*g = *existing
		return nil
	}
	v.s.nextGuest++
	g.ID = v.s.nextGuest
	g.CreatedAt = now
	g.UpdatedAt = now
	c := *g
	v.s.guests[g.ID] = &c
	v.s.guestsByDoc[g.IDNumber] = g.ID
	return nil
}

func (v *GuestStore) GetByID(ctx context.Context, id int64) (*model.Guest, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	g, ok := v.s.guests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *g
	return &c, nil
}

func (v *GuestStore) List(ctx context.Context, search string, limit, offset int) ([]model.Guest, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	needle := strings.ToLower(search)
	var out []model.Guest
	for _, g := range v.s.guests {
		if needle != "" &&
			!strings.Contains(strings.ToLower(g.FirstName), needle) &&
			!strings.Contains(strings.ToLower(g.LastName), needle) &&
			!strings.Contains(strings.ToLower(g.IDNumber), needle) {
			continue
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ----- reservations -----

type ReservationStore struct{ s *Store }

// fill resolves the joined guest and room columns the SQL queries return.
func (s *Store) fill(res *model.Reservation) *model.Reservation {
	c := *res
	c.RoomIDs = append([]int64(nil), res.RoomIDs...)
	c.RoomNumbers = nil
	c.RoomTypes = nil
	for _, id := range c.RoomIDs {
		if r, ok := s.rooms[id]; ok {
			c.RoomNumbers = append(c.RoomNumbers, r.Number)
			c.RoomTypes = append(c.RoomTypes, r.Type)
		}
	}
	if g, ok := s.guests[c.GuestID]; ok {
		c.Guest = *g
	}
	return &c
}

func (v *ReservationStore) Insert(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	now := time.Now().UTC()
	v.s.nextRes++
	res.ID = v.s.nextRes
	res.CreatedAt = now
	res.UpdatedAt = now
	c := *res
	c.RoomIDs = append([]int64(nil), res.RoomIDs...)
	v.s.reservations[res.ID] = &c
	return nil
}

func (v *ReservationStore) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	res, ok := v.s.reservations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return v.s.fill(res), nil
}

func (v *ReservationStore) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*reservationrepo.StatusRow, error) {
	res, ok := v.s.reservations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &reservationrepo.StatusRow{
		ID:            res.ID,
		Status:        res.Status,
		CheckInDate:   res.CheckInDate,
		CheckOutDate:  res.CheckOutDate,
		TotalAmount:   res.TotalAmount,
		PaidAmount:    res.PaidAmount,
		PaymentStatus: res.PaymentStatus,
		RoomIDs:       append([]int64(nil), res.RoomIDs...),
	}, nil
}

func (v *ReservationStore) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ReservationStatus) error {
	res, ok := v.s.reservations[id]
	if !ok {
		return sql.ErrNoRows
	}
	res.Status = status
	res.UpdatedAt = time.Now().UTC()
	return nil
}

func (v *ReservationStore) AppendNote(ctx context.Context, tx *sql.Tx, id int64, note string) error {
	res, ok := v.s.reservations[id]
	if !ok {
		return sql.ErrNoRows
	}
	if res.Notes == nil || *res.Notes == "" {
		res.Notes = &note
	} else {
		joined := *res.Notes + "\n" + note
		res.Notes = &joined
	}
	res.UpdatedAt = time.Now().UTC()
	return nil
}

func (v *ReservationStore) SetPaymentIntent(ctx context.Context, id int64, intentID string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	res, ok := v.s.reservations[id]
	if !ok {
		return sql.ErrNoRows
	}
	res.PaymentIntentID = &intentID
	res.UpdatedAt = time.Now().UTC()
	return nil
}

func (v *ReservationStore) FindByPaymentIntent(ctx context.Context, intentID string) (*model.Reservation, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, res := range v.s.reservations {
		if res.PaymentIntentID != nil && *res.PaymentIntentID == intentID {
			return v.s.fill(res), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *Store) listWhere(keep func(*model.Reservation) bool) []model.Reservation {
	var out []model.Reservation
	for _, res := range s.reservations {
		if keep(res) {
			out = append(out, *s.fill(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (v *ReservationStore) List(ctx context.Context, status model.ReservationStatus, limit, offset int) ([]model.Reservation, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := v.s.listWhere(func(r *model.Reservation) bool {
		return status == "" || r.Status == status
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (v *ReservationStore) CheckInsOn(ctx context.Context, day time.Time) ([]model.Reservation, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.listWhere(func(r *model.Reservation) bool {
		return r.Status == model.ReservationConfirmed && sameDay(r.CheckInDate, day)
	}), nil
}

func (v *ReservationStore) CheckOutsOn(ctx context.Context, day time.Time) ([]model.Reservation, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.listWhere(func(r *model.Reservation) bool {
		return r.Status == model.ReservationCheckedIn && sameDay(r.CheckOutDate, day)
	}), nil
}

func (v *ReservationStore) Active(ctx context.Context) ([]model.Reservation, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.listWhere(func(r *model.Reservation) bool {
		return r.Status == model.ReservationConfirmed || r.Status == model.ReservationCheckedIn
	}), nil
}

func (v *ReservationStore) ByDateRange(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.listWhere(func(r *model.Reservation) bool {
		return spansOverlap(r.CheckInDate, r.CheckOutDate, from, to)
	}), nil
}

func (v *ReservationStore) MarkNoShows(ctx context.Context, today time.Time) (int64, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	var n int64
	for _, res := range v.s.reservations {
		if (res.Status == model.ReservationPending || res.Status == model.ReservationConfirmed) &&
			beforeDay(res.CheckInDate, today) {
			res.Status = model.ReservationNoShow
			res.UpdatedAt = time.Now().UTC()
			n++
		}
	}
	return n, nil
}

// ----- payments ledger -----

type LedgerStore struct{ s *Store }

func (v *LedgerStore) InsertPayment(ctx context.Context, tx *sql.Tx, reservationID int64, amount float64, method model.PaymentMethod, intentID *string) (int64, error) {
	if _, ok := v.s.reservations[reservationID]; !ok {
		return 0, sql.ErrNoRows
	}
	v.s.nextPay++
	v.s.payments = append(v.s.payments, model.Payment{
		ID:              v.s.nextPay,
		ReservationID:   reservationID,
		Amount:          amount,
		Method:          method,
		PaymentIntentID: intentID,
		CreatedAt:       time.Now().UTC(),
	})
	return v.s.nextPay, nil
}

func (v *LedgerStore) ApplyAmounts(ctx context.Context, tx *sql.Tx, reservationID int64, paidAmount float64, status model.PaymentStatus) error {
	res, ok := v.s.reservations[reservationID]
	if !ok {
		return sql.ErrNoRows
	}
	res.PaidAmount = paidAmount
	res.PaymentStatus = status
	res.UpdatedAt = time.Now().UTC()
	return nil
}

func (v *LedgerStore) ListByReservation(ctx context.Context, reservationID int64) ([]model.Payment, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	var out []model.Payment
	for i := len(v.s.payments) - 1; i >= 0; i-- {
		if v.s.payments[i].ReservationID == reservationID {
			out = append(out, v.s.payments[i])
		}
	}
	return out, nil
}

func (v *LedgerStore) HasIntent(ctx context.Context, reservationID int64, intentID string) (bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, p := range v.s.payments {
		if p.ReservationID == reservationID && p.Amount > 0 &&
			p.PaymentIntentID != nil && *p.PaymentIntentID == intentID {
			return true, nil
		}
	}
	return false, nil
}
