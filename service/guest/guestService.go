package guestsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
)

type ErrCode string

const (
	ErrValidation ErrCode = "VALIDATION"
	ErrNotFound   ErrCode = "NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type TxRunner interface {
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type Repo interface {
	Upsert(ctx context.Context, tx *sql.Tx, g *model.Guest) error
	GetByID(ctx context.Context, id int64) (*model.Guest, error)
	List(ctx context.Context, search string, limit, offset int) ([]model.Guest, error)
}

type Service interface {
	// Create registers a guest, or refreshes the profile when the id number
	// is already on file.
	Create(ctx context.Context, g model.Guest) (*model.Guest, error)
	Detail(ctx context.Context, id int64) (*model.Guest, error)
	List(ctx context.Context, search string, limit, offset int) ([]model.Guest, error)
}

type service struct {
	db TxRunner
	r  Repo
}

func New(db TxRunner, r Repo) Service { return &service{db: db, r: r} }

func (s *service) Create(ctx context.Context, g model.Guest) (*model.Guest, error) {
	if g.FirstName == "" || g.LastName == "" || g.IDNumber == "" {
		return nil, makeErr(ErrValidation)
	}
	err := s.db.RunTx(ctx, func(tx *sql.Tx) error {
		return s.r.Upsert(ctx, tx, &g)
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Guest, error) {
	g, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return g, nil
}

func (s *service) List(ctx context.Context, search string, limit, offset int) ([]model.Guest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.r.List(ctx, search, limit, offset)
}
