package reservation

import (
	"context"
	"time"

	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

// Sweeper flips stale pending/confirmed reservations past their check-in
// date to no_show. Wired to a cron schedule in main.
type Sweeper interface {
	MarkNoShows(ctx context.Context) (int64, error)
}

type sweeper struct {
	r   Repo
	loc *time.Location
	now func() time.Time
}

func NewSweeper(r Repo, loc *time.Location) Sweeper {
	if loc == nil {
		loc = time.UTC
	}
	return &sweeper{r: r, loc: loc, now: time.Now}
}

func (c *sweeper) MarkNoShows(ctx context.Context) (int64, error) {
	return c.r.MarkNoShows(ctx, dates.Today(c.now(), c.loc))
}
