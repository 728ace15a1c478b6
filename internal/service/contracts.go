package service

import (
	"context"
	"time"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

// FactGenerator produces vocabulary content. Implementations may fail; the
// session treats any failure as "nothing available".
type FactGenerator interface {
	GenerateByLevel(ctx context.Context, level entities.Level, count int, excludeIDs []string) ([]entities.Fact, error)
	GenerateByIDs(ctx context.Context, ids []string) ([]entities.Fact, error)
}

// StateRepository loads and saves the scheduler state of named identities.
type StateRepository interface {
	Load(ctx context.Context, name string, asOf time.Time) (*entities.SchedulerState, error)
	Save(ctx context.Context, name string, state *entities.SchedulerState) error
	Delete(ctx context.Context, name string) error
}

// StateLister enumerates the identities that have a stored state.
type StateLister interface {
	StateRepository
	Identities(ctx context.Context) ([]string, error)
}

// ReminderNotifier tells a learner that reviews are waiting.
type ReminderNotifier interface {
	NotifyDue(ctx context.Context, identity string, due int) error
}
