package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/amagambo-bot/internal/repository"
	"github.com/aliskhannn/amagambo-bot/internal/srs"
)

const (
	DefaultReminderSpec = "0 9 * * *"

	maxConcurrentReminders = 10
)

// ReminderService tells learners with due reviews that cards are waiting.
type ReminderService struct {
	states    StateLister
	scheduler *srs.Scheduler
	notifier  ReminderNotifier
	spec      string
	logger    *zap.Logger
}

// NewReminderService creates a new reminder service. An empty spec falls back
// to DefaultReminderSpec.
func NewReminderService(
	states StateLister,
	scheduler *srs.Scheduler,
	spec string,
	logger *zap.Logger,
) *ReminderService {
	if spec == "" {
		spec = DefaultReminderSpec
	}
	return &ReminderService{
		states:    states,
		scheduler: scheduler,
		spec:      spec,
		logger:    logger,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the reminder schedule until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.scheduler.Location()))

	_, err := c.AddFunc(s.spec, func() {
		s.logger.Info("cron triggered: processing due reminders")
		sent, err := s.SendDueReminders(ctx)
		if err != nil {
			s.logger.Error("failed to send due reminders", zap.Error(err))
			return
		}
		s.logger.Info("due reminders processed", zap.Int("total_sent", sent))
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", s.spec, err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("spec", s.spec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// SendDueReminders notifies every stored identity that has at least one
// review due today and returns how many notifications went out. A failure
// for one identity does not stop the others.
func (s *ReminderService) SendDueReminders(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, errors.New("notifier not initialized")
	}

	names, err := s.states.Identities(ctx)
	if err != nil {
		return 0, fmt.Errorf("list identities: %w", err)
	}

	var sent atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReminders)

	for _, name := range names {
		g.Go(func() error {
			ok, err := s.remind(gctx, name)
			if err != nil {
				s.logger.Error("failed to process reminder",
					zap.String("identity", name),
					zap.Error(err),
				)
				return nil
			}
			if ok {
				sent.Add(1)
			}
			return nil
		})
	}

	_ = g.Wait()
	return int(sent.Load()), ctx.Err()
}

func (s *ReminderService) remind(ctx context.Context, name string) (bool, error) {
	state, err := s.states.Load(ctx, name, s.scheduler.Today())
	if err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load state: %w", err)
	}

	due := len(s.scheduler.DueToday(state))
	if due == 0 {
		s.logger.Debug("nothing due", zap.String("identity", name))
		return false, nil
	}

	if err := s.notifier.NotifyDue(ctx, name, due); err != nil {
		return false, fmt.Errorf("notify: %w", err)
	}

	s.logger.Info("reminder sent",
		zap.String("identity", name),
		zap.Int("due", due),
	)
	return true, nil
}

// DueCount reports how many reviews the identity has due today.
func (s *ReminderService) DueCount(ctx context.Context, name string) (int, error) {
	state, err := s.states.Load(ctx, name, s.scheduler.Today())
	if err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("load state: %w", err)
	}
	return len(s.scheduler.DueToday(state)), nil
}
