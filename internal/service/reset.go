package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

// Reset forgets everything the active identity has learned. The current
// session is abandoned and the stored state of a named identity is deleted.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity.Name == "" {
		return ErrNoIdentity
	}

	s.abandon()

	if !s.identity.Anonymous {
		if err := s.states.Delete(ctx, s.identity.Name); err != nil {
			s.logger.Error("failed to delete state",
				zap.String("identity", s.identity.Name),
				zap.Error(err),
			)
			return fmt.Errorf("reset progress: %w", err)
		}
	}

	s.state = entities.NewSchedulerState(s.identity.DisplayName)
	s.logger.Info("progress reset", zap.String("identity", s.identity.Name))
	return nil
}
