package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

// ContentSource wraps a FactGenerator so that every failure degrades to an
// empty result.
type ContentSource struct {
	generator FactGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewContentSource creates a ContentSource. A zero timeout means no deadline
// beyond the caller's context.
func NewContentSource(generator FactGenerator, timeout time.Duration, logger *zap.Logger) *ContentSource {
	return &ContentSource{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// ByLevel asks for count new facts of a level, none of them in excludeIDs.
func (c *ContentSource) ByLevel(ctx context.Context, level entities.Level, count int, excludeIDs []string) []entities.Fact {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	facts, err := c.generator.GenerateByLevel(ctx, level, count, excludeIDs)
	if err != nil {
		c.logger.Warn("failed to generate facts by level",
			zap.String("level", string(level)),
			zap.Int("count", count),
			zap.Error(err),
		)
		return nil
	}
	return facts
}

// ByIDs asks for the full content of the given fact ids.
func (c *ContentSource) ByIDs(ctx context.Context, ids []string) []entities.Fact {
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	facts, err := c.generator.GenerateByIDs(ctx, ids)
	if err != nil {
		c.logger.Warn("failed to generate facts by ids",
			zap.Int("requested", len(ids)),
			zap.Error(err),
		)
		return nil
	}
	return facts
}

func (c *ContentSource) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
