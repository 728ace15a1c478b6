package main

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/amagambo-bot/internal/delivery/telegram"
	"github.com/aliskhannn/amagambo-bot/internal/service"
	"github.com/aliskhannn/amagambo-bot/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Telegram bot",
	RunE:  runBot,
}

var botCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "learn", Description: "Learn new words (/learn basic)"},
	{Command: "review", Description: "Review words due today"},
	{Command: "progress", Description: "Show progress"},
	{Command: "guest", Description: "Practice without saving"},
	{Command: "profile", Description: "Back to your own profile"},
	{Command: "cancel", Description: "Stop the current session"},
	{Command: "reset", Description: "Forget everything learned so far"},
	{Command: "help", Description: "How it works"},
}

func runBot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	token, err := a.cfg.Token()
	if err != nil {
		return err
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return err
	}
	bot.Debug = a.cfg.Env != "production"

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		a.logger.Warn("failed to set bot commands", zap.Error(err))
	}
	a.logger.Info("authorized on account", zap.String("username", bot.Self.UserName))

	generator, err := a.generator(ctx)
	if err != nil {
		return err
	}

	content := service.NewContentSource(generator, a.cfg.Content.Timeout, a.logger)
	sessionCfg := service.SessionConfig{
		LearnCount:      a.cfg.Session.LearnCount,
		GuestLearnCount: a.cfg.Session.GuestLearnCount,
	}

	handler := telegram.NewHandler(bot, a.logger, func() telegram.LearningSession {
		return service.NewSession(a.scheduler, a.states, content, sessionCfg, a.logger)
	}, storage.NewReminderStorage())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.Run(gctx)
	})

	if a.cfg.Reminders.Enabled {
		reminders := service.NewReminderService(a.states, a.scheduler, a.cfg.Reminders.Spec, a.logger)
		reminders.SetNotifier(handler)
		g.Go(func() error {
			return reminders.Start(gctx)
		})
	}

	err = g.Wait()
	a.logger.Info("shutdown signal received")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
