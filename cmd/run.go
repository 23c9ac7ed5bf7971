package cmd

import (
	"context"
	"errors"
	"time"

	"lottocheck/bot"
	"lottocheck/config"
	"lottocheck/httpapi"

	log "github.com/sirupsen/logrus"
)

// Run starts the long-running service: HTTP API and, when configured, the
// Discord bot. It blocks until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg := config.Get()

	log.WithField("environment", cfg.Environment).Info("Starting lottocheck...")

	app, err := NewApp(ctx, cfg, AppOptions{EnableEvents: true, EnableMetrics: true})
	if err != nil {
		return err
	}
	defer app.Close()

	var server *httpapi.Server
	if cfg.HTTPAddr != "" {
		handler := httpapi.NewRouter(httpapi.NewHandler(app.Service, app.Cache, app.Latest))
		server = httpapi.NewServer(cfg.HTTPAddr, handler)
		if err := server.Start(); err != nil {
			return err
		}
	}

	var discordBot *bot.Bot
	if cfg.DiscordToken != "" {
		log.Info("Initializing Discord bot...")
		discordBot, err = bot.New(bot.Config{
			Token:   cfg.DiscordToken,
			GuildID: cfg.GuildID,
			MaxSets: cfg.MaxTicketSets,
		}, app.Service)
		if err != nil {
			if server != nil {
				_ = server.Shutdown(context.Background())
			}
			return err
		}
		log.Info("Discord bot initialized successfully")
	}

	if server == nil && discordBot == nil {
		return errors.New("nothing to run: set HTTP_ADDR or DISCORD_TOKEN")
	}

	log.Info("lottocheck is running")
	<-ctx.Done()

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if discordBot != nil {
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord bot")
		}
	}
	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Error shutting down HTTP API")
		}
	}

	log.Info("Shutdown completed")
	return nil
}
