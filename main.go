package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/JAZoidberg/SageTeamY/internal/alert"
	"github.com/JAZoidberg/SageTeamY/internal/compose"
	"github.com/JAZoidberg/SageTeamY/internal/config"
	"github.com/JAZoidberg/SageTeamY/internal/database"
	"github.com/JAZoidberg/SageTeamY/internal/discord"
	"github.com/JAZoidberg/SageTeamY/internal/dispatcher"
	"github.com/JAZoidberg/SageTeamY/internal/email"
	"github.com/JAZoidberg/SageTeamY/internal/geocode"
	"github.com/JAZoidberg/SageTeamY/internal/jobsearch"
	"github.com/JAZoidberg/SageTeamY/internal/preference"
	"github.com/JAZoidberg/SageTeamY/internal/reminder"
	"github.com/JAZoidberg/SageTeamY/internal/server"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	if err := raven.SetDSN(cfg.SentryDSN); err != nil {
		log.Fatalf("unable to configure error tracking: %v", err)
	}
	conn, err := database.GetDbConn(
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)

	emailClient, err := email.NewClient(cfg.EmailAPIKey, cfg.NoReplyEmail, cfg.SiteName)
	if err != nil {
		log.Fatalf("unable to create email client: %v", err)
	}

	listingCache, err := jobsearch.NewCache(cfg.ListingCacheTTL)
	if err != nil {
		log.Fatalf("unable to initialise listing cache: %v", err)
	}
	sessions, err := compose.NewSessions(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("unable to initialise session store: %v", err)
	}

	prefs := preference.NewRepository(conn)
	rems := reminder.NewRepository(conn)
	search := jobsearch.NewClient(
		cfg.AdzunaAppID,
		cfg.AdzunaAppKey,
		cfg.AdzunaBaseURL,
		cfg.AdzunaResultsPerPage,
		cfg.DefaultCity,
		cfg.DefaultJobType,
		cfg.DefaultDistanceMiles,
		listingCache,
	)
	geo := geocode.NewClient(cfg.GeocodeAPIKey, cfg.GeocodeBaseURL)
	alerts := alert.NewService(prefs, search, geo, logger)

	bot, err := discord.NewBot(cfg, prefs, rems, alerts, sessions, logger)
	if err != nil {
		log.Fatalf("unable to create discord bot: %v", err)
	}
	if err := bot.Open(); err != nil {
		log.Fatalf("unable to open discord session: %v", err)
	}
	defer bot.Close()
	logger.Info().Msg("discord session open, commands registered")

	disp := dispatcher.New(rems, bot, alerts, emailClient, cfg.DispatchInterval, cfg.ClaimTimeout, logger)
	if err := disp.Start(); err != nil {
		log.Fatalf("unable to start reminder dispatcher: %v", err)
	}
	defer disp.Stop()

	svr := server.NewServer(cfg, conn, mux.NewRouter(), rems, logger)
	svr.RegisterRoutes()
	go func() {
		if err := svr.Run(); err != nil {
			logger.Error().Err(err).Msg("ops server stopped")
		}
	}()
	logger.Info().Str("port", cfg.Port).Msg("ops server listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down")
}
