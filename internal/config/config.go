package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	Port             string
	DatabaseUser     string
	DatabasePassword string
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseSSLMode  string
	Env              string // either prod or dev

	DiscordToken    string // bot token used to open the gateway session
	DiscordAppID    string
	DiscordGuildID  string // guild the slash commands are registered against
	NotifyChannelID string // public channel where reminders and DM fallbacks are posted

	AdzunaAppID          string
	AdzunaAppKey         string
	AdzunaBaseURL        string
	AdzunaResultsPerPage int

	GeocodeAPIKey  string
	GeocodeBaseURL string

	EmailAPIKey  string
	NoReplyEmail string
	SiteName     string

	MachineToken string // protects the internal ops endpoints
	SentryDSN    string

	DispatchInterval     time.Duration // how often the reminder loop ticks
	ClaimTimeout         time.Duration // reminders stuck in dispatching longer than this get re-queued
	ListingCacheTTL      time.Duration
	SessionTTL           time.Duration // interactive pagination/flow session lifetime
	DefaultCity          string
	DefaultJobType       string
	DefaultDistanceMiles int
}

func LoadConfig() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseUser := os.Getenv("DATABASE_USER")
	if databaseUser == "" {
		return Config{}, fmt.Errorf("DATABASE_USER cannot be empty")
	}
	databasePassword := os.Getenv("DATABASE_PASSWORD")
	if databasePassword == "" {
		return Config{}, fmt.Errorf("DATABASE_PASSWORD cannot be empty")
	}
	databaseHost := os.Getenv("DATABASE_HOST")
	if databaseHost == "" {
		return Config{}, fmt.Errorf("DATABASE_HOST cannot be empty")
	}
	databasePort := os.Getenv("DATABASE_PORT")
	if databasePort == "" {
		return Config{}, fmt.Errorf("DATABASE_PORT cannot be empty")
	}
	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		return Config{}, fmt.Errorf("DATABASE_NAME cannot be empty")
	}
	databaseSSLMode := os.Getenv("DATABASE_SSL_MODE")
	if databaseSSLMode == "" {
		return Config{}, fmt.Errorf("DATABASE_SSL_MODE cannot be empty")
	}
	env := os.Getenv("ENV")
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken == "" {
		return Config{}, fmt.Errorf("DISCORD_TOKEN cannot be empty")
	}
	discordAppID := os.Getenv("DISCORD_APP_ID")
	if discordAppID == "" {
		return Config{}, fmt.Errorf("DISCORD_APP_ID cannot be empty")
	}
	discordGuildID := os.Getenv("DISCORD_GUILD_ID")
	notifyChannelID := os.Getenv("NOTIFY_CHANNEL_ID")
	if notifyChannelID == "" {
		return Config{}, fmt.Errorf("NOTIFY_CHANNEL_ID cannot be empty")
	}
	adzunaAppID := os.Getenv("ADZUNA_APP_ID")
	if adzunaAppID == "" {
		return Config{}, fmt.Errorf("ADZUNA_APP_ID cannot be empty")
	}
	adzunaAppKey := os.Getenv("ADZUNA_APP_KEY")
	if adzunaAppKey == "" {
		return Config{}, fmt.Errorf("ADZUNA_APP_KEY cannot be empty")
	}
	adzunaBaseURL := os.Getenv("ADZUNA_BASE_URL")
	if adzunaBaseURL == "" {
		adzunaBaseURL = "https://api.adzuna.com/v1/api/jobs/us"
	}
	adzunaResultsPerPage := 15
	if resultsStr := os.Getenv("ADZUNA_RESULTS_PER_PAGE"); resultsStr != "" {
		var err error
		adzunaResultsPerPage, err = strconv.Atoi(resultsStr)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to parse ADZUNA_RESULTS_PER_PAGE")
		}
	}
	geocodeAPIKey := os.Getenv("GEOCODE_API_KEY")
	if geocodeAPIKey == "" {
		return Config{}, fmt.Errorf("GEOCODE_API_KEY cannot be empty")
	}
	geocodeBaseURL := os.Getenv("GEOCODE_BASE_URL")
	if geocodeBaseURL == "" {
		geocodeBaseURL = "https://maps.google.com/maps/api/geocode/json"
	}
	emailAPIKey := os.Getenv("EMAIL_API_KEY")
	if emailAPIKey == "" {
		return Config{}, fmt.Errorf("EMAIL_API_KEY cannot be empty")
	}
	noReplyEmail := os.Getenv("NO_REPLY_EMAIL")
	if noReplyEmail == "" {
		return Config{}, fmt.Errorf("NO_REPLY_EMAIL cannot be empty")
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		siteName = "SageTeamY"
	}
	machineToken := os.Getenv("MACHINE_TOKEN")
	if machineToken == "" {
		return Config{}, fmt.Errorf("MACHINE_TOKEN cannot be empty")
	}
	sentryDSN := os.Getenv("SENTRY_DSN")
	if sentryDSN == "" {
		return Config{}, fmt.Errorf("SENTRY_DSN cannot be empty")
	}
	dispatchInterval, err := durationFromEnv("DISPATCH_INTERVAL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	claimTimeout, err := durationFromEnv("CLAIM_TIMEOUT", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	listingCacheTTL, err := durationFromEnv("LISTING_CACHE_TTL", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}
	sessionTTL, err := durationFromEnv("SESSION_TTL", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:                 port,
		DatabaseUser:         databaseUser,
		DatabasePassword:     databasePassword,
		DatabaseHost:         databaseHost,
		DatabasePort:         databasePort,
		DatabaseName:         databaseName,
		DatabaseSSLMode:      databaseSSLMode,
		Env:                  env,
		DiscordToken:         discordToken,
		DiscordAppID:         discordAppID,
		DiscordGuildID:       discordGuildID,
		NotifyChannelID:      notifyChannelID,
		AdzunaAppID:          adzunaAppID,
		AdzunaAppKey:         adzunaAppKey,
		AdzunaBaseURL:        adzunaBaseURL,
		AdzunaResultsPerPage: adzunaResultsPerPage,
		GeocodeAPIKey:        geocodeAPIKey,
		GeocodeBaseURL:       geocodeBaseURL,
		EmailAPIKey:          emailAPIKey,
		NoReplyEmail:         noReplyEmail,
		SiteName:             siteName,
		MachineToken:         machineToken,
		SentryDSN:            sentryDSN,
		DispatchInterval:     dispatchInterval,
		ClaimTimeout:         claimTimeout,
		ListingCacheTTL:      listingCacheTTL,
		SessionTTL:           sessionTTL,
		DefaultCity:          "newark",
		DefaultJobType:       "full-time",
		DefaultDistanceMiles: 10,
	}, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to parse %s", key)
	}
	return d, nil
}
