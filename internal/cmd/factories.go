package cmd

import (
	"ponte/internal/adapters/askbridge"
	"ponte/internal/adapters/claude"
	adaptersound "ponte/internal/adapters/sound"
	"ponte/internal/adapters/storage"
	"ponte/internal/config"
	"ponte/internal/ports"
	"ponte/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	Bridge         ports.AskBridge
	Engine         *services.Engine
	SessionService *services.SessionService
	Settings       *config.Settings
	Sound          ports.SoundPlayer
	StatsService   *services.StatsService

	// Internal - for cleanup only
	archive ports.QueryArchive
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(settings *config.Settings) (*Container, error) {
	archive, err := storage.NewSQLiteArchive(config.GetDBPath())
	if err != nil {
		return nil, err
	}

	bridge := askbridge.New(config.GetAskDir())
	history := storage.NewHistoryFile(config.GetHistoryPath())
	launcher := claude.NewSupervisor(settings)
	soundPlayer := adaptersound.NewPlayer()

	sessionService := services.NewSessionService(history)
	engine := services.NewEngine(launcher, bridge, sessionService, archive, soundPlayer, settings)
	statsService := services.NewStatsService(archive)

	return &Container{
		Bridge:         bridge,
		Engine:         engine,
		SessionService: sessionService,
		Settings:       settings,
		Sound:          soundPlayer,
		StatsService:   statsService,
		archive:        archive,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.archive != nil {
		return c.archive.Close()
	}
	return nil
}
