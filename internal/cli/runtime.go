package cli

import (
	"shift-tracker/internal/api"
	"shift-tracker/internal/clock"
	"shift-tracker/internal/config"
	"shift-tracker/internal/notify"
	"shift-tracker/internal/repository/sqlite"
	"shift-tracker/internal/services"

	"github.com/rs/zerolog"
)

// Runtime is the fully wired application behind every command
type Runtime struct {
	Config   *config.Config
	Log      zerolog.Logger
	Clock    clock.Clock
	Repo     sqlite.Repository
	Services *services.ServiceContainer
	API      api.BusinessAPI
}

// NewRuntime opens the configured database and wires the services over it.
// Notifications go to the in-app inbox and to the log.
func NewRuntime(cfg *config.Config, log zerolog.Logger) (*Runtime, error) {
	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, err
	}

	clk := clock.System{}
	container := services.NewServiceContainer(services.Dependencies{
		Repo:  repo,
		Clock: clk,
		Sink: notify.MultiSink{
			notify.NewStoreSink(repo, clk),
			notify.NewLogSink(log),
		},
		Policy: services.Policy{
			DefaultCapMinutes: cfg.Shift.DefaultCapMinutes,
			WarningBand:       cfg.Shift.WarningBand,
		},
		Config: cfg,
		Logger: log,
	})

	return &Runtime{
		Config:   cfg,
		Log:      log,
		Clock:    clk,
		Repo:     repo,
		Services: container,
		API:      api.NewBusinessAPI(container, clk),
	}, nil
}

// Close releases the database
func (r *Runtime) Close() error {
	return r.Repo.Close()
}
