package services

import (
	"shift-tracker/internal/clock"
	"shift-tracker/internal/config"
	"shift-tracker/internal/notify"
	"shift-tracker/internal/repository/sqlite"

	"github.com/rs/zerolog"
)

// Dependencies are the collaborators shared by all services.
type Dependencies struct {
	Repo   sqlite.Repository
	Clock  clock.Clock
	Sink   notify.Sink
	Policy Policy
	// Config supplies validation limits; nil uses the defaults.
	Config *config.Config
	Logger zerolog.Logger
}

// NewServiceContainer wires every service over deps. Zero-valued optional
// dependencies fall back to the system clock, the default policy and a
// log-only sink.
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Policy.DefaultCapMinutes <= 0 {
		deps.Policy.DefaultCapMinutes = DefaultPolicy().DefaultCapMinutes
	}
	if deps.Policy.WarningBand <= 0 {
		deps.Policy.WarningBand = DefaultPolicy().WarningBand
	}
	if deps.Sink == nil {
		deps.Sink = notify.NewLogSink(deps.Logger)
	}

	notifier := NewNotifier(deps.Repo, deps.Sink, deps.Logger)

	return &ServiceContainer{
		ShiftService:        NewShiftService(deps, notifier),
		CapService:          NewCapService(deps, notifier),
		CorrectionService:   NewCorrectionService(deps, notifier),
		ReportingService:    NewReportingService(deps),
		UserService:         NewUserService(deps),
		NotificationService: NewNotificationService(deps),
	}
}
