package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"shift-tracker/internal/scheduler"
	"shift-tracker/internal/server"
)

// shutdownGrace bounds how long in-flight requests get on shutdown
const shutdownGrace = 10 * time.Second

// ServeCommand runs the HTTP API and the periodic cap sweep until ctx ends
type ServeCommand struct {
	runtime *Runtime
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(rt *Runtime) *ServeCommand {
	return &ServeCommand{runtime: rt}
}

// Execute runs the serve command
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	cfg := c.runtime.Config
	log := c.runtime.Log

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(log)
		job := scheduler.NewCapSweepJob(c.runtime.Services.CapService, cfg.Application.Timeout, log)
		if err := sched.AddJob(cfg.Scheduler.SweepSpec, job); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		// catch up on entries that crossed their cap while nothing was running
		if err := sched.RunNow(job); err != nil {
			log.Warn().Err(err).Msg("startup cap sweep failed")
		}
	} else {
		log.Warn().Msg("cap sweep disabled; entries are only flagged on their own transitions")
	}

	srv := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            log,
		API:            c.runtime.API,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
