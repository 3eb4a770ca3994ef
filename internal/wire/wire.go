// Package wire provides dependency injection for the stride application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	cliadapter "github.com/example/stride/internal/adapters/cli"
	"github.com/example/stride/internal/adapters/notify"
	"github.com/example/stride/internal/adapters/sqlite"
	"github.com/example/stride/internal/app"
	"github.com/example/stride/internal/config"
	"github.com/example/stride/internal/db"
	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/ports/secondary"
)

var (
	evaluationService  primary.EvaluationService
	participantService primary.ParticipantService
	activityService    primary.ActivityService
	runLogService      primary.RunLogService
	once               sync.Once
)

// EvaluationService returns the singleton EvaluationService instance.
func EvaluationService() primary.EvaluationService {
	once.Do(initServices)
	return evaluationService
}

// ParticipantService returns the singleton ParticipantService instance.
func ParticipantService() primary.ParticipantService {
	once.Do(initServices)
	return participantService
}

// ActivityService returns the singleton ActivityService instance.
func ActivityService() primary.ActivityService {
	once.Do(initServices)
	return activityService
}

// RunLogService returns the singleton RunLogService instance.
func RunLogService() primary.RunLogService {
	once.Do(initServices)
	return runLogService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	participantRepo := sqlite.NewParticipantRepository(database)
	activityRepo := sqlite.NewActivityRepository(database)
	targetRepo := sqlite.NewTargetRepository(database)
	statusRepo := sqlite.NewStatusRepository(database)
	messageRepo := sqlite.NewMessageRepository(database)
	runLogRepo := sqlite.NewRunLogRepository(database)

	dispatcher := buildDispatcher()

	// Create services (primary ports implementation)
	evaluationService = app.NewEvaluationService(
		participantRepo, activityRepo, targetRepo, statusRepo,
		messageRepo, runLogRepo, dispatcher, cfg.FallbackCutoffHour)
	participantService = app.NewParticipantService(
		participantRepo, targetRepo, statusRepo, activityRepo,
		messageRepo, cfg.DefaultLanguage)
	activityService = app.NewActivityService(participantRepo, activityRepo, statusRepo)
	runLogService = app.NewRunLogService(runLogRepo)
}

// buildDispatcher selects the notification transport. With SMTP settings
// in the environment mail goes out for real; otherwise notifications are
// rendered to stdout, which is what you want on a dev machine.
func buildDispatcher() secondary.NotificationDispatcher {
	smtpCfg, err := config.LoadSMTPFromEnv()
	if err != nil {
		log.Fatalf("failed to load SMTP config: %v", err)
	}
	if smtpCfg.Enabled() {
		return notify.NewSMTPDispatcher(smtpCfg)
	}
	return notify.NewConsoleDispatcher(os.Stdout)
}

// RunAdapter returns a new RunAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func RunAdapter() *cliadapter.RunAdapter {
	return RunAdapterWithOutput(os.Stdout)
}

// RunAdapterWithOutput returns a new RunAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func RunAdapterWithOutput(out io.Writer) *cliadapter.RunAdapter {
	once.Do(initServices)
	return cliadapter.NewRunAdapter(evaluationService, out)
}

// ParticipantAdapter returns a new ParticipantAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ParticipantAdapter() *cliadapter.ParticipantAdapter {
	return ParticipantAdapterWithOutput(os.Stdout)
}

// ParticipantAdapterWithOutput returns a new ParticipantAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func ParticipantAdapterWithOutput(out io.Writer) *cliadapter.ParticipantAdapter {
	once.Do(initServices)
	return cliadapter.NewParticipantAdapter(participantService, out)
}
