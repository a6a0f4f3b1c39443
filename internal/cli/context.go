package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/tasklog/tasklog/internal/eventlog"
	"github.com/tasklog/tasklog/internal/langgate"
	"github.com/tasklog/tasklog/internal/project"
	"github.com/tasklog/tasklog/internal/projection"
	"github.com/tasklog/tasklog/internal/tracker"
	"github.com/tasklog/tasklog/pkg/color"
	"github.com/tasklog/tasklog/pkg/config"
	"github.com/tasklog/tasklog/pkg/errclass"
	"github.com/tasklog/tasklog/pkg/logging"
)

// appContext holds the handles one invocation works with.
type appContext struct {
	cfg     *config.Config
	log     *eventlog.Log
	proj    *projection.Projector
	langs   *langgate.Store
	tracker *tracker.Tracker
	project string
}

// loadConfig reads configuration and applies its logging and color settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.Logging.Level))
	logger.SetFormat(logging.ParseFormat(cfg.Logging.Format))
	if debugOutput {
		logger.SetLevel(logging.LevelDebug)
	}
	logging.SetGlobal(logger)

	if !cfg.Output.Color {
		color.Disable()
	}
	logging.Debug("config loaded", map[string]any{"file": cfg.File, "log": cfg.Log.Path})
	return cfg, nil
}

// requireContext builds the log, projector and write path for the current
// project.
func requireContext() (*appContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	scope := projectFlag
	if scope == "" {
		scope = project.Resolve("")
	}

	log := eventlog.New(cfg.Log.Path)
	proj := projection.New(log)
	langs := langgate.NewStore(cfg.Lang.Path)

	return &appContext{
		cfg:   cfg,
		log:   log,
		proj:  proj,
		langs: langs,
		tracker: tracker.New(log, proj, tracker.Options{
			Limits: limitsFrom(cfg),
			Gate:   langgate.Gate{Store: langs, Project: scope},
		}),
		project: scope,
	}, nil
}

func limitsFrom(cfg *config.Config) tracker.Limits {
	return tracker.Limits{
		Title:       cfg.Limits.Title,
		Description: cfg.Limits.Description,
		Note:        cfg.Limits.Note,
	}
}

func fmtErr(format string, args ...any) {
	prefix := "Error: "
	if color.Enabled() {
		prefix = color.Error("Error:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}

// userMessage strips the error class code for display.
func userMessage(err error) string {
	var te *errclass.TaskError
	if errors.As(err, &te) && te.Message != "" && err.Error() == te.Error() {
		return te.Message
	}
	return err.Error()
}
