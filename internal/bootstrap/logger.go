package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/osse101/PhotocardBot_Go/internal/config"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// SetupLogger writes logs to stdout and a per-session file under cfg.LogDir.
// The caller must close the returned file.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateLogsDir, err)
	}

	cleanupLogs(cfg.LogDir)

	timestamp := time.Now().Format(LogFileTimestampFormat)
	logFileName := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, timestamp))

	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedOpenLogFile, err)
	}

	lc := loggerConfig(cfg)
	logger.InitLoggerWithWriter(lc, io.MultiWriter(os.Stdout, logFile))

	slog.Info(LogMsgLoggingInitialized, "level", lc.LogLevel(), "file", logFileName)
	slog.Info(LogMsgStartingPhotocardBot,
		"environment", cfg.Environment,
		"log_format", cfg.LogFormat,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"cooldown_backend", cfg.CooldownBackend,
		"event_sink", cfg.EventSink,
		"render_enabled", cfg.RenderEnabled)

	return logFile, nil
}

func loggerConfig(cfg *config.Config) logger.Config {
	env := strings.ToLower(cfg.Environment)
	return logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
		AddSource:   env == "dev" || env == "development",
	}
}

// cleanupLogs deletes the oldest session logs so that a new one still fits
// under LogFileRetentionLimit. Session names sort chronologically.
func cleanupLogs(logDir string) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var logFiles []os.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileExtension) {
			logFiles = append(logFiles, entry)
		}
	}

	if len(logFiles) < LogFileRetentionLimit {
		return
	}
	for _, old := range logFiles[:len(logFiles)-LogFileRetentionCount] {
		if err := os.Remove(filepath.Join(logDir, old.Name())); err != nil {
			fmt.Fprintf(os.Stderr, LogMsgFailedDeleteOldLog, old.Name(), err)
		}
	}
}
