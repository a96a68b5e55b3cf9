package util

import (
	"io"
	"os"

	"github.com/cubefs/cubefs/blobstore/util/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileConfig enables a rotated log file when Filename is set.
type LogFileConfig struct {
	Filename   string `json:"filename" mapstructure:"filename"`
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `json:"compress" mapstructure:"compress"`
	NoTerminal bool   `json:"no_terminal" mapstructure:"no_terminal"`
}

// SetupLogOutput redirects the process log according to cfg. The returned
// closer flushes the log file, it is a no-op without one.
func SetupLogOutput(cfg LogFileConfig) io.Closer {
	if cfg.Filename == "" {
		return nopCloser{}
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	if cfg.NoTerminal {
		log.SetOutput(fileWriter)
	} else {
		log.SetOutput(io.MultiWriter(os.Stderr, fileWriter))
	}
	return fileWriter
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
