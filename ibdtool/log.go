// Package ibdtool is the CLI surface: cobra subcommands, structured
// logging setup, and colour-highlighted output. None of the core ibd*
// decoder packages import this package or its dependencies; it is a
// collaborator, not part of the on-disk decoder (spec.md §1).
package ibdtool

import "go.uber.org/zap"

var logger *zap.SugaredLogger

// InitLogger builds the package-level structured logger, verbose when
// asked. Forensic warnings (checksum mismatches, bad magic, corrupt
// record chains) are logged at Warn and never treated as fatal by
// themselves, mirroring the teacher's "collect and keep enumerating" style.
func InitLogger(verbose bool) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.TimeKey = ""
	}
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

// Log returns the package-level logger, initializing a quiet default if
// InitLogger has not been called yet.
func Log() *zap.SugaredLogger {
	if logger == nil {
		InitLogger(false)
	}
	return logger
}
