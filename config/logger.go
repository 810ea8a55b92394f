package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"osis2html/misc"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// levelOf converts configured level name, "none" (or anything unknown)
// disables output.
func levelOf(name string) (zapcore.Level, bool) {
	switch name {
	case "debug":
		return zapcore.DebugLevel, true
	case "normal":
		return zapcore.InfoLevel, true
	}
	return zapcore.InvalidLevel, false
}

// Prepare builds program logger: console output split between stdout and
// stderr plus optional file. Debug report forces file log at debug level and
// keeps it in the report.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, error) {
	cores := conf.consoleCores()

	level, mode := conf.FileLogger.Level, conf.FileLogger.Mode
	if rpt != nil {
		level, mode = "debug", "overwrite"
	}
	fc, moved, err := fileCore(conf.FileLogger.Destination, level, mode, rpt)
	if err != nil {
		return nil, err
	}

	log := zap.New(zapcore.NewTee(append(cores, fc)...), zap.AddCaller())
	if moved != "" {
		log.Warn("Log file was redirected to new location", zap.String("location", moved))
	}
	return log.Named(misc.GetAppName()), nil
}

// consoleCores sends errors to stderr and everything below error level
// allowed by configuration to stdout.
func (conf *LoggingConfig) consoleCores() []zapcore.Core {
	lowest, ok := levelOf(conf.ConsoleLogger.Level)
	if !ok {
		return nil
	}
	stdout := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig(os.Stdout)), zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= lowest && lvl < zapcore.ErrorLevel
		}))
	stderr := zapcore.NewCore(terseErrors{zapcore.NewConsoleEncoder(consoleEncoderConfig(os.Stderr))}, zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel
		}))
	return []zapcore.Core{stdout, stderr}
}

func consoleEncoderConfig(stream *os.File) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	}
	return ec
}

// fileCore opens log file. When destination cannot be opened log goes to a
// temporary file, whose name is returned.
func fileCore(destination, level, mode string, rpt *Report) (zapcore.Core, string, error) {
	lvl, ok := levelOf(level)
	if !ok {
		return zapcore.NewNopCore(), "", nil
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if mode == "append" {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	var moved string
	f, err := os.OpenFile(destination, flags, 0644)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+".*.log"); err != nil {
			return nil, "", fmt.Errorf("unable to open log file (%s): %w", destination, err)
		}
		moved = f.Name()
	}
	rpt.Store("final.log", f.Name())

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zapcore.NewCore(enc, zapcore.Lock(f), zap.NewAtomicLevelAt(lvl)), moved, nil
}

// terseErrors drops "errorVerbose" from console output, wrapped error chains
// are already in the message.
type terseErrors struct {
	zapcore.Encoder
}

func (t terseErrors) Clone() zapcore.Encoder {
	return terseErrors{t.Encoder.Clone()}
}

func (t terseErrors) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	plain := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		if e, ok := f.Interface.(error); ok && f.Type == zapcore.ErrorType {
			f.Interface = errors.New(e.Error())
		}
		plain[i] = f
	}
	return t.Encoder.EncodeEntry(ent, plain)
}
