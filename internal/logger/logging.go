package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chrisdamba/kioskorder/internal/models"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging configures the global logrus logger. With no file configured
// logs go to stderr.
func SetupLogging(conf models.LoggingConfig) error {
	level, err := parseLevel(conf.Level)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if conf.File != "" {
		out = &lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    32, // megabytes
			MaxBackups: 2,
			MaxAge:     28, // days
			Compress:   true,
		}
	}

	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		PadLevelText:    true,
		DisableColors:   conf.File != "",
		FullTimestamp:   true,
		TimestampFormat: time.DateTime,
	})
	return nil
}

func parseLevel(level string) (log.Level, error) {
	switch level {
	case "trace":
		return log.TraceLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	case "panic":
		return log.PanicLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown logging level %q", level)
	}
}
