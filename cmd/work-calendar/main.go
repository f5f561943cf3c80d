package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/work-calendar/internal/calendar"
	"github.com/username/work-calendar/internal/config"
	"github.com/username/work-calendar/pkg/dateutil"
)

var (
	configPath  string
	countryFlag string
	localeFlag  string
	formatFlag  string
	weekendFlag string

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "work-calendar",
		Short:         "Russian production calendar",
		Long:          "Classify dates as working days, short days, weekends and holidays using the xmlcalendar.ru feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					logger = initLogger(cfg.Log.Level, cmd.ErrOrStderr()) // Fallback to console
				}
			} else {
				logger = initLogger(cfg.Log.Level, cmd.ErrOrStderr())
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file path")
	flags.StringVar(&countryFlag, "country", "", "Country code, optionally with locale (ru, ru:en)")
	flags.StringVar(&localeFlag, "locale", "", "Locale of holiday names")
	flags.StringVar(&formatFlag, "format", calendar.ISODate, "Output date layout (Go time layout)")
	flags.StringVar(&weekendFlag, "weekend", "6,0", "Fallback weekend days for unpublished dates (0=Sun..6=Sat or sat,sun)")

	rootCmd.AddCommand(
		dayCmd(),
		nextCmd(),
		weekendsCmd(),
		holidaysCmd(),
		movedCmd(),
		monthCmd(),
		prefetchCmd(),
	)

	return rootCmd
}

// newWorkCalendar builds the calendar from config, with flags taking precedence
func newWorkCalendar() (*calendar.WorkCalendar, error) {
	c := cfg.Calendar

	country, locale := c.Country, c.Locale
	if countryFlag != "" {
		country, locale = countryFlag, ""
	}
	if localeFlag != "" {
		locale = localeFlag
	}

	var source calendar.Source
	if c.SourceDir != "" {
		logger.Info("Using local calendar mirror", zap.String("dir", c.SourceDir))
		source = calendar.NewDirSource(c.SourceDir, logger)
	} else {
		source = calendar.NewHTTPSource(c.SourceURL, calendar.HTTPSourceOptions{
			Timeout:  c.GetHTTPTimeout(),
			RetryMax: c.GetFetchRetries(),
		}, logger)
	}

	return calendar.New(calendar.Options{
		Country:       country,
		Locale:        locale,
		CacheFolder:   c.CacheFolder,
		CacheDuration: c.GetCacheDuration(),
		FileMode:      c.GetFileMode(),
		DirMode:       c.GetDirMode(),
		Source:        source,
		MaxLookahead:  c.MaxLookaheadDays,
	}, logger)
}

func weekendDays() ([]time.Weekday, error) {
	return dateutil.ParseWeekdays(weekendFlag)
}

func initLogger(level string, w io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapLevel,
	)

	return zap.New(core)
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	if logFile == "" {
		return nil, fmt.Errorf("log file path is empty")
	}

	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
