package ampcomponents

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LoggingConfigurationBuilder contains methods for configuring the SDK's logging behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// ampcomponents.Logging(), change its properties with the LoggingConfigurationBuilder methods, and
// store it in Config.Logging:
//
//	config := amplitude.Config{
//	    Logging: ampcomponents.Logging().MinLevel(ldlog.Warn),
//	}
type LoggingConfigurationBuilder struct {
	loggers ldlog.Loggers
}

// Logging returns a configuration builder for the SDK's logging configuration.
//
// The default configuration has logging enabled with default settings, writing to standard error
// at level Info and above.
func Logging() *LoggingConfigurationBuilder {
	return &LoggingConfigurationBuilder{loggers: ldlog.NewDefaultLoggers()}
}

// NoLogging returns a configuration object that disables logging.
//
//	config := amplitude.Config{
//	    Logging: ampcomponents.NoLogging(),
//	}
func NoLogging() *LoggingConfigurationBuilder {
	return &LoggingConfigurationBuilder{loggers: ldlog.NewDisabledLoggers()}
}

// Loggers specifies an instance of ldlog.Loggers to use for SDK logging. The ldlog package
// contains methods for customizing the destination and level filtering of log output.
func (b *LoggingConfigurationBuilder) Loggers(loggers ldlog.Loggers) *LoggingConfigurationBuilder {
	b.loggers = loggers
	return b
}

// MinLevel specifies the minimum level for log output, where ldlog.Debug is the lowest and
// ldlog.Error is the highest. Log messages at a level lower than this will be suppressed. The
// default is ldlog.Info.
func (b *LoggingConfigurationBuilder) MinLevel(level ldlog.LogLevel) *LoggingConfigurationBuilder {
	b.loggers.SetMinLevel(level)
	return b
}

// CreateLoggers is called internally by the SDK.
func (b *LoggingConfigurationBuilder) CreateLoggers() ldlog.Loggers {
	return b.loggers
}
