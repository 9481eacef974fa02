package ampcomponents

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
)

func TestLoggingCustomLoggers(t *testing.T) {
	mockLog := ldlogtest.NewMockLog()
	loggers := Logging().Loggers(mockLog.Loggers).CreateLoggers()
	loggers.Info("hello")
	mockLog.AssertMessageMatch(t, true, ldlog.Info, "hello")
}

func TestLoggingMinLevelSuppressesLowerLevels(t *testing.T) {
	mockLog := ldlogtest.NewMockLog()
	loggers := Logging().Loggers(mockLog.Loggers).MinLevel(ldlog.Warn).CreateLoggers()
	loggers.Info("quiet")
	loggers.Warn("loud")
	mockLog.AssertMessageMatch(t, false, ldlog.Info, "quiet")
	mockLog.AssertMessageMatch(t, true, ldlog.Warn, "loud")
}
