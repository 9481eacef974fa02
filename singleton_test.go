package amplitude

import (
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amplitude/go-client-sdk/ampcomponents"
)

// The shared instance persists for the life of the test process, so all singleton behavior is
// verified in one test. NoEvents keeps the shared instance from ever touching the network.
func TestSharedInstance(t *testing.T) {
	require.NoError(t, InitializeWithConfig("singleton-key", Config{
		Events:  ampcomponents.NoEvents(),
		Logging: ampcomponents.NoLogging(),
	}))
	client := Instance()
	require.NotNil(t, client)
	assert.Equal(t, "singleton-key", client.APIKey())

	// Re-initializing is a no-op.
	require.NoError(t, Initialize("other-key"))
	assert.Equal(t, "singleton-key", Instance().APIKey())

	// The package-level wrappers forward to the shared instance.
	assert.NoError(t, LogEvent("app_open"))
	assert.NoError(t, LogEventWithProperties("purchase", ldvalue.ObjectBuild().Build()))
	assert.NoError(t, LogRevenue(3.99))
	assert.NoError(t, LogRevenuePurchase("sku-1", 1, 3.99, nil))
	assert.NoError(t, SetUserProperties(ldvalue.ObjectBuild().Build()))

	SetUserID("user-1")
	assert.Equal(t, "user-1", Instance().UserID())

	SetOptOut(true)
	assert.True(t, Instance().OptOut())
	SetOptOut(false)

	assert.NotEmpty(t, DeviceID())
	UploadEvents()
	assert.True(t, UploadEventsBlocking(time.Second))
	PrintEventsCount()
}
