package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

func TestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))

	Log(ctx, EventDecision, logger.Subject("1001"), logger.Bool("authorized", true))

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "audit", e.LoggerName)
	assert.Equal(t, EventDecision, e.Message)
	fields := e.ContextMap()
	assert.Equal(t, EventDecision, fields["event"])
	assert.Equal(t, "1001", fields["subject"])
	assert.Equal(t, true, fields["authorized"])
}
