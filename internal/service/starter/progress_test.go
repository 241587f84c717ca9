package starter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/app-starter/internal/fetcher"
	"github.com/oshokin/app-starter/internal/logger"
)

// TestProgressLogger logs only when a step boundary is crossed.
func TestProgressLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core).Sugar())

	report := progressLogger(ctx)
	for loaded := int64(1); loaded <= 100; loaded++ {
		report(loaded, 100)
	}

	// 0% .. 100% in steps of 10.
	require.Equal(t, 11, logs.Len())

	core, logs = observer.New(zapcore.InfoLevel)
	ctx = logger.ToContext(context.Background(), zap.New(core).Sugar())

	report = progressLogger(ctx)
	report(10, fetcher.UnknownTotal)
	report(20, fetcher.UnknownTotal)
	report(unknownSizeStep+1, fetcher.UnknownTotal)

	require.Equal(t, 2, logs.Len())
}
