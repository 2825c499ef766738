package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/askiada/go-procgraph/pkg/logger"
	"github.com/askiada/go-procgraph/pkg/pipeline"
)

func TestLevels(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name          string
		log           func(l *logger.ZapLogger, ctx context.Context)
		expectedLevel zapcore.Level
		withRunID     bool
	}{
		{name: "Debug", log: func(l *logger.ZapLogger, _ context.Context) { l.Debug("ABC") }, expectedLevel: zapcore.DebugLevel},
		{name: "Info", log: func(l *logger.ZapLogger, _ context.Context) { l.Info("ABC") }, expectedLevel: zapcore.InfoLevel},
		{name: "Warn", log: func(l *logger.ZapLogger, _ context.Context) { l.Warn("ABC") }, expectedLevel: zapcore.WarnLevel},
		{name: "Error", log: func(l *logger.ZapLogger, _ context.Context) { l.Error("ABC") }, expectedLevel: zapcore.ErrorLevel},
		{name: "DebugWithContext", log: func(l *logger.ZapLogger, ctx context.Context) { l.DebugWithContext(ctx, "ABC") }, expectedLevel: zapcore.DebugLevel, withRunID: true},
		{name: "InfoWithContext", log: func(l *logger.ZapLogger, ctx context.Context) { l.InfoWithContext(ctx, "ABC") }, expectedLevel: zapcore.InfoLevel, withRunID: true},
		{name: "WarnWithContext", log: func(l *logger.ZapLogger, ctx context.Context) { l.WarnWithContext(ctx, "ABC") }, expectedLevel: zapcore.WarnLevel, withRunID: true},
		{name: "ErrorWithContext", log: func(l *logger.ZapLogger, ctx context.Context) { l.ErrorWithContext(ctx, "ABC") }, expectedLevel: zapcore.ErrorLevel, withRunID: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			log, logs := logger.NewObserverLogger("debug")
			tc.log(log, logger.WithRunID(context.Background(), "run-1"))
			require.Equal(t, 1, logs.Len())

			entry := logs.All()[0]
			assert.Equal(t, "ABC", entry.Message)
			assert.Equal(t, tc.expectedLevel, entry.Level)
			if tc.withRunID {
				assert.Equal(t, map[string]interface{}{"run_id": "run-1"}, entry.ContextMap())
			} else {
				assert.Empty(t, entry.ContextMap())
			}
		})
	}
}

func TestWith(t *testing.T) {
	t.Parallel()

	log, logs := logger.NewObserverLogger("info")
	log.With(zap.String("component", "spectral")).Info("hello")
	log.Debug("filtered")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, map[string]interface{}{"component": "spectral"}, logs.All()[0].ContextMap())
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"json", "text"} {
		log, err := logger.NewLogger(format, "info")
		require.NoError(t, err)
		assert.NotNil(t, log)
	}

	log, err := logger.NewLogger("json", "none")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))

	_, err = logger.NewLogger("json", "verbose")
	assert.ErrorIs(t, err, logger.ErrUnknownLevel)
	assert.Panics(t, func() { logger.MustNewLogger("json", "verbose") })
}

func TestPipelineLogger(t *testing.T) {
	t.Parallel()

	log, logs := logger.NewObserverLogger("debug")
	run, err := pipeline.NewRunner(logger.PipelineLogger(log))
	require.NoError(t, err)

	seq, err := pipeline.Sequential(pipeline.Map(func(x int) int { return x + 1 }))
	require.NoError(t, err)
	_, err = run.Run(context.Background(), seq, 1)
	require.NoError(t, err)
	require.NoError(t, run.Finish())

	assert.Equal(t, 2, logs.FilterMessage("stage prepared").Len())
	outputs := logs.FilterMessage("stage output").All()
	require.Len(t, outputs, 2)
	assert.Equal(t, "Sequential/0", outputs[0].ContextMap()["stage"])

	finished := logs.FilterMessage("pipeline finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(2), finished[0].ContextMap()["stages"])
	assert.Equal(t, int64(2), finished[0].ContextMap()["calls"])
}
