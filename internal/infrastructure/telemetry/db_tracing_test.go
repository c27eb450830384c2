package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ledgerRow stands in for a persisted ledger entry in tracing tests
type ledgerRow struct {
	ID          uint   `gorm:"primaryKey"`
	Description string `gorm:"size:200"`
	CreatedAt   time.Time
}

func setupTracingDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ledgerRow{}))
	return db
}

func setupSpanRecorder() (*trace.TracerProvider, *tracetest.SpanRecorder) {
	spanRecorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(spanRecorder))
	return tp, spanRecorder
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	assert.True(t, cfg.WithoutVariables)
}

func TestDBTracingPlugin_RegisterOtelGorm(t *testing.T) {
	t.Run("disabled plugin registers nothing", func(t *testing.T) {
		plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
		assert.NoError(t, plugin.RegisterOtelGorm(setupTracingDB(t)))
	})

	t.Run("enabled plugin registers", func(t *testing.T) {
		plugin := NewDBTracingPlugin(DBTracingConfig{
			Enabled:          true,
			SlowQueryThresh:  200 * time.Millisecond,
			DBSystem:         "sqlite",
			WithoutVariables: true,
		}, zap.NewNop())
		assert.NoError(t, plugin.RegisterOtelGorm(setupTracingDB(t)))
	})

	t.Run("second registration on the same DB fails", func(t *testing.T) {
		db := setupTracingDB(t)
		plugin := NewDBTracingPlugin(DBTracingConfig{
			Enabled:          true,
			SlowQueryThresh:  200 * time.Millisecond,
			DBSystem:         "sqlite",
			WithoutVariables: true,
		}, zap.NewNop())

		require.NoError(t, plugin.RegisterOtelGorm(db))
		assert.Error(t, plugin.RegisterOtelGorm(db))
	})
}

func TestDBTracingCallback_RowsAffected(t *testing.T) {
	db := setupTracingDB(t)
	tp, spanRecorder := setupSpanRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "batch-insert")
	db = db.WithContext(ctx)

	rows := []ledgerRow{{Description: "initial float"}, {Description: "diesel"}, {Description: "gravel"}}
	result := db.Create(&rows)
	require.NoError(t, result.Error)

	callback := NewDBTracingCallback(200 * time.Millisecond)
	callback.AfterCallback(result.Statement.DB)
	span.End()

	spans := spanRecorder.Ended()
	require.NotEmpty(t, spans)

	foundRows := false
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "db.rows_affected" {
			foundRows = true
			assert.Equal(t, int64(3), attr.Value.AsInt64())
		}
	}
	assert.True(t, foundRows)
}

func TestDBTracingCallback_RecordNotFoundIsNotAnError(t *testing.T) {
	db := setupTracingDB(t)
	tp, spanRecorder := setupSpanRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "lookup-missing")
	db = db.WithContext(ctx)

	var row ledgerRow
	tx := db.First(&row, 99999)

	callback := NewDBTracingCallback(200 * time.Millisecond)
	callback.AfterCallback(tx)
	span.End()

	spans := spanRecorder.Ended()
	require.NotEmpty(t, spans)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestDBTracingCallback_RegisterCallbacks(t *testing.T) {
	callback := NewDBTracingCallback(200 * time.Millisecond)
	assert.NoError(t, callback.RegisterCallbacks(setupTracingDB(t)))
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())

	startTime, ok := ctx.Value(queryStartTimeKey).(time.Time)
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now(), startTime, time.Second)
}

func TestSlowQueryCallback_NoRecordingSpan(t *testing.T) {
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:          true,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "sqlite",
		WithoutVariables: true,
	}, zap.NewNop())

	// must not panic without an active span on the context
	db := setupTracingDB(t).WithContext(context.Background())
	plugin.slowQueryCallback(db)
}

func TestDBTracingPlugin_TracedQueries(t *testing.T) {
	db := setupTracingDB(t)
	tp, spanRecorder := setupSpanRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:          true,
		LogFullSQL:       true,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "sqlite",
		WithoutVariables: false,
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "ledger-write")
	db = db.WithContext(ctx)

	require.NoError(t, db.Create(&ledgerRow{Description: "scaffolding hire"}).Error)

	var found ledgerRow
	require.NoError(t, db.First(&found, "description = ?", "scaffolding hire").Error)
	assert.Equal(t, "scaffolding hire", found.Description)

	span.End()
	assert.NotEmpty(t, spanRecorder.Ended())
}
