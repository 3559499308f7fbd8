package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, enabled map[string]bool) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core), enabled)
	t.Cleanup(func() { Use(zap.NewNop(), nil) })
	return logs
}

func TestGet_NamedByCategory(t *testing.T) {
	logs := observe(t, nil)

	Get(CategorySubmit).Warn("registration failed", zap.String("req", "r1"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "submit", entries[0].LoggerName)
	assert.Equal(t, "r1", entries[0].ContextMap()["req"])
}

func TestGet_DisabledCategoryIsNoop(t *testing.T) {
	logs := observe(t, map[string]bool{"lookup": false, "submit": true})

	Get(CategoryLookup).Info("should not appear")
	Get(CategorySubmit).Info("should appear")
	Get(CategoryGeo).Info("unlisted categories are enabled")

	assert.False(t, IsCategoryEnabled(CategoryLookup))
	assert.True(t, IsCategoryEnabled(CategoryGeo))
	assert.Equal(t, 2, logs.Len())
	assert.Zero(t, logs.FilterLoggerName("lookup").Len())
}

func TestGet_CachesLoggers(t *testing.T) {
	observe(t, nil)
	assert.Same(t, Get(CategoryForm), Get(CategoryForm))
}

func TestInitialize_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regform.log")
	require.NoError(t, Initialize(Config{Level: "debug", Format: "json", File: path}))
	t.Cleanup(func() { Use(zap.NewNop(), nil) })

	Boot("starting", zap.String("version", "test"))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"logger":"boot"`)
	assert.Contains(t, string(data), `"msg":"starting"`)
}

func TestInitialize_RejectsBadConfig(t *testing.T) {
	assert.Error(t, Initialize(Config{Level: "loud"}))
	assert.Error(t, Initialize(Config{Format: "xml"}))
}

func TestAuditLogger_SubmitFinished(t *testing.T) {
	logs := observe(t, nil)
	audit := AuditWithSession("sess-1")

	audit.SubmitFinished("req-1", "https://example.com/register", 120*time.Millisecond, errors.New("HTTP 502\nbad gateway"))

	entries := logs.FilterLoggerName("audit").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "submit_failed", ctx["event"])
	assert.Equal(t, false, ctx["success"])
	assert.Equal(t, "sess-1", ctx["session"])
	assert.Equal(t, int64(120), ctx["dur_ms"])
	assert.False(t, strings.Contains(ctx["error"].(string), "\n"))
}

func TestAuditLogger_LookupFinished(t *testing.T) {
	logs := observe(t, nil)
	audit := AuditWithSession("")

	audit.LookupFinished(3, "5551234567", false, nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "lookup_discarded", ctx["event"])
	assert.Equal(t, "lookup-3", ctx["req"])
	assert.NotContains(t, ctx, "session")
}
