package zaplog_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	valuestore "github.com/goliatone/go-valuestore"
	"github.com/goliatone/go-valuestore/pkg/zaplog"
)

func TestLoggerRecordsStoreOperations(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	store := valuestore.New(
		map[string]any{"user": map[string]any{"firstName": "Ryan"}},
		nil,
		valuestore.WithComponent("profile"),
		valuestore.WithLogger(zaplog.New(zap.New(core))),
	)

	store.Set("user.firstName", "Kevin")
	store.FlushDirtyPropsToPending()

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	set := entries[0]
	if set.Message != "valuestore.set" || set.Level != zapcore.DebugLevel {
		t.Fatalf("unexpected set entry %q at %s", set.Message, set.Level)
	}
	if set.LoggerName != "valuestore" {
		t.Fatalf("expected named logger, got %q", set.LoggerName)
	}
	ctx := set.ContextMap()
	if ctx["component"] != "profile" || ctx["path"] != "user.firstName" || ctx["layer"] != "canonical" {
		t.Fatalf("unexpected set fields %#v", ctx)
	}

	if entries[1].Message != "valuestore.flush" || entries[1].ContextMap()["count"] != int64(1) {
		t.Fatalf("unexpected flush entry %#v", entries[1])
	}
}

func TestLoggerWarnsOnError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zaplog.New(zap.New(core))

	logger.LogOperation(valuestore.OperationEvent{Op: valuestore.OpSet, Path: "firstName"})
	logger.LogOperation(valuestore.OperationEvent{
		Op:     valuestore.OpEvaluate,
		Engine: "expr",
		Expr:   "firstName ==",
		Err:    errors.New("unexpected token"),
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected only the failure above info level, got %d entries", len(entries))
	}
	entry := entries[0]
	if entry.Level != zapcore.WarnLevel || entry.Message != "valuestore.evaluate" {
		t.Fatalf("unexpected entry %q at %s", entry.Message, entry.Level)
	}
	ctx := entry.ContextMap()
	if ctx["engine"] != "expr" || ctx["error"] != "unexpected token" {
		t.Fatalf("unexpected fields %#v", ctx)
	}
}

func TestNewWithNilLogger(t *testing.T) {
	logger := zaplog.New(nil)
	logger.LogOperation(valuestore.OperationEvent{Op: valuestore.OpFlush})
}
