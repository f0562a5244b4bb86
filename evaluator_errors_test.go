package valuestore

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := evaluationError("expr", PhaseRun, "isDirty('user') && missing", "profile", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" || evalErr.Phase != PhaseRun {
		t.Fatalf("unexpected engine/phase %q/%q", evalErr.Engine, evalErr.Phase)
	}
	if evalErr.Expr != "isDirty('user') && missing" || evalErr.Component != "profile" {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
	want := `valuestore: expr run failed component=profile expr="isDirty('user') && missing": boom`
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if IsCompileError(err) {
		t.Fatalf("run failure reported as compile error")
	}
}

func TestEvaluationErrorFillsExistingMetadata(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{Engine: "expr", Phase: PhaseCompile, Err: base}
	wrapped := fmt.Errorf("loading rule: %w", existing)

	err := evaluationError("cel", PhaseRun, "firstName == ''", "profile", wrapped)
	if err != wrapped {
		t.Fatalf("expected the original chain to be returned, got %v", err)
	}
	if existing.Engine != "expr" || existing.Phase != PhaseCompile {
		t.Fatalf("existing engine/phase must not be overwritten: %+v", existing)
	}
	if existing.Expr != "firstName == ''" || existing.Component != "profile" {
		t.Fatalf("empty fields should be filled: %+v", existing)
	}
	if !IsCompileError(err) {
		t.Fatalf("expected compile error through the wrap chain")
	}
}

func TestEvaluationErrorEdgeCases(t *testing.T) {
	if err := evaluationError("cel", PhaseRun, "x", "", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	var nilErr *EvaluationError
	if nilErr.Error() != "<nil>" || nilErr.Unwrap() != nil {
		t.Fatalf("nil EvaluationError must be safe to print")
	}
	anonymous := &EvaluationError{Engine: "js", Err: errors.New("bad")}
	if msg := anonymous.Error(); !strings.Contains(msg, "js run failed component=<anonymous>") {
		t.Fatalf("unexpected message %q", msg)
	}
	if IsCompileError(errors.New("plain")) {
		t.Fatalf("plain errors are not compile errors")
	}
}
