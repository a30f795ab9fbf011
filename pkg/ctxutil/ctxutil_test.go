package ctxutil

import (
	"context"
	"testing"
)

func TestWithRequestID_And_RequestIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Errorf("RequestIDFromCtx = %q, want %q", got, "req-123")
	}
}

func TestRequestIDFromCtx_Absent(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Errorf("expected empty string for missing request ID, got %q", got)
	}
}

func TestEnsureRequestID(t *testing.T) {
	t.Parallel()

	ctx, id := EnsureRequestID(context.Background())
	if id == "" {
		t.Fatal("expected a generated request ID")
	}
	if got := RequestIDFromCtx(ctx); got != id {
		t.Errorf("stored ID %q does not match returned ID %q", got, id)
	}

	// An existing ID is preserved.
	ctx2, id2 := EnsureRequestID(ctx)
	if id2 != id {
		t.Errorf("EnsureRequestID replaced existing ID: %q -> %q", id, id2)
	}
	if ctx2 != ctx {
		t.Error("context should be unchanged when an ID already exists")
	}
}
