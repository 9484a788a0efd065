package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"pos-be/pkg/logger"
	"pos-be/pkg/redis"
)

func newGuardWithMiniredis(t *testing.T) *ReplayGuard {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := redis.NewClient(fmt.Sprintf("redis://%s", mr.Addr()), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return NewReplayGuard(client, logger.NewNop())
}

func TestReplayGuardFirstSeen(t *testing.T) {
	guard := newGuardWithMiniredis(t)
	ctx := context.Background()

	sig := "41b9f4e64ca8985b38877313dd2768f50193867eb3dd5ca24062a7c3121eba4b"

	if !guard.FirstSeen(ctx, sig) {
		t.Error("first sighting should be allowed")
	}
	if guard.FirstSeen(ctx, sig) {
		t.Error("second sighting should be rejected")
	}
	if !guard.FirstSeen(ctx, "a-different-signature") {
		t.Error("unrelated signature should be allowed")
	}
}

func TestReplayGuardWithoutRedis(t *testing.T) {
	guard := NewReplayGuard(nil, logger.NewNop())
	ctx := context.Background()

	// Without redis the guard is disabled and never blocks
	if !guard.FirstSeen(ctx, "sig") {
		t.Error("disabled guard should allow")
	}
	if !guard.FirstSeen(ctx, "sig") {
		t.Error("disabled guard should allow repeats")
	}
}
