package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestFromAttachesCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)
	defer restore()

	ctx := WithCorrelation(context.Background(), Correlation{
		RunID:     "run-1",
		Token:     "abc123",
		Scenario:  "create_note",
		SeedIndex: 42,
	})
	From(ctx).Info("picked seed row")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	if entry["run_id"] != "run-1" || entry["token"] != "abc123" {
		t.Fatalf("missing correlation attrs: %v", entry)
	}
	if entry["scenario"] != "create_note" {
		t.Fatalf("missing scenario attr: %v", entry)
	}
	if entry["seed_index"] != float64(42) {
		t.Fatalf("missing seed_index attr: %v", entry)
	}
}

func TestWithCorrelationMergesNonZeroFields(t *testing.T) {
	ctx := WithCorrelation(context.Background(), Correlation{RunID: "run-1", Token: "t1"})
	ctx = WithCorrelation(ctx, Correlation{Scenario: "login"})

	corr := CorrelationFromContext(ctx)
	if corr.RunID != "run-1" || corr.Token != "t1" || corr.Scenario != "login" {
		t.Fatalf("merge lost fields: %+v", corr)
	}
}

func TestTokenFromContextDefaultsToUnknown(t *testing.T) {
	if got := TokenFromContext(context.Background()); got != "unknown" {
		t.Fatalf("TokenFromContext default mismatch: %q", got)
	}
	ctx := WithToken(context.Background(), "  deadbeef  ")
	if got := TokenFromContext(ctx); got != "deadbeef" {
		t.Fatalf("TokenFromContext mismatch: %q", got)
	}
}

func TestFromWithoutCorrelationOmitsAttrs(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)
	defer restore()

	From(context.Background()).Info("no correlation")
	if strings.Contains(buf.String(), "token") {
		t.Fatalf("unexpected correlation attrs: %s", buf.String())
	}
}
