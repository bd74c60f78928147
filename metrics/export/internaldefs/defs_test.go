package internaldefs

import (
	"strings"
	"testing"

	goGuard "github.com/MrEthical07/goGuard"
)

func TestCounterDefsUniqueAndPrefixed(t *testing.T) {
	names := make(map[string]struct{}, len(CounterDefs))
	ids := make(map[goGuard.MetricID]struct{}, len(CounterDefs))
	for _, def := range CounterDefs {
		if !strings.HasPrefix(def.Name, "goguard_") || !strings.HasSuffix(def.Name, "_total") {
			t.Fatalf("unexpected counter name %q", def.Name)
		}
		if _, dup := names[def.Name]; dup {
			t.Fatalf("duplicate name %q", def.Name)
		}
		if _, dup := ids[def.ID]; dup {
			t.Fatalf("duplicate id %d", def.ID)
		}
		names[def.Name] = struct{}{}
		ids[def.ID] = struct{}{}
	}
}

func TestBoundsMatchBucketCount(t *testing.T) {
	if len(HistogramBounds) != 8 || len(HistogramBoundSuffix) != 8 {
		t.Fatalf("expected 8 bounds, got %d/%d", len(HistogramBounds), len(HistogramBoundSuffix))
	}
}

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 3}))
	want := [8]uint64{1, 3, 6, 6, 6, 6, 6, 6}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSortedRuleIDs(t *testing.T) {
	ids := SortedRuleIDs(map[string]goGuard.RuleCounts{"url": {}, "email": {}, "phone": {}})
	if strings.Join(ids, ",") != "email,phone,url" {
		t.Fatalf("unexpected order %v", ids)
	}
}
