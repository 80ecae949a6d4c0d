package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTiers(t *testing.T) {
	results := []FileResult{
		{SourceKey: "VesselA_01012024.csv", OverdueCount: 1},
		{SourceKey: "uploads/VesselB_15032024.csv", OverdueCount: 2},
	}
	rec := NewReconciler(results)

	tests := []struct {
		name       string
		displayKey string
		tier       Tier
		overdue    int
	}{
		{name: "exact key", displayKey: "VesselA_01012024.csv", tier: TierExact, overdue: 1},
		{name: "url-encoded form", displayKey: "uploads%2FVesselB_15032024.csv", tier: TierExact, overdue: 2},
		{name: "basename of a pathed key", displayKey: "VesselB_15032024.csv", tier: TierBasename, overdue: 2},
		{name: "basename with windows path", displayKey: `C:\exports\VesselA_01012024.csv`, tier: TierBasename, overdue: 1},
		{name: "substring overlap", displayKey: "VesselA_01012024", tier: TierSubstring, overdue: 1},
		{name: "no match", displayKey: "VesselZ.csv", tier: TierUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := rec.Resolve(tt.displayKey)
			assert.Equal(t, tt.tier, res.Tier)
			if tt.tier == TierUnresolved {
				assert.False(t, res.Resolved())
				return
			}
			require.True(t, res.Resolved())
			assert.Equal(t, tt.overdue, res.Result.OverdueCount)
		})
	}
}

func TestResolveSubstringPrefersLongestKey(t *testing.T) {
	results := []FileResult{
		{SourceKey: "report.csv", OverdueCount: 1},
		{SourceKey: "vessel_report.csv", OverdueCount: 2},
	}
	rec := NewReconciler(results)

	// "my_vessel_report.csv" contains both keys; the longer one must win.
	res := rec.Resolve("my_vessel_report.csv_extra")
	require.True(t, res.Resolved())
	assert.Equal(t, TierSubstring, res.Tier)
	assert.Equal(t, 2, res.Result.OverdueCount)
}

func TestResolveExactBeatsBasename(t *testing.T) {
	results := []FileResult{
		{SourceKey: "a.csv", OverdueCount: 1},
		{SourceKey: "dir/a.csv", OverdueCount: 2},
	}
	rec := NewReconciler(results)

	res := rec.Resolve("dir/a.csv")
	require.True(t, res.Resolved())
	assert.Equal(t, TierExact, res.Tier)
	assert.Equal(t, 2, res.Result.OverdueCount)
}

func TestResolveAll(t *testing.T) {
	rec := NewReconciler([]FileResult{{SourceKey: "a.csv"}})

	out := rec.ResolveAll([]string{"a.csv", "missing.xlsx"})
	require.Len(t, out, 2)
	assert.Equal(t, TierExact, out[0].Tier)
	assert.Equal(t, TierUnresolved, out[1].Tier)
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "exact", TierExact.String())
	assert.Equal(t, "basename", TierBasename.String())
	assert.Equal(t, "substring", TierSubstring.String())
	assert.Equal(t, "unresolved", TierUnresolved.String())
}
