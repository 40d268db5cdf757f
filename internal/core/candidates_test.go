package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/icp-outreach/internal/core"
)

type indexFunc func(industry string) []string

func (f indexFunc) Lookup(industry string) []string { return f(industry) }

func mapIndex(m map[string][]string) indexFunc {
	return func(industry string) []string { return m[industry] }
}

func TestCandidateResolver_RejectsInvalidICP(t *testing.T) {
	resolver := core.NewCandidateResolver(mapIndex(nil), 10, zap.NewNop())

	tests := []struct {
		name string
		icp  core.ICP
	}{
		{"empty industries", core.ICP{}},
		{"negative revenue bound", core.ICP{Industries: []string{"Fintech"}, RevenueMin: -1}},
		{"inverted revenue range", core.ICP{Industries: []string{"Fintech"}, RevenueMin: 10, RevenueMax: 5}},
		{"inverted headcount range", core.ICP{Industries: []string{"Fintech"}, HeadcountMin: 10, HeadcountMax: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(tt.icp)
			var invalid *core.InvalidICPError
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestCandidateResolver_OrderIndependentOfCallerIndustryOrder(t *testing.T) {
	idx := mapIndex(map[string][]string{
		"fintech":  {"a.example", "b.example"},
		"payments": {"c.example"},
	})
	resolver := core.NewCandidateResolver(idx, 10, zap.NewNop())

	forward, err := resolver.Resolve(core.ICP{Industries: []string{"Fintech", "Payments"}})
	require.NoError(t, err)
	reversed, err := resolver.Resolve(core.ICP{Industries: []string{"Payments", "Fintech"}})
	require.NoError(t, err)

	require.Equal(t, []string{"a.example", "b.example", "c.example"}, forward)
	require.Equal(t, forward, reversed)
}

func TestCandidateResolver_DeduplicatesKeepingFirstPosition(t *testing.T) {
	idx := mapIndex(map[string][]string{
		"fintech":  {"a.example", "shared.example"},
		"payments": {"shared.example", "z.example"},
	})
	resolver := core.NewCandidateResolver(idx, 10, zap.NewNop())

	ids, err := resolver.Resolve(core.ICP{Industries: []string{"Payments", "Fintech"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a.example", "shared.example", "z.example"}, ids)
}

func TestCandidateResolver_CapsIdentifierCount(t *testing.T) {
	idx := mapIndex(map[string][]string{
		"fintech": {"a.example", "b.example", "c.example", "d.example"},
	})
	resolver := core.NewCandidateResolver(idx, 2, zap.NewNop())

	ids, err := resolver.Resolve(core.ICP{Industries: []string{"Fintech"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a.example", "b.example"}, ids)
}

func TestCandidateResolver_NormalizesIndustryCaseAndSpace(t *testing.T) {
	idx := mapIndex(map[string][]string{
		"fintech": {"a.example"},
	})
	resolver := core.NewCandidateResolver(idx, 10, zap.NewNop())

	ids, err := resolver.Resolve(core.ICP{Industries: []string{"  FinTech  "}})
	require.NoError(t, err)
	require.Equal(t, []string{"a.example"}, ids)
}
