package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mikey/icp-outreach/internal/core"
)

func fintechICP() core.ICP {
	return core.ICP{
		Industries:   []string{"Fintech"},
		RevenueMin:   1_000_000,
		RevenueMax:   10_000_000,
		HeadcountMin: 50,
		HeadcountMax: 500,
	}
}

func TestScore_FullMatchWithoutGrowth(t *testing.T) {
	candidate := core.CompanyCandidate{
		Domain:       "acme.example",
		Industries:   []string{"Fintech", "Payments"},
		Headcount:    120,
		RevenueLower: 2_000_000,
	}

	breakdown := core.Score(candidate, fintechICP())

	require.InDelta(t, 0.4, breakdown.Contributions[core.CriterionIndustryMatch], 1e-9)
	require.InDelta(t, 0.3, breakdown.Contributions[core.CriterionSizeMatch], 1e-9)
	require.InDelta(t, 0.2, breakdown.Contributions[core.CriterionRevenueMatch], 1e-9)
	require.InDelta(t, 0.0, breakdown.Contributions[core.CriterionGrowthBonus], 1e-9)
	require.InDelta(t, 0.9, breakdown.Total, 1e-9)
}

func TestScore_GrowthBonusCompletesFullMatch(t *testing.T) {
	candidate := core.CompanyCandidate{
		Domain:       "acme.example",
		Industries:   []string{"fintech"},
		Headcount:    120,
		RevenueLower: 2_000_000,
		GrowthSignal: true,
	}

	breakdown := core.Score(candidate, fintechICP())

	require.InDelta(t, 1.0, breakdown.Total, 1e-9)
	require.LessOrEqual(t, breakdown.Total, 1.0)
}

func TestScore_IndustryMismatchStillCountsRanges(t *testing.T) {
	candidate := core.CompanyCandidate{
		Domain:       "shop.example",
		Industries:   []string{"Retail"},
		Headcount:    200,
		RevenueLower: 5_000_000,
	}

	breakdown := core.Score(candidate, fintechICP())

	require.InDelta(t, 0.0, breakdown.Contributions[core.CriterionIndustryMatch], 1e-9)
	require.InDelta(t, 0.5, breakdown.Total, 1e-9)
}

func TestScore_IndustryMatchIsCaseInsensitiveExact(t *testing.T) {
	icp := fintechICP()

	matched := core.Score(core.CompanyCandidate{Industries: []string{"FINTECH"}}, icp)
	require.InDelta(t, 0.4, matched.Contributions[core.CriterionIndustryMatch], 1e-9)

	// Substrings are not matches.
	unmatched := core.Score(core.CompanyCandidate{Industries: []string{"Fintech Infrastructure"}}, icp)
	require.InDelta(t, 0.0, unmatched.Contributions[core.CriterionIndustryMatch], 1e-9)
}

func TestScore_RangeBoundsAreInclusive(t *testing.T) {
	icp := fintechICP()

	atMin := core.Score(core.CompanyCandidate{Headcount: 50, RevenueLower: 1_000_000}, icp)
	require.InDelta(t, 0.3, atMin.Contributions[core.CriterionSizeMatch], 1e-9)
	require.InDelta(t, 0.2, atMin.Contributions[core.CriterionRevenueMatch], 1e-9)

	atMax := core.Score(core.CompanyCandidate{Headcount: 500, RevenueLower: 10_000_000}, icp)
	require.InDelta(t, 0.3, atMax.Contributions[core.CriterionSizeMatch], 1e-9)
	require.InDelta(t, 0.2, atMax.Contributions[core.CriterionRevenueMatch], 1e-9)

	offByOne := core.Score(core.CompanyCandidate{Headcount: 501, RevenueLower: 10_000_001}, icp)
	require.InDelta(t, 0.0, offByOne.Contributions[core.CriterionSizeMatch], 1e-9)
	require.InDelta(t, 0.0, offByOne.Contributions[core.CriterionRevenueMatch], 1e-9)
}

func TestScore_DegenerateRangeMatchesExactValueOnly(t *testing.T) {
	icp := core.ICP{
		Industries:   []string{"Fintech"},
		RevenueMin:   5_000_000,
		RevenueMax:   5_000_000,
		HeadcountMin: 100,
		HeadcountMax: 100,
	}

	exact := core.Score(core.CompanyCandidate{Headcount: 100, RevenueLower: 5_000_000}, icp)
	require.InDelta(t, 0.5, exact.Contributions[core.CriterionSizeMatch]+exact.Contributions[core.CriterionRevenueMatch], 1e-9)

	near := core.Score(core.CompanyCandidate{Headcount: 99, RevenueLower: 5_000_001}, icp)
	require.InDelta(t, 0.0, near.Contributions[core.CriterionSizeMatch], 1e-9)
	require.InDelta(t, 0.0, near.Contributions[core.CriterionRevenueMatch], 1e-9)
}

func TestScore_UnknownValuesNeverMatch(t *testing.T) {
	// Zero-value headcount and revenue mean the provider had no data.
	icp := core.ICP{
		Industries:   []string{"Fintech"},
		RevenueMin:   0,
		RevenueMax:   10_000_000,
		HeadcountMin: 0,
		HeadcountMax: 500,
	}

	breakdown := core.Score(core.CompanyCandidate{Industries: []string{"Fintech"}}, icp)

	require.InDelta(t, 0.0, breakdown.Contributions[core.CriterionSizeMatch], 1e-9)
	require.InDelta(t, 0.0, breakdown.Contributions[core.CriterionRevenueMatch], 1e-9)
	require.InDelta(t, 0.4, breakdown.Total, 1e-9)
}

func TestScore_Deterministic(t *testing.T) {
	candidate := core.CompanyCandidate{
		Domain:       "acme.example",
		Industries:   []string{"Fintech"},
		Headcount:    120,
		RevenueLower: 2_000_000,
		GrowthSignal: true,
	}
	icp := fintechICP()

	first := core.Score(candidate, icp)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, core.Score(candidate, icp))
	}
}
