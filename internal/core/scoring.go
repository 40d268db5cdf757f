package core

import (
	"strings"
)

// Scoring weights. They sum to 1.0.
const (
	WeightIndustryMatch = 0.4
	WeightSizeMatch     = 0.3
	WeightRevenueMatch  = 0.2
	WeightGrowthBonus   = 0.1
)

// Score computes the ICP fit for a candidate. It is a pure function: no
// I/O, and identical inputs always yield an identical breakdown.
//
// Industry match is a case-insensitive exact intersection of the two
// industry sets. Size and revenue match only when the candidate value is
// known (non-zero) and inside the inclusive ICP range. The growth bonus
// is awarded only when an explicit high-growth signal is present; absence
// never penalizes. The total is clamped to [0,1].
func Score(candidate CompanyCandidate, icp ICP) ScoreBreakdown {
	contributions := map[string]float64{
		CriterionIndustryMatch: 0,
		CriterionSizeMatch:     0,
		CriterionRevenueMatch:  0,
		CriterionGrowthBonus:   0,
	}

	if industriesIntersect(candidate.Industries, icp.Industries) {
		contributions[CriterionIndustryMatch] = WeightIndustryMatch
	}
	if candidate.Headcount > 0 &&
		candidate.Headcount >= icp.HeadcountMin && candidate.Headcount <= icp.HeadcountMax {
		contributions[CriterionSizeMatch] = WeightSizeMatch
	}
	if candidate.RevenueLower > 0 &&
		candidate.RevenueLower >= icp.RevenueMin && candidate.RevenueLower <= icp.RevenueMax {
		contributions[CriterionRevenueMatch] = WeightRevenueMatch
	}
	if candidate.GrowthSignal {
		contributions[CriterionGrowthBonus] = WeightGrowthBonus
	}

	total := 0.0
	for _, c := range contributions {
		total += c
	}
	if total > 1 {
		total = 1
	}
	if total < 0 {
		total = 0
	}

	return ScoreBreakdown{Contributions: contributions, Total: total}
}

// industriesIntersect reports whether any candidate industry equals any
// target industry, ignoring case. Exact string equality only.
func industriesIntersect(candidate, target []string) bool {
	for _, t := range target {
		for _, c := range candidate {
			if strings.EqualFold(c, t) {
				return true
			}
		}
	}
	return false
}
