package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mikey/icp-outreach/internal/core"
)

func TestSeniorityTier(t *testing.T) {
	tests := []struct {
		title string
		tier  int
	}{
		{"CEO", core.TierExecutive},
		{"Chief Technology Officer", core.TierExecutive},
		{"VP of Engineering", core.TierExecutive},
		{"Vice President, Sales", core.TierExecutive},
		{"Head of Data", core.TierExecutive},
		{"Director of Operations", core.TierExecutive},
		{"Co-Founder", core.TierExecutive},
		{"Engineering Manager", core.TierManager},
		{"Tech Lead", core.TierManager},
		{"Principal Engineer", core.TierManager},
		{"Software Engineer", core.TierOther},
		{"Account Executive", core.TierOther},
		{"", core.TierOther},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			require.Equal(t, tt.tier, core.SeniorityTier(tt.title))
		})
	}
}

func TestSeniorityTier_WholeWordsOnly(t *testing.T) {
	// Keyword matching is on whole words, not substrings.
	require.Equal(t, core.TierOther, core.SeniorityTier("Leadership Coach"))
	require.Equal(t, core.TierOther, core.SeniorityTier("Manageability Analyst"))
}

func TestSeniorityTier_ExecutiveOutranksManagerKeyword(t *testing.T) {
	require.Equal(t, core.TierExecutive, core.SeniorityTier("Director and Engineering Manager"))
}
