package core

import (
	"strings"
)

// Seniority tiers, lower is more senior.
const (
	TierExecutive = 0
	TierManager   = 1
	TierOther     = 2
)

// Title keyword lists for seniority classification.
var (
	executivePhrases = []string{"vice president"}
	executiveWords   = []string{
		"chief", "ceo", "cto", "cfo", "cmo", "coo",
		"president", "vp", "svp", "evp",
		"head", "director", "founder", "owner",
	}
	managerWords = []string{"manager", "lead", "principal"}
)

// SeniorityTier classifies a job title into a tier by keyword matching.
// The classification is deterministic: lowercase the title, match known
// executive phrases, then match whole words against the keyword lists.
func SeniorityTier(title string) int {
	lower := strings.ToLower(title)

	for _, phrase := range executivePhrases {
		if strings.Contains(lower, phrase) {
			return TierExecutive
		}
	}

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})
	for _, w := range words {
		for _, kw := range executiveWords {
			if w == kw {
				return TierExecutive
			}
		}
	}
	for _, w := range words {
		for _, kw := range managerWords {
			if w == kw {
				return TierManager
			}
		}
	}
	return TierOther
}
