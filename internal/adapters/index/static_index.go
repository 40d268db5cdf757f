package index

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// StaticIndex is a CandidateIndex backed by a fixed industry → identifier
// map supplied through configuration. Identifiers are held sorted so a
// lookup never depends on map iteration or configuration file ordering.
type StaticIndex struct {
	industries map[string][]string
	logger     *zap.Logger
}

// NewStaticIndex creates a new static candidate index. Industry keys are
// normalized to lowercase; identifier slices are copied so later mutation
// of the input cannot change lookup results.
func NewStaticIndex(industries map[string][]string, logger *zap.Logger) *StaticIndex {
	normalized := make(map[string][]string, len(industries))
	for industry, ids := range industries {
		key := strings.ToLower(strings.TrimSpace(industry))
		normalized[key] = append(normalized[key], ids...)
	}
	for key := range normalized {
		sort.Strings(normalized[key])
	}

	logger.Debug("Loaded static candidate index",
		zap.Int("industries", len(normalized)))

	return &StaticIndex{
		industries: normalized,
		logger:     logger,
	}
}

// Lookup returns the identifiers indexed for an industry.
func (i *StaticIndex) Lookup(industry string) []string {
	return i.industries[strings.ToLower(strings.TrimSpace(industry))]
}
