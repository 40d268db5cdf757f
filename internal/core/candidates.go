package core

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DefaultCandidateCap bounds how many identifiers one search will fetch.
const DefaultCandidateCap = 100

// CandidateResolver turns ICP criteria into a bounded, ordered sequence of
// company identifiers to fetch. It performs no network I/O: identifiers
// come from an injected index, and identical ICPs always resolve to the
// same identifier sequence.
type CandidateResolver struct {
	index  CandidateIndex
	cap    int
	logger *zap.Logger
}

// NewCandidateResolver creates a new candidate resolver. A cap of zero or
// less falls back to DefaultCandidateCap.
func NewCandidateResolver(index CandidateIndex, cap int, logger *zap.Logger) *CandidateResolver {
	if cap <= 0 {
		cap = DefaultCandidateCap
	}
	return &CandidateResolver{
		index:  index,
		cap:    cap,
		logger: logger,
	}
}

// Resolve validates the ICP and returns the capped identifier sequence.
// Industries are walked in normalized lowercase-sorted order so the result
// does not depend on the caller's industry ordering; duplicates keep their
// first position.
func (r *CandidateResolver) Resolve(icp ICP) ([]string, error) {
	if err := icp.Validate(); err != nil {
		return nil, err
	}

	industries := make([]string, len(icp.Industries))
	for i, ind := range icp.Industries {
		industries[i] = strings.ToLower(strings.TrimSpace(ind))
	}
	sort.Strings(industries)

	seen := make(map[string]struct{})
	identifiers := make([]string, 0, r.cap)
	for _, industry := range industries {
		for _, id := range r.index.Lookup(industry) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			identifiers = append(identifiers, id)
			if len(identifiers) == r.cap {
				r.logger.Debug("Candidate cap reached",
					zap.Int("cap", r.cap),
					zap.String("industry", industry))
				return identifiers, nil
			}
		}
	}

	r.logger.Debug("Resolved candidate identifiers",
		zap.Int("count", len(identifiers)),
		zap.Strings("industries", industries))

	return identifiers, nil
}
