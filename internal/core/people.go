package core

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// DefaultTargetCount is how many decision-makers a lookup returns by default.
const DefaultTargetCount = 5

// PeopleService fetches the people at a company and ranks them by
// decision-making relevance.
type PeopleService struct {
	people        PeopleClient
	retry         RetryPolicy
	logger        *zap.Logger
	defaultTarget int
}

// NewPeopleService creates a new decision-maker resolver.
func NewPeopleService(people PeopleClient, retry RetryPolicy, logger *zap.Logger, defaultTarget int) *PeopleService {
	if defaultTarget <= 0 {
		defaultTarget = DefaultTargetCount
	}
	return &PeopleService{
		people:        people,
		retry:         retry,
		logger:        logger,
		defaultTarget: defaultTarget,
	}
}

// Resolve returns up to target decision-makers at a company, sorted by
// seniority tier ascending with upstream order preserved within a tier.
// Zero people found is a valid empty result, not an error; callers must
// check for emptiness. target of zero or less uses the configured default.
func (s *PeopleService) Resolve(ctx context.Context, companyDomain string, target int) ([]DecisionMaker, error) {
	if target <= 0 {
		target = s.defaultTarget
	}

	var people []Person
	err := s.retry.DoTransient(ctx, func(ctx context.Context) error {
		var ferr error
		people, ferr = s.people.FetchPeople(ctx, companyDomain)
		return ferr
	})
	if err != nil {
		if IsTransient(err) {
			return nil, &UpstreamUnavailableError{Collaborator: "people", Err: err}
		}
		return nil, err
	}

	makers := make([]DecisionMaker, 0, len(people))
	for _, p := range people {
		makers = append(makers, DecisionMaker{
			Person:        p,
			Tier:          SeniorityTier(p.Title),
			CompanyDomain: companyDomain,
		})
	}
	sort.SliceStable(makers, func(i, j int) bool {
		return makers[i].Tier < makers[j].Tier
	})
	if len(makers) > target {
		makers = makers[:target]
	}

	s.logger.Debug("Resolved decision-makers",
		zap.String("company", companyDomain),
		zap.Int("found", len(people)),
		zap.Int("returned", len(makers)))

	return makers, nil
}
