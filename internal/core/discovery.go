package core

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Discovery defaults.
const (
	DefaultBatchSize   = 100
	DefaultConcurrency = 5
	DefaultTopN        = 20
)

// DiscoveryService fans candidate identifier batches out to the
// company-data collaborator, scores the merged results against the ICP and
// returns a ranked, truncated list. A failed batch never aborts the whole
// search: it is recorded and the search proceeds with what succeeded.
type DiscoveryService struct {
	resolver    *CandidateResolver
	companyData CompanyDataClient
	retry       RetryPolicy
	logger      *zap.Logger
	batchSize   int
	concurrency int
	defaultTopN int
}

// NewDiscoveryService creates a new company discovery orchestrator.
// Out-of-range options fall back to the package defaults; the batch size
// is additionally capped at the upstream per-call limit.
func NewDiscoveryService(
	resolver *CandidateResolver,
	companyData CompanyDataClient,
	retry RetryPolicy,
	logger *zap.Logger,
	batchSize int,
	concurrency int,
	defaultTopN int,
) *DiscoveryService {
	if batchSize <= 0 || batchSize > DefaultBatchSize {
		batchSize = DefaultBatchSize
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if defaultTopN <= 0 {
		defaultTopN = DefaultTopN
	}
	return &DiscoveryService{
		resolver:    resolver,
		companyData: companyData,
		retry:       retry,
		logger:      logger,
		batchSize:   batchSize,
		concurrency: concurrency,
		defaultTopN: defaultTopN,
	}
}

// Discover resolves candidates for the ICP, fetches their attributes in
// bounded-concurrency batches, scores them and returns the top-N ranked
// companies. topN of zero or less uses the configured default.
//
// Ordering is determined solely by total score descending with domain
// ascending as tie-break, never by response arrival order. If every batch
// fails the search fails with UpstreamUnavailableError; if only some fail
// the result is partial and reported as such. A canceled caller that got
// no batch through sees the context error instead.
func (s *DiscoveryService) Discover(ctx context.Context, icp ICP, topN int) (*DiscoveryResult, error) {
	if topN <= 0 {
		topN = s.defaultTopN
	}

	identifiers, err := s.resolver.Resolve(icp)
	if err != nil {
		return nil, err
	}
	if len(identifiers) == 0 {
		return &DiscoveryResult{}, nil
	}

	batches := chunk(identifiers, s.batchSize)

	var (
		mu         sync.Mutex
		candidates []CompanyCandidate
		failed     []string
		lastErr    error
		succeeded  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, batch := range batches {
		// A canceled caller stops new batches; completed data is kept.
		if gctx.Err() != nil {
			break
		}
		batch := batch
		g.Go(func() error {
			var got []CompanyCandidate
			err := s.retry.DoTransient(gctx, func(ctx context.Context) error {
				var ferr error
				got, ferr = s.companyData.FetchCompanies(ctx, batch)
				return ferr
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, batch...)
				lastErr = err
				s.logger.Warn("Candidate batch failed after retries",
					zap.Int("batch_size", len(batch)),
					zap.Error(err))
				return nil
			}
			succeeded++
			candidates = append(candidates, got...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if succeeded == 0 {
		// A caller abort is not upstream unavailability.
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, &UpstreamUnavailableError{Collaborator: "company-data", Err: lastErr}
	}

	ranked := make([]RankedCompany, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, RankedCompany{Candidate: c, Score: Score(c, icp)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score.Total != ranked[j].Score.Total {
			return ranked[i].Score.Total > ranked[j].Score.Total
		}
		return ranked[i].Candidate.Domain < ranked[j].Candidate.Domain
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	sort.Strings(failed)

	s.logger.Info("Company discovery complete",
		zap.Int("candidates", len(identifiers)),
		zap.Int("scored", len(candidates)),
		zap.Int("returned", len(ranked)),
		zap.Int("failed_identifiers", len(failed)))

	return &DiscoveryResult{Companies: ranked, FailedIdentifiers: failed}, nil
}

// chunk splits ids into slices of at most size elements, preserving order.
func chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
