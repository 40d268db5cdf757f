package core

import (
	"context"
)

// Engine is the boundary the UI/CRUD layer consumes: company discovery,
// decision-maker resolution, draft generation and delivery behind one
// handle.
type Engine struct {
	discovery  *DiscoveryService
	people     *PeopleService
	generation *GenerationService
	delivery   *DeliveryService
}

// NewEngine bundles the four pipeline services.
func NewEngine(
	discovery *DiscoveryService,
	people *PeopleService,
	generation *GenerationService,
	delivery *DeliveryService,
) *Engine {
	return &Engine{
		discovery:  discovery,
		people:     people,
		generation: generation,
		delivery:   delivery,
	}
}

// DiscoverCompanies ranks companies against the ICP, truncated to topN.
func (e *Engine) DiscoverCompanies(ctx context.Context, icp ICP, topN int) (*DiscoveryResult, error) {
	return e.discovery.Discover(ctx, icp, topN)
}

// ResolveDecisionMakers returns up to targetCount ranked decision-makers
// at a company. An empty result is valid, not an error.
func (e *Engine) ResolveDecisionMakers(ctx context.Context, companyDomain string, targetCount int) ([]DecisionMaker, error) {
	return e.people.Resolve(ctx, companyDomain, targetCount)
}

// GenerateDraft produces a new outreach draft for one decision-maker.
func (e *Engine) GenerateDraft(ctx context.Context, dm DecisionMaker, company CompanyCandidate, productVision string) (*OutreachDraft, error) {
	return e.generation.Generate(ctx, dm, company, productVision)
}

// Deliver sends a draft to a recipient address with idempotent semantics.
func (e *Engine) Deliver(ctx context.Context, draft *OutreachDraft, recipient string) (*DeliveryRecord, error) {
	return e.delivery.Deliver(ctx, draft, recipient)
}
