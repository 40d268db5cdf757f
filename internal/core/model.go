package core

import (
	"time"
)

// ICP is an Ideal Customer Profile: the targeting criteria for a company
// search. It is immutable once a search has been started with it.
type ICP struct {
	Industries   []string
	RevenueMin   int
	RevenueMax   int
	HeadcountMin int
	HeadcountMax int
}

// Validate checks the ICP invariants: a non-empty industry set and
// well-ordered, non-negative ranges.
func (icp ICP) Validate() error {
	if len(icp.Industries) == 0 {
		return &InvalidICPError{Reason: "industries must not be empty"}
	}
	if icp.RevenueMin < 0 || icp.HeadcountMin < 0 {
		return &InvalidICPError{Reason: "range bounds must be non-negative"}
	}
	if icp.RevenueMin > icp.RevenueMax {
		return &InvalidICPError{Reason: "revenue_min must not exceed revenue_max"}
	}
	if icp.HeadcountMin > icp.HeadcountMax {
		return &InvalidICPError{Reason: "headcount_min must not exceed headcount_max"}
	}
	return nil
}

// CompanyCandidate is a company under consideration for ICP matching.
// Headcount and RevenueLower of zero mean the upstream provider had no
// data; unknown values never satisfy a range criterion.
type CompanyCandidate struct {
	Domain       string
	Name         string
	Headcount    int
	RevenueLower int
	Headquarters string
	Industries   []string
	FoundedYear  string
	GrowthSignal bool
}

// Score breakdown criterion names.
const (
	CriterionIndustryMatch = "industry_match"
	CriterionSizeMatch     = "size_match"
	CriterionRevenueMatch  = "revenue_match"
	CriterionGrowthBonus   = "growth_bonus"
)

// ScoreBreakdown maps each criterion to its contribution. Total is the
// clamped sum of the contributions and always lies in [0,1].
type ScoreBreakdown struct {
	Contributions map[string]float64
	Total         float64
}

// RankedCompany pairs a candidate with its score breakdown.
type RankedCompany struct {
	Candidate CompanyCandidate
	Score     ScoreBreakdown
}

// DiscoveryResult is the outcome of one company discovery run. Companies
// is sorted by total score descending with domain ascending as tie-break.
// FailedIdentifiers lists the candidates whose attribute batches could not
// be fetched after retries; a non-empty list is a partial result, not an
// error.
type DiscoveryResult struct {
	Companies         []RankedCompany
	FailedIdentifiers []string
}

// Partial reports whether some candidate batches failed to fetch.
func (r *DiscoveryResult) Partial() bool {
	return len(r.FailedIdentifiers) > 0
}

// Person is a raw upstream person record before seniority classification.
type Person struct {
	Name       string
	Title      string
	Email      string
	ProfileURL string
	Location   string
}

// DecisionMaker is a person ranked by decision-making relevance.
// CompanyDomain is a back-reference for display only.
type DecisionMaker struct {
	Person
	Tier          int
	CompanyDomain string
}

// GenerationContext is the exact set of inputs used to build a generation
// prompt, snapshotted on the draft for auditability.
type GenerationContext struct {
	RecipientName  string
	RecipientTitle string
	CompanyName    string
	Industry       string
	ValueProp      string
	ProductVision  string
}

// OutreachDraft is generated, not-yet-sent outreach content. A draft is
// immutable once created; regenerating produces a new draft with a new ID.
type OutreachDraft struct {
	ID            string
	RecipientName string
	Subject       string
	Body          string
	Context       GenerationContext
	GeneratedAt   time.Time
}

// OutreachEmail is the wire-level message handed to the email collaborator.
type OutreachEmail struct {
	To      string
	Subject string
	Body    string
}

// DeliveryStatus is the lifecycle state of a delivery record.
type DeliveryStatus string

const (
	StatusPending DeliveryStatus = "pending"
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
)

// DeliveryRecord tracks one recipient/draft delivery through its attempts.
// The idempotency key uniquely determines whether a new upstream send is
// issued: a record in state sent is never re-sent.
type DeliveryRecord struct {
	Key            string
	DraftID        string
	Recipient      string
	Status         DeliveryStatus
	Attempts       int
	LastError      string
	FirstAttemptAt time.Time
	CompletedAt    time.Time
}
