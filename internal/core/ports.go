package core

import (
	"context"
)

// CandidateIndex maps an industry to the company identifiers indexed for
// it. Lookups must be deterministic so searches stay reproducible.
type CandidateIndex interface {
	// Lookup returns the identifiers indexed for an industry, in index order.
	Lookup(industry string) []string
}

// CompanyDataClient is the company-data collaborator: batch attribute
// lookup by identifier list. Missing identifiers are simply absent from
// the result, not an error.
type CompanyDataClient interface {
	// FetchCompanies returns attribute data for the given company domains.
	FetchCompanies(ctx context.Context, domains []string) ([]CompanyCandidate, error)
}

// PeopleClient is the people collaborator: lookup by company identifier.
// Zero results is a valid outcome.
type PeopleClient interface {
	// FetchPeople returns the people found at a company, in upstream order.
	FetchPeople(ctx context.Context, companyDomain string) ([]Person, error)
}

// TextGenerator is the generative-text collaborator: single prompt in,
// raw text out. Parsing the output is the caller's concern.
type TextGenerator interface {
	// GenerateText produces the raw model output for a prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// EmailSender is the transactional-email collaborator. Implementations
// classify failures: transient ones are wrapped with Transient, permanent
// ones with PermanentDeliveryError.
type EmailSender interface {
	// Send delivers one message to one recipient.
	Send(ctx context.Context, msg *OutreachEmail) error
}

// DeliveryStore persists delivery records keyed by idempotency key.
type DeliveryStore interface {
	// Claim atomically returns the record for key, creating rec as pending
	// when none exists. claimed reports whether this caller created it.
	Claim(ctx context.Context, key string, rec *DeliveryRecord) (*DeliveryRecord, bool, error)

	// Update persists the current state of a record.
	Update(ctx context.Context, rec *DeliveryRecord) error

	// Get returns the record for key, or nil when absent.
	Get(ctx context.Context, key string) (*DeliveryRecord, error)
}
