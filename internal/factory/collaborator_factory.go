package factory

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/icp-outreach/internal/adapters/crust"
	"github.com/mikey/icp-outreach/internal/adapters/index"
	"github.com/mikey/icp-outreach/internal/adapters/smtp"
	"github.com/mikey/icp-outreach/internal/config"
	"github.com/mikey/icp-outreach/internal/core"
)

// CollaboratorFactory creates the external collaborator handles: the
// company-data/people client, the email sender and the candidate index.
type CollaboratorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCollaboratorFactory creates a new collaborator factory
func NewCollaboratorFactory(cfg *config.Config, logger *zap.Logger) *CollaboratorFactory {
	return &CollaboratorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCompanyDataClient creates the company-data/people provider client
func (f *CollaboratorFactory) CreateCompanyDataClient() (*crust.Client, error) {
	crustCfg := f.cfg.GetCrust()
	if crustCfg.APIKey == "" {
		return nil, fmt.Errorf("crust.api_key is required")
	}
	timeout, err := time.ParseDuration(crustCfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid crust.timeout: %w", err)
	}
	return crust.NewClient(crustCfg.BaseURL, crustCfg.APIKey, timeout, f.logger), nil
}

// CreateEmailSender creates the transactional email sender
func (f *CollaboratorFactory) CreateEmailSender() (core.EmailSender, error) {
	smtpCfg := f.cfg.GetSMTP()
	if smtpCfg.From == "" {
		return nil, fmt.Errorf("smtp.from is required")
	}
	addr := fmt.Sprintf("%s:%d", smtpCfg.Host, smtpCfg.Port)
	return smtp.NewSender(addr, smtpCfg.Username, smtpCfg.Password, smtpCfg.From, f.logger), nil
}

// CreateCandidateIndex creates the static candidate index
func (f *CollaboratorFactory) CreateCandidateIndex() core.CandidateIndex {
	return index.NewStaticIndex(f.cfg.GetStringMapStringSlice("index.industries"), f.logger)
}

// CreateRetryPolicy builds the shared retry policy from configuration
func (f *CollaboratorFactory) CreateRetryPolicy() (core.RetryPolicy, error) {
	backoff, err := f.cfg.GetDuration("retry.initial_backoff")
	if err != nil {
		return core.RetryPolicy{}, fmt.Errorf("invalid retry.initial_backoff: %w", err)
	}
	jitter, err := f.cfg.GetDuration("retry.jitter")
	if err != nil {
		return core.RetryPolicy{}, fmt.Errorf("invalid retry.jitter: %w", err)
	}
	return core.RetryPolicy{
		MaxAttempts:    f.cfg.GetInt("retry.max_attempts"),
		InitialBackoff: backoff,
		Jitter:         jitter,
	}, nil
}
