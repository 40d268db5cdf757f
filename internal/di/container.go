package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/icp-outreach/internal/adapters/crust"
	"github.com/mikey/icp-outreach/internal/config"
	"github.com/mikey/icp-outreach/internal/core"
	"github.com/mikey/icp-outreach/internal/factory"
	"github.com/mikey/icp-outreach/internal/logging"
	"github.com/mikey/icp-outreach/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCollaboratorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register retry policy
	if err := container.Provide(func(f *factory.CollaboratorFactory) (core.RetryPolicy, error) {
		return f.CreateRetryPolicy()
	}); err != nil {
		return nil, err
	}

	// Register collaborators
	if err := container.Provide(func(f *factory.CollaboratorFactory) (*crust.Client, error) {
		return f.CreateCompanyDataClient()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *crust.Client) core.CompanyDataClient {
		return c
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *crust.Client) core.PeopleClient {
		return c
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CollaboratorFactory) core.CandidateIndex {
		return f.CreateCandidateIndex()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CollaboratorFactory) (core.EmailSender, error) {
		return f.CreateEmailSender()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.LLMFactory) (core.TextGenerator, error) {
		return f.CreateTextGenerator()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.StoreFactory) (core.DeliveryStore, error) {
		return f.CreateDeliveryStore()
	}); err != nil {
		return nil, err
	}

	// Register pipeline services
	if err := container.Provide(func(idx core.CandidateIndex, cfg *config.Config, logger *zap.Logger) *core.CandidateResolver {
		return core.NewCandidateResolver(idx, cfg.GetInt("discovery.candidate_cap"), logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		resolver *core.CandidateResolver,
		companyData core.CompanyDataClient,
		retry core.RetryPolicy,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.DiscoveryService {
		discoveryCfg := cfg.GetDiscovery()
		return core.NewDiscoveryService(
			resolver,
			companyData,
			retry,
			logger,
			discoveryCfg.BatchSize,
			discoveryCfg.Concurrency,
			discoveryCfg.TopN,
		)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		people core.PeopleClient,
		retry core.RetryPolicy,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.PeopleService {
		return core.NewPeopleService(people, retry, logger, cfg.GetInt("people.target_count"))
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		generator core.TextGenerator,
		retry core.RetryPolicy,
		cfg *config.Config,
		logger *zap.Logger,
		tp *utils.TextProcessor,
	) *core.GenerationService {
		return core.NewGenerationService(generator, retry, logger, tp, cfg.GetInt("generation.max_prompt_size"))
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		sender core.EmailSender,
		store core.DeliveryStore,
		retry core.RetryPolicy,
		logger *zap.Logger,
	) *core.DeliveryService {
		return core.NewDeliveryService(sender, store, retry, logger)
	}); err != nil {
		return nil, err
	}

	// Register engine facade
	if err := container.Provide(core.NewEngine); err != nil {
		return nil, err
	}

	return container, nil
}
