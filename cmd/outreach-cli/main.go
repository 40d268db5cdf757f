package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mikey/icp-outreach/internal/adapters/crust"
	"github.com/mikey/icp-outreach/internal/config"
	"github.com/mikey/icp-outreach/internal/core"
	"github.com/mikey/icp-outreach/internal/factory"
	"github.com/mikey/icp-outreach/internal/logging"
	"github.com/mikey/icp-outreach/internal/utils"
)

var (
	// ICP flags
	industries   = flag.String("industries", "", "Comma-separated list of target industries")
	revenueMin   = flag.Int("revenue-min", 0, "Minimum annual revenue in USD")
	revenueMax   = flag.Int("revenue-max", 0, "Maximum annual revenue in USD")
	headcountMin = flag.Int("headcount-min", 0, "Minimum employee count")
	headcountMax = flag.Int("headcount-max", 0, "Maximum employee count")
	topN         = flag.Int("top-n", 20, "How many ranked companies to print")

	// Decision-maker flags
	company     = flag.String("company", "", "Resolve decision-makers for this company domain only")
	targetCount = flag.Int("target-count", 5, "How many decision-makers to resolve per company")

	// Draft preview flags
	preview       = flag.String("preview", "", "Generate a draft preview for the first decision-maker of this company domain")
	productVision = flag.String("product-vision", "", "Product vision used for draft generation")

	// LLM provider flags
	provider        = flag.String("provider", "openai", "LLM provider (openai, gemini, bedrock)")
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")
	bedrockRegion   = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID  = flag.String("bedrock-model", "anthropic.claude-3-sonnet-20240229-v1:0", "Bedrock model ID")

	// Company-data provider flags
	crustBaseURL = flag.String("crust-base-url", "https://api.crustdata.com", "Company-data provider base URL")
	crustAPIKey  = flag.String("crust-api-key", "", "Company-data provider API key")

	// Output flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	collaborators := factory.NewCollaboratorFactory(cfg, logger)
	crustClient, err := collaborators.CreateCompanyDataClient()
	if err != nil {
		logger.Fatal("Failed to create company-data client", zap.Error(err))
	}
	retryPolicy, err := collaborators.CreateRetryPolicy()
	if err != nil {
		logger.Fatal("Failed to build retry policy", zap.Error(err))
	}

	ctx := context.Background()

	switch {
	case *preview != "":
		runPreview(ctx, cfg, logger, crustClient, retryPolicy)
	case *company != "":
		runPeople(ctx, cfg, logger, crustClient, retryPolicy, *company)
	default:
		runDiscovery(ctx, cfg, logger, collaborators, crustClient, retryPolicy)
	}
}

// runDiscovery ranks companies against the ICP built from flags and
// prints the result table.
func runDiscovery(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	collaborators *factory.CollaboratorFactory,
	crustClient core.CompanyDataClient,
	retryPolicy core.RetryPolicy,
) {
	icp := icpFromFlags()

	resolver := core.NewCandidateResolver(
		collaborators.CreateCandidateIndex(),
		cfg.GetInt("discovery.candidate_cap"),
		logger,
	)
	discoveryCfg := cfg.GetDiscovery()
	discovery := core.NewDiscoveryService(
		resolver,
		crustClient,
		retryPolicy,
		logger,
		discoveryCfg.BatchSize,
		discoveryCfg.Concurrency,
		discoveryCfg.TopN,
	)

	result, err := discovery.Discover(ctx, icp, *topN)
	if err != nil {
		logger.Fatal("Company discovery failed", zap.Error(err))
	}

	if result.Partial() {
		fmt.Printf("Partial result: %d identifiers could not be fetched\n\n", len(result.FailedIdentifiers))
	}
	fmt.Printf("%-30s %-25s %8s %10s %12s\n", "DOMAIN", "NAME", "SCORE", "HEADCOUNT", "REVENUE")
	for _, ranked := range result.Companies {
		c := ranked.Candidate
		fmt.Printf("%-30s %-25s %8.3f %10d %12d\n", c.Domain, c.Name, ranked.Score.Total, c.Headcount, c.RevenueLower)
	}
}

// runPeople prints the ranked decision-makers for one company.
func runPeople(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	crustClient core.PeopleClient,
	retryPolicy core.RetryPolicy,
	companyDomain string,
) {
	people := core.NewPeopleService(crustClient, retryPolicy, logger, cfg.GetInt("people.target_count"))

	makers, err := people.Resolve(ctx, companyDomain, *targetCount)
	if err != nil {
		logger.Fatal("Decision-maker resolution failed", zap.Error(err))
	}
	if len(makers) == 0 {
		fmt.Printf("No decision-makers found at %s\n", companyDomain)
		return
	}

	fmt.Printf("%-25s %-35s %5s %-30s\n", "NAME", "TITLE", "TIER", "EMAIL")
	for _, dm := range makers {
		fmt.Printf("%-25s %-35s %5d %-30s\n", dm.Name, dm.Title, dm.Tier, dm.Email)
	}
}

// runPreview generates (but never delivers) one draft for the most senior
// decision-maker at the given company.
func runPreview(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	crustClient *crust.Client,
	retryPolicy core.RetryPolicy,
) {
	people := core.NewPeopleService(crustClient, retryPolicy, logger, cfg.GetInt("people.target_count"))
	makers, err := people.Resolve(ctx, *preview, 1)
	if err != nil {
		logger.Fatal("Decision-maker resolution failed", zap.Error(err))
	}
	if len(makers) == 0 {
		fmt.Printf("No decision-makers found at %s\n", *preview)
		return
	}
	dm := makers[0]

	companies, err := crustClient.FetchCompanies(ctx, []string{*preview})
	if err != nil || len(companies) == 0 {
		logger.Fatal("Failed to fetch company attributes", zap.Error(err))
	}

	llmFactory := factory.NewLLMFactory(cfg, logger)
	generator, err := llmFactory.CreateTextGenerator()
	if err != nil {
		logger.Fatal("Failed to create text generator", zap.Error(err))
	}

	generation := core.NewGenerationService(
		generator,
		retryPolicy,
		logger,
		utils.NewTextProcessor(logger),
		cfg.GetInt("generation.max_prompt_size"),
	)
	draft, err := generation.Generate(ctx, dm, companies[0], *productVision)
	if err != nil {
		logger.Fatal("Draft generation failed", zap.Error(err))
	}

	fmt.Println("--- Draft Preview ---")
	fmt.Printf("To: %s (%s)\n", dm.Name, dm.Email)
	fmt.Printf("Subject: %s\n\n", draft.Subject)
	fmt.Println(draft.Body)

	if closer, ok := generator.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close text generator", zap.Error(err))
		}
	}
}

// icpFromFlags builds the ICP from command line flags.
func icpFromFlags() core.ICP {
	var list []string
	if *industries != "" {
		for _, ind := range strings.Split(*industries, ",") {
			list = append(list, strings.TrimSpace(ind))
		}
	}
	return core.ICP{
		Industries:   list,
		RevenueMin:   *revenueMin,
		RevenueMax:   *revenueMax,
		HeadcountMin: *headcountMin,
		HeadcountMax: *headcountMax,
	}
}

// createConfigFromFlags creates a configuration from command line flags.
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", *provider)
	v.Set("openai.api_key", *openaiAPIKey)
	v.Set("openai.model_name", *openaiModelName)
	v.Set("gemini.api_key", *geminiAPIKey)
	v.Set("gemini.model_name", *geminiModelName)
	v.Set("bedrock.region", *bedrockRegion)
	v.Set("bedrock.model_id", *bedrockModelID)
	v.Set("crust.base_url", *crustBaseURL)
	v.Set("crust.api_key", *crustAPIKey)
	v.Set("discovery.top_n", *topN)
	v.Set("people.target_count", *targetCount)

	applyEnvFallbacks(v)

	return config.NewFromViper(v)
}

// applyEnvFallbacks lets credentials come from the environment when the
// corresponding flag was left empty.
func applyEnvFallbacks(v *viper.Viper) {
	if v.GetString("crust.api_key") == "" {
		v.Set("crust.api_key", os.Getenv("OUTREACH_CRUST_API_KEY"))
	}
	if v.GetString("openai.api_key") == "" {
		v.Set("openai.api_key", os.Getenv("OUTREACH_OPENAI_API_KEY"))
	}
	if v.GetString("gemini.api_key") == "" {
		v.Set("gemini.api_key", os.Getenv("OUTREACH_GEMINI_API_KEY"))
	}
}
