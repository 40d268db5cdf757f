package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mikey/icp-outreach/internal/config"
	"github.com/mikey/icp-outreach/internal/core"
	"github.com/mikey/icp-outreach/internal/di"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one full outreach pass: discover companies for the
// configured ICP, resolve decision-makers at the top companies, generate
// a draft per reachable person and deliver it. A SIGINT/SIGTERM cancels
// in-flight collaborator calls; partial results already fetched are kept.
func run(
	logger *zap.Logger,
	cfg *config.Config,
	engine *core.Engine,
	generator core.TextGenerator,
	store core.DeliveryStore,
) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	icp := core.ICP{
		Industries:   cfg.GetStringSlice("icp.industries"),
		RevenueMin:   cfg.GetInt("icp.revenue_min"),
		RevenueMax:   cfg.GetInt("icp.revenue_max"),
		HeadcountMin: cfg.GetInt("icp.headcount_min"),
		HeadcountMax: cfg.GetInt("icp.headcount_max"),
	}
	productVision := cfg.GetString("generation.product_vision")
	maxCompanies := cfg.GetInt("pipeline.max_companies")
	dryRun := cfg.GetBool("pipeline.dry_run")

	result, err := engine.DiscoverCompanies(ctx, icp, 0)
	if err != nil {
		logger.Error("Company discovery failed", zap.Error(err))
		return err
	}
	logger.Info("Discovered companies",
		zap.Int("count", len(result.Companies)),
		zap.Bool("partial", result.Partial()),
		zap.Int("failed_identifiers", len(result.FailedIdentifiers)))

	companies := result.Companies
	if len(companies) > maxCompanies {
		companies = companies[:maxCompanies]
	}

	var sent, failed atomic.Int32
	var skipped int
	for _, ranked := range companies {
		makers, err := engine.ResolveDecisionMakers(ctx, ranked.Candidate.Domain, 0)
		if err != nil {
			logger.Warn("Decision-maker resolution failed",
				zap.String("company", ranked.Candidate.Domain),
				zap.Error(err))
			continue
		}
		if len(makers) == 0 {
			logger.Info("No decision-makers found",
				zap.String("company", ranked.Candidate.Domain))
			continue
		}

		// Draft generation for the company's recipients runs with the
		// same bounded concurrency as discovery batch fetches.
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.GetInt("discovery.concurrency"))
		for _, dm := range makers {
			if dm.Email == "" {
				skipped++
				logger.Debug("Skipping decision-maker without email",
					zap.String("name", dm.Name),
					zap.String("company", dm.CompanyDomain))
				continue
			}
			dm := dm
			candidate := ranked.Candidate
			g.Go(func() error {
				draft, err := engine.GenerateDraft(gctx, dm, candidate, productVision)
				if err != nil {
					logger.Warn("Draft generation failed",
						zap.String("recipient", dm.Name),
						zap.Error(err))
					failed.Add(1)
					return nil
				}
				if dryRun {
					logger.Info("Dry run, skipping delivery",
						zap.String("draft_id", draft.ID),
						zap.String("recipient", dm.Email),
						zap.String("subject", draft.Subject))
					return nil
				}
				rec, err := engine.Deliver(gctx, draft, dm.Email)
				if err != nil {
					logger.Warn("Delivery failed",
						zap.String("recipient", dm.Email),
						zap.Error(err))
					failed.Add(1)
					return nil
				}
				if rec.Status == core.StatusSent {
					sent.Add(1)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	logger.Info("Outreach pass complete",
		zap.Int("companies", len(companies)),
		zap.Int32("sent", sent.Load()),
		zap.Int32("failed", failed.Load()),
		zap.Int("skipped_no_email", skipped))

	// Close any resources that need closing
	if closer, ok := generator.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close text generator", zap.Error(err))
		}
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close delivery store", zap.Error(err))
		}
	}

	return nil
}
