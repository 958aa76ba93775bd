package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edgeforge/edgeforge/internal/core/domain"
	"github.com/edgeforge/edgeforge/internal/core/validation"
	"github.com/edgeforge/edgeforge/internal/shell/deploy"
	"github.com/edgeforge/edgeforge/internal/shell/registry"
	"github.com/edgeforge/edgeforge/internal/shell/store"
)

// =============================================================================
// Deploy Command
// =============================================================================

// runDeploy wires the full pipeline: load deploy config, validate, detect
// domains, plan, execute against the platform CLI, and record history.
func runDeploy(ctx context.Context, cfg *Config, logger *slog.Logger, opts cliOptions) int {
	deployConfigPath := cfg.Deploy.ConfigPath
	if opts.deployConfigPath != "" {
		deployConfigPath = opts.deployConfigPath
	}

	deployCfg, err := registry.LoadConfig(deployConfigPath)
	if err != nil {
		logger.Error("failed to load deploy config", "path", deployConfigPath, "error", err)
		return ExitConfigError
	}
	if deployCfg == nil {
		logger.Warn("deploy config not found, relying on environment override",
			"path", deployConfigPath,
			"env", registry.DomainsEnvVar,
		)
	}

	if deployCfg != nil {
		result := validation.ValidateConfig(deployCfg)
		for _, warning := range result.Warnings {
			logger.Warn("deploy config warning", "warning", warning)
		}
		if !result.Valid {
			for _, msg := range result.Errors {
				fmt.Fprintf(os.Stderr, "deploy config error: %s\n", msg)
			}
			return ExitConfigError
		}
		if opts.validateOnly {
			fmt.Println("deploy config is valid")
			return ExitSuccess
		}
	}

	reg := registry.New(deployCfg, logger)

	selected := opts.domains
	if len(selected) == 0 {
		selected = reg.Domains()
	}

	plan, err := reg.Plan(selected, opts.parallelism)
	if err != nil {
		logger.Error("planning failed", "error", err)
		return ExitConfigError
	}

	if opts.dryRun {
		return printJSON(plan)
	}

	// Optional run history
	var history store.Store
	if cfg.History.Enabled {
		history, err = store.NewSQLiteStore(cfg.History.DSN)
		if err != nil {
			logger.Error("failed to open history store", "dsn", cfg.History.DSN, "error", err)
			return ExitStoreError
		}
		defer history.Close()
	}

	run := &domain.Run{
		ID:           uuid.New().String(),
		StartedAt:    time.Now().UTC(),
		TotalDomains: plan.TotalDomains,
	}
	if history != nil {
		if err := history.CreateRun(ctx, run); err != nil {
			logger.Error("failed to record run", "run_id", run.ID, "error", err)
			return ExitStoreError
		}
	}

	executor := deploy.NewExecutor(logger)
	result, execErr := executor.Execute(ctx, selected, platformDeployFunc(cfg.Deploy), deploy.Options{
		Parallelism:     opts.parallelism,
		RollbackOnError: opts.rollbackOnError,
	})

	if history != nil {
		recordRun(ctx, history, run, result, execErr != nil, logger)
	}

	if code := printJSON(result); code != ExitSuccess {
		return code
	}

	if execErr != nil {
		logger.Error("deployment run failed", "run_id", run.ID, "error", execErr)
		return ExitDeployFailed
	}
	if len(result.Failed) > 0 {
		return ExitDeployFailed
	}
	return ExitSuccess
}

// =============================================================================
// Platform Deploy Operation
// =============================================================================

// platformDeployFunc builds the deploy operation: one invocation of the
// configured platform CLI per domain, with the domain identifier as the
// final argument. The per-domain timeout lives here, not in the executor.
func platformDeployFunc(cfg DeployConfig) deploy.Func {
	return func(ctx context.Context, domainID string) (string, error) {
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		args := append(append([]string{}, cfg.Args...), domainID)
		cmd := exec.CommandContext(ctx, cfg.Command, args...)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return "", fmt.Errorf("%s %s: %w: %s",
				cfg.Command, strings.Join(args, " "), err, truncate(string(output), 512))
		}
		return string(output), nil
	}
}

// =============================================================================
// Helpers
// =============================================================================

// recordRun persists the aggregated outcome. History failures are logged but
// never fail the run itself.
func recordRun(ctx context.Context, history store.Store, run *domain.Run, result *domain.Result, rollback bool, logger *slog.Logger) {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Duration = result.Duration
	run.Succeeded = len(result.Successful)
	run.Failed = len(result.Failed)
	run.RollbackTriggered = rollback && len(result.Failed) > 0

	targets := make([]domain.RunTarget, 0, len(result.Successful)+len(result.Failed))
	for _, s := range result.Successful {
		targets = append(targets, domain.RunTarget{
			RunID:  run.ID,
			Domain: s.Domain,
			Status: domain.RunStatusSucceeded,
			Output: truncate(s.Output, 4096),
		})
	}
	for _, f := range result.Failed {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		targets = append(targets, domain.RunTarget{
			RunID:  run.ID,
			Domain: f.Domain,
			Status: domain.RunStatusFailed,
			Error:  truncate(msg, 4096),
		})
	}

	if err := history.AddRunTargets(ctx, run.ID, targets); err != nil {
		logger.Error("failed to record run targets", "run_id", run.ID, "error", err)
	}
	if err := history.FinishRun(ctx, run); err != nil {
		logger.Error("failed to finish run record", "run_id", run.ID, "error", err)
	}
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render output: %v\n", err)
		return ExitConfigError
	}
	fmt.Println(string(data))
	return ExitSuccess
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
