package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess      = 0
	ExitConfigError  = 1
	ExitStoreError   = 2
	ExitDeployFailed = 3
)

// cliOptions holds the parsed command line flags.
type cliOptions struct {
	deployConfigPath string
	domains          []string
	parallelism      int
	rollbackOnError  bool
	dryRun           bool
	validateOnly     bool
}

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to app config file")
	deployConfigPath := flag.String("deploy-config", "", "Path to deploy config file (overrides app config)")
	domainsFlag := flag.String("domains", "", "Comma-separated subset of domains to deploy (default: all detected)")
	parallelism := flag.Int("parallel", 0, "Max concurrent deployments per batch (overrides app config)")
	rollbackOnError := flag.Bool("rollback-on-error", false, "Fail the whole run when any domain fails")
	dryRun := flag.Bool("dry-run", false, "Print the deployment plan without executing it")
	validateOnly := flag.Bool("validate", false, "Validate the deploy config and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("edgeforge %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	}

	// Load configuration
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}

	// Setup logger
	logger := SetupLogger(cfg)
	logger.Info("starting edgeforge",
		"version", Version,
		"config", *configPath,
	)

	opts := cliOptions{
		deployConfigPath: *deployConfigPath,
		parallelism:      *parallelism,
		rollbackOnError:  *rollbackOnError || cfg.Deploy.RollbackOnError,
		dryRun:           *dryRun,
		validateOnly:     *validateOnly,
	}
	if *domainsFlag != "" {
		for _, id := range strings.Split(*domainsFlag, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				opts.domains = append(opts.domains, id)
			}
		}
	}
	if opts.parallelism == 0 {
		opts.parallelism = cfg.Deploy.Parallelism
	}

	return runDeploy(context.Background(), cfg, logger, opts)
}
