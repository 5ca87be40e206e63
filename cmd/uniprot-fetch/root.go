package main

import (
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sequencetools/uniprot-client/internal/config"
	"github.com/sequencetools/uniprot-client/pkg/client"
	"github.com/sequencetools/uniprot-client/pkg/fetch"
	"github.com/sequencetools/uniprot-client/pkg/logging"
	"github.com/sequencetools/uniprot-client/pkg/search"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	uniClient *client.Client
	paginator *search.Paginator
	fetcher   *fetch.Fetcher
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "uniprot-fetch",
	Short: "Search and retrieve UniProt sequence records in batch",
	Long: `uniprot-fetch turns a UniProt search query into a list of record
identifiers and retrieves the matching records as XML through the
asynchronous batch-export protocol (submit, redirect, poll).`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(fetchCmd)
}

// initializeApp loads the configuration and builds the clients.
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format != "json",
		Output: os.Stderr,
	})

	clientCfg := client.DefaultConfig(cfg.UniProt.Contact)
	clientCfg.ListURL = cfg.UniProt.ListURL
	clientCfg.BatchURL = cfg.UniProt.BatchURL
	clientCfg.Timeout = time.Duration(cfg.UniProt.TimeoutSeconds) * time.Second
	clientCfg.MinRequestInterval = time.Duration(cfg.UniProt.MinRequestIntervalMS) * time.Millisecond

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(cmd.Context()).Err(); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, continuing without page cache")
			clientCfg.MinRequestInterval = 0
		} else {
			clientCfg.Redis = redisClient
			clientCfg.CacheTTL = time.Duration(cfg.Redis.CacheTTLMinutes) * time.Minute
		}
	}

	uniClient, err = client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("failed to create UniProt client: %w", err)
	}

	fetchCfg := fetch.DefaultConfig()
	fetchCfg.Batch.PollInterval = time.Duration(cfg.UniProt.PollIntervalSeconds) * time.Second
	fetchCfg.Batch.PollBudget = cfg.UniProt.PollBudget

	paginator = search.NewPaginator(uniClient, fetchCfg.Search)
	fetcher = fetch.New(uniClient, fetchCfg)

	return nil
}
