package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"word_etymology/config"
	"word_etymology/etymology"
)

var (
	configPath string
	verbose    bool
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "etymo",
	Short: "Word etymology lookup service",
	Long: `etymo corrects the spelling of a word, asks a language model for its
etymology and returns a four-field answer: modern meaning, century of
origin, detailed etymology and a fun fact.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		loaded = cfg
		logger, err = buildLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loaded is the configuration read by PersistentPreRunE.
var loaded config.Config

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json or config.yaml (defaults when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
	rootCmd.AddCommand(serveCmd, lookupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildLogger(cfg config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	level := zapcore.InfoLevel
	if cfg.Log.Level != "" {
		if err := level.Set(cfg.Log.Level); err != nil {
			return nil, err
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// buildAgent wires the model client and speller described by cfg.
func buildAgent(cfg config.Config) (*etymology.Agent, error) {
	llm, err := etymology.NewLLM(&etymology.LLMSettings{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return nil, err
	}

	var speller etymology.Speller = etymology.PassthroughSpeller{}
	if !cfg.Speller.Disabled {
		client := &http.Client{Timeout: cfg.SpellerTimeout()}
		speller = etymology.NewDatamuseSpeller(cfg.Speller.BaseURL, client, logger.Named("speller"))
	}

	return etymology.NewAgent(llm,
		etymology.WithSpeller(speller),
		etymology.WithTimeout(cfg.Timeout()),
		etymology.WithLogger(logger.Named("agent")),
	)
}
