package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"catalogdedup/internal/config"
)

var configCheckCmd = &cobra.Command{
	Use:   "config-check",
	Short: "Validate and print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		fmt.Fprintf(out, "%s\n\n", cyan("=== Configuration check ==="))

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", red("✗"), err)
			return err
		}

		set := func(v string) string {
			if v == "" {
				return yellow("[not set]")
			}
			return green("[set]")
		}

		fmt.Fprintln(out, yellow("Server:"))
		fmt.Fprintf(out, "  Port: %s\n", cfg.Port)
		fmt.Fprintf(out, "  Max upload size: %d MB\n", cfg.MaxUploadSizeMB)
		fmt.Fprintf(out, "  Log: %s (%s)\n\n", cfg.LogLevel, cfg.LogFormat)

		g := cfg.Grouping
		fmt.Fprintln(out, yellow("Grouping:"))
		fmt.Fprintf(out, "  Similarity threshold: %.2f\n", g.SimilarityThreshold)
		fmt.Fprintf(out, "  Weights: jaccard %.2f, levenshtein %.2f\n", g.JaccardWeight, g.LevenshteinWeight)
		fmt.Fprintf(out, "  Group sample size: %d\n", g.SampleSize)
		fmt.Fprintf(out, "  Max candidates: %d\n", g.MaxCandidates)
		fmt.Fprintf(out, "  Keyword match ratio: %.2f\n", g.KeywordMatchRatio)
		fmt.Fprintf(out, "  Scoring workers: %d\n", g.ScoringWorkers)
		fmt.Fprintf(out, "  Stemmer: %s\n\n", g.StemmerLanguage)

		a := cfg.AI
		fmt.Fprintln(out, yellow("AI:"))
		fmt.Fprintf(out, "  Provider: %s (model %s)\n", a.Provider, a.Model)
		fmt.Fprintf(out, "  API key: %s\n", set(a.APIKey))
		if a.BaseURL != "" {
			fmt.Fprintf(out, "  Base URL: %s\n", a.BaseURL)
		}
		fmt.Fprintf(out, "  Timeout: %v, retries: %d, rate limit: %.1f/s\n", a.Timeout, a.MaxRetries, a.RateLimitPerSec)
		if a.FallbackProvider != "" {
			fmt.Fprintf(out, "  Fallback: %s (model %s), key %s\n", a.FallbackProvider, a.FallbackModel, set(a.FallbackAPIKey))
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, yellow("Files:"))
		fmt.Fprintf(out, "  Dump: %s\n", cfg.DumpPath)
		fmt.Fprintf(out, "  Upload archive: %s\n", orNone(cfg.UploadDir))
		fmt.Fprintf(out, "  Inbox: %s\n", orNone(cfg.InboxDir))
		fmt.Fprintf(out, "  Snapshot DB: %s\n\n", orNone(cfg.SnapshotDatabasePath))

		fmt.Fprintf(out, "%s\n", green("✓ configuration is valid"))
		return nil
	},
}

func orNone(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
