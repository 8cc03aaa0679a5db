package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"catalogdedup/internal/config"
	"catalogdedup/internal/container"
	"catalogdedup/internal/domain/ingestion"
)

var (
	groupMaxItems int
	groupNoDump   bool
)

var groupCmd = &cobra.Command{
	Use:   "group <files...>",
	Short: "Group catalog files offline and print the groups",
	Long: `Ingest the given files in order, print the resulting groups and write the dump file.
Files with already seen content are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGroup,
}

func init() {
	groupCmd.Flags().IntVar(&groupMaxItems, "max-items", 5, "items to print per group (-1 for all)")
	groupCmd.Flags().BoolVar(&groupNoDump, "no-dump", false, "do not write the dump file")
}

func runGroup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.InboxDir = ""
	logger := config.NewLogger(cfg)

	c, err := container.NewContainer(cfg, logger, container.WithVersion(version))
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		result, err := c.UseCase.UploadFile(ctx, filepath.Base(path), content)
		switch {
		case errors.Is(err, ingestion.ErrDuplicateContent):
			fmt.Fprintf(out, "%s %s: content already processed\n", yellow("skip"), path)
		case err != nil:
			fmt.Fprintf(out, "%s %s: %v\n", red("fail"), path, err)
			return err
		default:
			fmt.Fprintf(out, "%s %s: %d items\n", green("ok"), path, result.Items)
		}
	}

	page := c.UseCase.ListGroups(0, -1, groupMaxItems)
	fmt.Fprintf(out, "\n%s\n", cyan(fmt.Sprintf("=== %d groups ===", page.Total)))
	for _, g := range page.Groups {
		header := fmt.Sprintf("[%d] %d items", g.ID, g.Size)
		if len(g.KeyWords) > 0 {
			header += " " + gray("keywords: "+strings.Join(g.KeyWords, ", "))
		}
		fmt.Fprintln(out, header)
		for _, item := range g.Items {
			fmt.Fprintf(out, "    %s %s\n", item.OriginalDescription, gray("("+item.OriginFile+")"))
		}
		if hidden := g.Size - len(g.Items); hidden > 0 {
			fmt.Fprintf(out, "    %s\n", gray(fmt.Sprintf("... %d more", hidden)))
		}
	}

	if groupNoDump {
		return nil
	}
	dump, err := c.UseCase.Dump(ctx, "cli")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s %s (%d groups, %d items)\n", green("dump written:"), cfg.DumpPath, dump.Groups, dump.Items)
	return nil
}
