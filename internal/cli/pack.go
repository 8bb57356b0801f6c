package cli

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/scriptpack-dev/scriptpack/internal/archive"
	"github.com/scriptpack-dev/scriptpack/internal/bundle"
	"github.com/scriptpack-dev/scriptpack/internal/config"
	"github.com/scriptpack-dev/scriptpack/internal/fetch"
	"github.com/scriptpack-dev/scriptpack/internal/fileutil"
)

func RunPack(cmd *cobra.Command, args []string) error {
	group := args[0]
	scripts := fileutil.SplitTrimmed(args[1], ",")
	if len(scripts) == 0 {
		return fmt.Errorf("no script names in %q", args[1])
	}

	dev, err := cmd.Flags().GetBool("dev")
	if err != nil {
		return fmt.Errorf("failed to read --dev flag: %w", err)
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to read --output flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to read --jobs flag: %w", err)
	}
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to read --verbose flag: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if jobs == 0 {
		jobs = cfg.Jobs
	}

	version := cmd.Root().Version
	if version == "" {
		version = "dev"
	}

	logger := newLogger(verbose)
	client := fetch.NewClient(
		fetch.WithUserAgent("scriptpack/"+version),
		fetch.WithTimeout(cfg.FetchTimeout),
	)
	eng := bundle.NewEngine(client, logger)

	results := bundle.BundleAll(cmd.Context(), eng, cfg.RootURL, group, scripts, cfg.ScriptExt, jobs)

	entries := make([]archive.Entry, 0, len(results))
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			logger.Error("failed to bundle script", "script", res.Script, "error", res.Err)
			failed++
			continue
		}
		if dev {
			for _, line := range res.Lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
		}
		entries = append(entries, archive.Entry{
			Name:  res.Script + cfg.ScriptExt,
			Lines: res.Lines,
		})
	}

	if len(entries) == 0 {
		return fmt.Errorf("no scripts bundled successfully (%d failed)", failed)
	}
	if failed > 0 {
		logger.Warn("packed with failures", "packed", len(entries), "failed", failed)
	}

	data, err := archive.Build(entries)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := fileutil.WriteIfChanged(outputPath, data); err != nil {
			return fmt.Errorf("failed to write archive to %s: %w", outputPath, err)
		}
		logger.Info("wrote archive", "path", outputPath, "entries", len(entries), "bytes", len(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(data))
	return nil
}

func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "scriptpack",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
