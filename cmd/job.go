package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/jobs"
)

var jobCmd = &cobra.Command{
	Use:   "job <id or url>",
	Short: "Resolve a job through the cache and print it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showJob(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)
}

func showJob(cmd *cobra.Command, arg string) {
	ctx, cancel, logger, config := setup()
	defer cancel()

	id := jobs.ParseID(arg)
	cache := newCache(config, logger)

	job, found, err := cache.Resolve(ctx, id)
	if err != nil {
		logger.Fatal("resolving the job", zap.Error(err), zap.String("job_id", id))
	}
	if !found {
		logger.Fatal("job not found", zap.String("job_id", id))
	}

	pretty, _ := json.MarshalIndent(job, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))

	logger.Debug("job cache entry", zap.String("path", cache.Path(id)))
}
