package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/analysis"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/profile"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Compare the saved profile with a job and suggest profile improvements",
	Run: func(cmd *cobra.Command, _ []string) {
		fit(cmd)
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)

	fitCmd.Flags().String("job", "", "LinkedIn job id or job URL")
	fitCmd.MarkFlagRequired("job")
}

func fit(cmd *cobra.Command) {
	ctx, cancel, logger, config := setup()
	defer cancel()

	jobFlag, _ := cmd.Flags().GetString("job")
	id := jobs.ParseID(jobFlag)

	p, err := profile.NewFile(config.ProfileFile).Load(ctx)
	if err != nil {
		hint := ""
		if errors.Is(err, profile.ErrMissing) {
			hint = "create a profile with 'cv-tailor profile edit'"
		}
		logger.Fatal("loading the profile", zap.Error(err), zap.String("hint", hint))
	}

	job, found, err := newCache(config, logger).Resolve(ctx, id)
	if err != nil {
		logger.Fatal("resolving the job", zap.Error(err), zap.String("job_id", id))
	}
	if !found {
		logger.Fatal("job not found", zap.String("job_id", id), zap.String("hint", "check the job id or the LinkedIn job URL"))
	}

	result, err := analysis.NewAnalyzer(mustInferrer(ctx, config, logger), logger).AnalyzeProfile(ctx, job, p)
	if err != nil {
		logger.Fatal("analysing the profile", zap.Error(err))
	}

	printMarkdown(cmd, &job, result.Markdown())
}
