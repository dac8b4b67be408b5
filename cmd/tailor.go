package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/analysis"
	"github.com/spigell/cv-tailor/internal/cvtext"
	"github.com/spigell/cv-tailor/internal/generation"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/pipeline"
	"github.com/spigell/cv-tailor/internal/profile"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Analyse the CV against a job and generate a tailored CV",
	Run: func(cmd *cobra.Command, _ []string) {
		tailor(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tailorCmd)

	tailorCmd.Flags().String("job", "", "LinkedIn job id or job URL")
	tailorCmd.Flags().String("cv", "", "CV file (pdf or text)")
	tailorCmd.Flags().StringP("output", "o", "", "write the tailored CV to the file instead of stdout")
	tailorCmd.Flags().Bool("show-analysis", false, "print the match analysis before the CV")

	tailorCmd.MarkFlagRequired("job")
	tailorCmd.MarkFlagRequired("cv")
}

func tailor(cmd *cobra.Command) {
	ctx, cancel, logger, config := setup()
	defer cancel()

	jobFlag, _ := cmd.Flags().GetString("job")
	cvFile, _ := cmd.Flags().GetString("cv")
	output, _ := cmd.Flags().GetString("output")
	showAnalysis, _ := cmd.Flags().GetBool("show-analysis")

	cv, err := cvtext.Extract(cvFile)
	if err != nil {
		logger.Fatal("reading the cv", zap.Error(err), zap.String("cv", cvFile))
	}

	inferrer := mustInferrer(ctx, config, logger)

	orchestrator := pipeline.New(
		profile.NewFile(config.ProfileFile),
		newCache(config, logger),
		analysis.NewAnalyzer(inferrer, logger),
		generation.NewGenerator(inferrer, logger),
		pipeline.WithLogger(logger),
	)

	state, err := orchestrator.Run(ctx, pipeline.Input{
		JobID:      jobs.ParseID(jobFlag),
		OriginalCV: cv,
	})
	if err != nil {
		reason := pipeline.ReasonOf(err)
		logger.Fatal("tailoring the cv",
			zap.Error(err),
			zap.String("reason", string(reason)),
			zap.String("run_id", state.RunID),
			zap.String("hint", hintFor(reason)),
		)
	}

	if showAnalysis {
		printMarkdown(cmd, state.Job, state.Suggestions.Markdown())
	}

	if err := writeOutput(output, state.FinalCV); err != nil {
		logger.Fatal("writing the tailored cv", zap.Error(err))
	}

	if output != "" {
		logger.Info("tailored cv written", zap.String("filename", output), zap.Int("score", state.Suggestions.Score))
	}
}
