package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/analysis"
	"github.com/spigell/cv-tailor/internal/cvtext"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare the CV with one or more jobs without generating a new CV",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringSlice("job", nil, "LinkedIn job id or job URL, can be repeated")
	analyzeCmd.Flags().String("cv", "", "CV file (pdf or text)")
	analyzeCmd.Flags().IntP("workers", "w", 0, "jobs analysed concurrently (default from config)")

	analyzeCmd.MarkFlagRequired("job")
	analyzeCmd.MarkFlagRequired("cv")
}

func analyze(cmd *cobra.Command) {
	ctx, cancel, logger, config := setup()
	defer cancel()

	jobFlags, _ := cmd.Flags().GetStringSlice("job")
	cvFile, _ := cmd.Flags().GetString("cv")
	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = config.Workers
	}

	cv, err := cvtext.Extract(cvFile)
	if err != nil {
		logger.Fatal("reading the cv", zap.Error(err), zap.String("cv", cvFile))
	}

	ids := make([]string, 0, len(jobFlags))
	for _, j := range jobFlags {
		ids = append(ids, jobs.ParseID(j))
	}

	batch := pipeline.NewBatch(
		newCache(config, logger),
		analysis.NewAnalyzer(mustInferrer(ctx, config, logger), logger),
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(workers),
	)

	failed := 0
	for _, res := range batch.Run(ctx, ids, cv) {
		if res.Failure != nil {
			failed++
			logger.Error("analysing the job",
				zap.String("job_id", res.JobID),
				zap.Error(res.Failure),
				zap.String("hint", hintFor(res.Failure.Reason)),
			)
			continue
		}
		printMarkdown(cmd, res.Job, res.Suggestions.Markdown())
	}

	if failed == len(ids) {
		logger.Fatal("no job could be analysed", zap.Int("jobs", len(ids)))
	}
}

func printMarkdown(cmd *cobra.Command, job *jobs.Record, body string) {
	out := cmd.OutOrStdout()
	if job != nil {
		fmt.Fprintf(out, "## %s\n", job.Title)
		if job.Company != "" {
			fmt.Fprintf(out, "%s\n", job.Company)
		}
		if job.URL != "" {
			fmt.Fprintf(out, "%s\n", job.URL)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%s\n\n", body)
}
