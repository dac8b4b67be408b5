package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/ai/gemini"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/pipeline"
	"github.com/spigell/cv-tailor/internal/secrets"
)

// setup returns the logger, the parsed config and a context cancelled on interrupt.
func setup() (context.Context, context.CancelFunc, *zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	return ctx, cancel, logger, config
}

// newCache builds the job cache. Without an Apify token only cached jobs resolve.
func newCache(config *Config, logger *zap.Logger) *jobs.Cache {
	var remote jobs.Lookup

	token, err := secrets.Load(secrets.Source{
		Name: "apify token",
		File: config.Apify.TokenFile,
		Env:  "APIFY_API_TOKEN",
	})
	if err != nil {
		logger.Warn("remote job lookup is disabled, only cached jobs are available",
			zap.Error(err),
			zap.String("hint", "set APIFY_TOKEN_FILE environment variable or the 'apify.token-file' key in the configuration file"),
		)
	} else {
		client := jobs.NewApifyClient(logger, token)
		if config.Apify.Actor != "" {
			client.Actor = config.Apify.Actor
		}
		if config.Apify.APIURL != "" {
			client.APIURL = strings.TrimRight(config.Apify.APIURL, "/")
		}
		if config.Apify.Timeout > 0 {
			client.HTTPClient.Timeout = config.Apify.Timeout
		}
		remote = client
	}

	return jobs.NewCache(config.CacheDir, remote, logger)
}

func newInferrer(ctx context.Context, config *Config, logger *zap.Logger) (ai.Inferrer, error) {
	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (or set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxLogLength, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("ai client ready", zap.String("provider", "gemini"), zap.String("model", generator.Model()))

	return generator, nil
}

func mustInferrer(ctx context.Context, config *Config, logger *zap.Logger) ai.Inferrer {
	inferrer, err := newInferrer(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the ai client", zap.Error(err))
	}
	return inferrer
}

func hintFor(reason pipeline.Reason) string {
	switch reason {
	case pipeline.ReasonJobNotFound:
		return "check the job id or the LinkedIn job URL"
	case pipeline.ReasonRemoteLookupFailed:
		return "check the apify token and the 'apify' section of the configuration file"
	case pipeline.ReasonProfileMissing:
		return "create a profile with 'cv-tailor profile edit'"
	case pipeline.ReasonInputMissing:
		return "pass a job with --job and a non-empty CV with --cv"
	case pipeline.ReasonAnalysisFailed, pipeline.ReasonGenerationFailed:
		return "check the gemini api key and model, then try again"
	default:
		return ""
	}
}

func writeOutput(path, text string) error {
	if path == "" {
		_, err := fmt.Fprintln(os.Stdout, text)
		return err
	}
	return os.WriteFile(path, []byte(text+"\n"), 0o644)
}
