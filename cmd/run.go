package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/recruitflow/recruitflow/internal/embedding"
	"github.com/recruitflow/recruitflow/internal/extract"
	"github.com/recruitflow/recruitflow/internal/logger"
	"github.com/recruitflow/recruitflow/internal/matching"
	"github.com/recruitflow/recruitflow/internal/notify"
	"github.com/recruitflow/recruitflow/internal/secrets"
	"github.com/recruitflow/recruitflow/internal/vectorstore"
	"github.com/recruitflow/recruitflow/internal/workflow"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptSendEmails   = "Send outreach emails"
	PromptShowReport   = "Show the run report"
	PromptReportToFile = "Dump the run report to file"
	PromptQuit         = "Quit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptSendEmails, PromptShowReport, PromptReportToFile, PromptQuit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the recruitflow matching pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-aprove", "y", false, "send outreach emails without confirmation")
	runCmd.Flags().StringP("job-description", "J", "", "path to the job description PDF")
	runCmd.Flags().StringP("roster", "r", "", "path to the candidate roster CSV")

	viper.BindPFlag("job-description", runCmd.Flags().Lookup("job-description"))
	viper.BindPFlag("roster", runCmd.Flags().Lookup("roster"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the recruitflow", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	jobPath := firstNonEmpty(viper.GetString("job-description"), config.JobDescription)
	rosterPath := firstNonEmpty(viper.GetString("roster"), config.Roster)
	if jobPath == "" || rosterPath == "" {
		logger.Fatal("both the job description and the roster are required",
			zap.String("hint", "set job-description and roster in the config file or pass the flags"),
		)
	}

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'embedding.api-key-file' key in the configuration file"),
		)
	}

	var embCfg EmbeddingConfig
	if config.Embedding != nil {
		embCfg = *config.Embedding
	}
	provider := embedding.NewGeminiProvider(apiKey, embCfg.Model, embCfg.Dimension, logger)

	var matchCfg matching.Config
	if config.Matching != nil {
		matchCfg = *config.Matching
	}

	orch := buildOrchestrator(config, provider, matchCfg, logger)

	result := orch.Run(ctx, workflow.RunRequest{
		JobDescriptionPath: jobPath,
		RosterPath:         rosterPath,
	})
	if !result.Success {
		logger.Fatal("pipeline failed", zap.Any("stages", result.Stages))
	}

	logger.Info("pipeline completed",
		zap.Int("candidates_evaluated", result.CandidatesEvaluated),
		zap.Int("matches_found", result.MatchesFound),
	)

	if result.MatchesFound == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates above threshold"))
		return
	}

	if cmd.Flag("auto-aprove").Value.String() == "true" {
		if err := sendEmails(ctx, orch, result, config, logger); err != nil {
			logger.Fatal("sending outreach emails", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, orch, result, config, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, orch *workflow.Orchestrator, result *workflow.RunResult, config *Config, logger *zap.Logger) error {
	switch action {
	case PromptSendEmails:
		return sendEmails(ctx, orch, result, config, logger)
	case PromptShowReport:
		pretty, _ := json.MarshalIndent(workflow.BuildReport(orch.LastRun()), "", "  ")
		logger.Info(string(pretty))
		return nil
	case PromptReportToFile:
		filename, err := dumpReport(orch.LastRun())
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptQuit:
		logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// sendEmails runs the notification stage against the matches of the finished
// run.
func sendEmails(ctx context.Context, orch *workflow.Orchestrator, result *workflow.RunResult, config *Config, logger *zap.Logger) error {
	if config.Notifications == nil || !config.Notifications.Enabled {
		return errors.New("notifications are not enabled in the configuration file")
	}

	matchRes, ok := result.Stages[workflow.StageMatching]
	if !ok || !matchRes.Success {
		return errors.New("no matching results to notify about")
	}
	matched := matchRes.Payload.(*matching.Result)

	extractRes := result.Stages[workflow.StageExtraction]
	extracted := extractRes.Payload.(*workflow.ExtractOutput)

	results := orch.RunCustom(ctx, []workflow.StepRequest{{
		Stage: workflow.StageNotification,
		Input: &workflow.NotifyInput{
			Matches: matched.Matches,
			Job: notify.JobDisplay{
				Title:   extracted.Job.Details.Title,
				Company: extracted.Job.Details.Company,
			},
		},
	}})

	res := results[workflow.StageNotification]
	if !res.Success {
		return fmt.Errorf("notification failed: %s", res.Failure.Message)
	}

	sent := res.Payload.(*notify.Result)
	logger.Info("outreach emails sent",
		zap.Int("emails_sent", sent.EmailsSent),
		zap.Int("recipients", len(sent.Deliveries)),
	)
	return nil
}

func dumpReport(run *workflow.RunResult) (string, error) {
	report := workflow.BuildReport(run)

	f, err := os.CreateTemp("", app+"-report-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()

	pretty, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	if _, err := f.Write(pretty); err != nil {
		return "", err
	}

	return f.Name(), nil
}

func buildOrchestrator(config *Config, provider embedding.Provider, matchCfg matching.Config, logger *zap.Logger) *workflow.Orchestrator {
	extractor := extract.NewExtractor(config.Skills, logger)
	engine := matching.NewEngine(provider, logger)

	var sender notify.Sender
	if config.Notifications != nil && config.Notifications.Enabled && config.Notifications.SMTP != nil {
		smtpCfg := *config.Notifications.SMTP
		password, err := secrets.Load(secrets.Source{
			Name: "smtp password",
			File: config.Notifications.PasswordFile,
		})
		if err != nil {
			logger.Warn("smtp password not loaded, notifications will fail", zap.Error(err))
		}
		smtpCfg.Password = password
		sender = notify.NewSMTPSender(smtpCfg)
	}

	opts := []workflow.Option{}
	if store := buildVectorStore(config, provider, logger); store != nil {
		opts = append(opts, workflow.WithVectorStore(store))
	}

	return workflow.NewOrchestrator(
		workflow.NewExtractStage(extractor, logger),
		workflow.NewMatchStage(engine, matchCfg, logger),
		workflow.NewNotifyStage(notify.NewNotifier(sender, logger), logger),
		logger,
		opts...,
	)
}

// buildVectorStore is best-effort: a misconfigured export is logged and
// skipped rather than failing the run.
func buildVectorStore(config *Config, provider embedding.Provider, logger *zap.Logger) vectorstore.Store {
	if config.Export == nil || !config.Export.Enabled {
		return nil
	}

	apiKey := ""
	if config.Export.APIKeyFile != "" {
		key, err := secrets.Load(secrets.Source{
			Name: "qdrant api key",
			File: config.Export.APIKeyFile,
		})
		if err != nil {
			logger.Warn("skipping vector export", zap.Error(err))
			return nil
		}
		apiKey = key
	}

	store, err := vectorstore.NewQdrantStore(vectorstore.Config{
		URL:        config.Export.URL,
		APIKey:     apiKey,
		Collection: config.Export.Collection,
	}, provider.Dimension(), logger)
	if err != nil {
		logger.Warn("skipping vector export", zap.Error(err))
		return nil
	}

	return store
}

func resolveAPIKey(config *Config) (string, error) {
	keyFile := viper.GetString("embedding.api-key-file")
	if config != nil && config.Embedding != nil && config.Embedding.APIKeyFile != "" {
		keyFile = config.Embedding.APIKeyFile
	}

	if keyFile == "" {
		return "", errors.New("gemini api key file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
