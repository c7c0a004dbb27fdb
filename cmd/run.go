package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hiringtools/cv-intake/internal/drive"
	"github.com/hiringtools/cv-intake/internal/extract"
	"github.com/hiringtools/cv-intake/internal/extract/gemini"
	"github.com/hiringtools/cv-intake/internal/gmail"
	"github.com/hiringtools/cv-intake/internal/googleauth"
	"github.com/hiringtools/cv-intake/internal/intake"
	"github.com/hiringtools/cv-intake/internal/logger"
	"github.com/hiringtools/cv-intake/internal/secrets"
	"github.com/hiringtools/cv-intake/internal/sheets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultQuery      = "has:attachment (filename:pdf OR filename:doc OR filename:docx) (cv OR resume)"
	defaultAckSubject = "Your application has been received"
	defaultAckBody    = "Dear {applicant_name},\n\n" +
		"Thank you for your application. We have received your CV and our team " +
		"will review it shortly. We will contact you if your profile matches an " +
		"open position.\n\n" +
		"Best regards,\nThe Recruiting Team"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cv-intake poll loop",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("once", "o", false, "run a single intake cycle and exit")
	runCmd.Flags().DurationP("interval", "i", 0, "override the poll interval from the config file")

	viper.BindPFlag("poll.interval", runCmd.Flags().Lookup("interval"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-intake", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Gmail == nil || config.Gmail.CredentialsFile == "" {
		logger.Fatal("google credentials are required under gmail.credentials-file")
	}
	if config.Drive == nil || config.Drive.FolderID == "" {
		logger.Fatal("a storage folder is required under drive.folder-id")
	}
	if config.Sheet == nil || config.Sheet.SpreadsheetID == "" {
		logger.Fatal("a ledger spreadsheet is required under sheet.spreadsheet-id")
	}

	tokenFile := strings.TrimSpace(config.Gmail.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("gmail.token-file"))
	}
	if tokenFile == "" {
		logger.Fatal("a token file is required",
			zap.String("hint", "set CV_INTAKE_TOKEN_FILE or the gmail.token-file key in the configuration file"),
		)
	}

	client, err := googleauth.Client(ctx, config.Gmail.CredentialsFile, tokenFile, allScopes()...)
	if err != nil {
		logger.Fatal("building the google client", zap.Error(err))
	}

	mail, err := gmail.New(ctx, client, logger)
	if err != nil {
		logger.Fatal("creating the gmail service", zap.Error(err))
	}

	driveClient := client
	if config.Drive.ServiceAccountFile != "" {
		driveClient, err = googleauth.ServiceAccountClient(ctx, config.Drive.ServiceAccountFile, drive.Scope)
		if err != nil {
			logger.Fatal("building the drive service account client", zap.Error(err))
		}
	}

	blobs, err := drive.New(ctx, driveClient, config.Drive.FolderID, logger)
	if err != nil {
		logger.Fatal("creating the drive store", zap.Error(err))
	}

	sheetClient := client
	if config.Sheet.ServiceAccountFile != "" {
		sheetClient, err = googleauth.ServiceAccountClient(ctx, config.Sheet.ServiceAccountFile, sheets.Scope)
		if err != nil {
			logger.Fatal("building the sheets service account client", zap.Error(err))
		}
	}

	ledger, err := sheets.New(ctx, sheetClient, config.Sheet.SpreadsheetID, config.Sheet.Tab, logger)
	if err != nil {
		logger.Fatal("creating the sheet ledger", zap.Error(err))
	}

	if err := ledger.EnsureHeader(ctx); err != nil {
		logger.Fatal("ensuring the sheet header", zap.Error(err))
	}

	extractor, err := buildExtractor(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the resume extractor", zap.Error(err))
	}

	reconciler := intake.NewReconciler(intakeConfig(config), mail, blobs, ledger, extractor, logger)

	if cmd.Flag("once").Value.String() == "true" {
		report := reconciler.RunCycle(ctx)
		if report.Err != nil {
			logger.Fatal("cycle aborted", zap.Error(report.Err))
		}
		logger.Info("cycle complete",
			zap.Int("fetched", report.Fetched),
			zap.Int("admitted", report.Admitted),
			zap.Int("duplicates", report.Duplicates),
		)
		return
	}

	interval := viper.GetDuration("poll.interval")
	if interval <= 0 && config.Poll != nil {
		interval = config.Poll.Interval
	}

	poller := intake.NewPoller(reconciler, interval, logger, nil)
	if err := poller.Run(ctx); err != nil {
		logger.Info("exiting", zap.Error(err))
	}
}

func intakeConfig(config *Config) intake.Config {
	cfg := intake.Config{
		Query:      defaultQuery,
		AckSubject: defaultAckSubject,
		AckBody:    defaultAckBody,
		Categories: intake.DefaultCategories,
	}

	if config.Gmail != nil {
		if config.Gmail.Query != "" {
			cfg.Query = config.Gmail.Query
		}
		cfg.MaxFetch = config.Gmail.MaxFetch
	}

	if config.Intake != nil {
		cfg.AllowedExtensions = config.Intake.AllowedExtensions
		if len(config.Intake.Jobs) > 0 {
			cfg.Categories = config.Intake.Jobs
		}
	}

	if config.Ack != nil {
		if config.Ack.Subject != "" {
			cfg.AckSubject = config.Ack.Subject
		}
		if config.Ack.Body != "" {
			cfg.AckBody = config.Ack.Body
		}
	}

	return cfg
}

// buildExtractor returns the heuristic extractor, wrapped with the Gemini
// field refiner when the ai section enables it.
func buildExtractor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (intake.ResumeExtractor, error) {
	base := extract.New()

	if cfg == nil || !cfg.Enabled {
		return base, nil
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai extraction is enabled")
	}

	keyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewExtractor(base, generator, cfg.Gemini.MaxLogLength, genLogger), nil
}

func allScopes() []string {
	scopes := make([]string, 0, len(gmail.Scopes)+2)
	scopes = append(scopes, gmail.Scopes...)
	scopes = append(scopes, drive.Scope, sheets.Scope)
	return scopes
}
