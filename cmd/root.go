package cmd

import (
	"log"
	"time"

	"github.com/hiringtools/cv-intake/internal/intake"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cv-intake"
)

type Config struct {
	Gmail  *GmailConfig  `mapstructure:"gmail"`
	Drive  *DriveConfig  `mapstructure:"drive"`
	Sheet  *SheetConfig  `mapstructure:"sheet"`
	Poll   *PollConfig   `mapstructure:"poll"`
	Intake *IntakeConfig `mapstructure:"intake"`
	Ack    *AckConfig    `mapstructure:"ack"`
	AI     *AIConfig     `mapstructure:"ai"`
}

type GmailConfig struct {
	CredentialsFile string `mapstructure:"credentials-file"`
	TokenFile       string `mapstructure:"token-file"`
	Query           string `mapstructure:"query"`
	MaxFetch        int64  `mapstructure:"max-fetch"`
}

type DriveConfig struct {
	FolderID string `mapstructure:"folder-id"`
	// ServiceAccountFile switches the upload client to a service account
	// instead of the user token.
	ServiceAccountFile string `mapstructure:"service-account-file"`
}

type SheetConfig struct {
	SpreadsheetID      string `mapstructure:"spreadsheet-id"`
	Tab                string `mapstructure:"tab"`
	ServiceAccountFile string `mapstructure:"service-account-file"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type IntakeConfig struct {
	AllowedExtensions []string          `mapstructure:"allowed-extensions"`
	Jobs              []intake.Category `mapstructure:"jobs"`
}

type AckConfig struct {
	Subject string `mapstructure:"subject"`
	Body    string `mapstructure:"body"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-intake watches a Gmail inbox for resumes and records applicants in a spreadsheet",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("gmail.token-file", "CV_INTAKE_TOKEN_FILE"); err != nil {
		log.Fatalf("binding CV_INTAKE_TOKEN_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-intake.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without a config file.
	if runCmd.CalledAs() == "" && authCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
