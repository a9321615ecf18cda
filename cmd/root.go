package cmd

import (
	"log"

	"github.com/recruitflow/recruitflow/internal/matching"
	"github.com/recruitflow/recruitflow/internal/notify"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "recruitflow"
)

type Config struct {
	JobDescription string           `mapstructure:"job-description"`
	Roster         string           `mapstructure:"roster"`
	Skills         []string         `mapstructure:"skills"`
	Matching       *matching.Config `mapstructure:"matching"`
	Embedding      *EmbeddingConfig `mapstructure:"embedding"`
	Notifications  *struct {
		Enabled      bool               `mapstructure:"enabled"`
		SMTP         *notify.SMTPConfig `mapstructure:"smtp"`
		PasswordFile string             `mapstructure:"password-file"`
	} `mapstructure:"notifications"`
	Export *ExportConfig `mapstructure:"export"`
}

type EmbeddingConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	Dimension  int    `mapstructure:"dimension"`
}

type ExportConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	Collection string `mapstructure:"collection"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "recruitflow matches roster candidates against a job description and reaches out to the best fits",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("embedding.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is recruitflow.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
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
