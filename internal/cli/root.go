package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/pkg/client"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	verbose      bool
	apiClient    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "harmony",
	Short: "Sleep Harmony CLI - landing signups, qualification wizard and operator tools",
	Long: `Sleep Harmony CLI drives the landing page flows against the API:
the email signup, the qualification questionnaire, and the operator
commands to look up registrations and manage subscription statuses.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Config and token minting work offline
		if cmd.Name() == "config" || (cmd.Parent() != nil && (cmd.Parent().Name() == "config" || cmd.Parent().Name() == "token")) {
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "admin" {
			return initAuthenticatedClient()
		}
		return initClient()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.harmony/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newWizardCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newTokenCmd())
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".harmony"), nil
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		_ = os.MkdirAll(dir, 0700)
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HARMONY")
	viper.AutomaticEnv()

	viper.SetDefault("server_url", "http://localhost:8080")
	viper.SetDefault("app_url", "https://app.sleepharmony.fr")
	viper.SetDefault("output", "table")

	_ = viper.ReadInConfig()
}

func initClient() error {
	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}

	apiClient = client.NewClient(client.Config{
		BaseURL: url,
	})
	return nil
}

func initAuthenticatedClient() error {
	if err := initClient(); err != nil {
		return err
	}

	token := viper.GetString("auth.token")
	if token == "" {
		return fmt.Errorf("no service token. Run 'harmony token mint --scope admin --save' first")
	}

	apiClient.SetToken(token)
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}

// cliLogger logs to stderr when --verbose is set and discards otherwise
func cliLogger() *logger.Logger {
	if !verbose {
		return logger.Nop()
	}
	return logger.NewWithWriter(logger.Config{Level: "debug", Format: "console"}, os.Stderr)
}
