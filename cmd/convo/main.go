// convo
//
// A small command-line front end for conversation backends: send a prompt,
// chat interactively, or inspect the wire request schema.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/convkit/convkit/conversation"
)

var version = "dev"

var (
	flagBaseURL    string
	flagModel      string
	flagProvider   string
	flagConfig     string
	flagTranscript string
)

var rootCmd = &cobra.Command{
	Use:   "convo",
	Short: "convo - talk to a conversation backend",
	Long: `convo sends prompts to a conversation backend and prints the reply.

  convo ask "Gimme ten programming languages name."   One-shot prompt
  convo ask --stream "..."                            Print fragments as they arrive
  convo chat                                          Interactive session
  convo schema                                        Print the wire request JSON schema`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", envOr("CONVKIT_BASE_URL", conversation.DefaultBaseURL), "backend base URL")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", os.Getenv("CONVKIT_MODEL"), "model to use")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", os.Getenv("CONVKIT_PROVIDER"), "upstream provider to use")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (.yaml, .yml, or .toml)")
	rootCmd.PersistentFlags().StringVar(&flagTranscript, "transcript", "", "append exchanges to this JSONL transcript file")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(schemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds a client from the config file (when given), environment,
// and flags, in increasing precedence.
func newClient() (*conversation.Client, error) {
	var cfg conversation.Config
	if flagConfig != "" {
		loaded, err := conversation.LoadFile(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = conversation.DefaultConfig()
	}
	cfg.LoadFromEnv()

	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}

	return conversation.NewWithConfig(cfg)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
