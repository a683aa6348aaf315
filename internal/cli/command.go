package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/wordhover/internal"
	"codeberg.org/snonux/wordhover/internal/dictionary"
	"codeberg.org/snonux/wordhover/internal/gate"
	"codeberg.org/snonux/wordhover/internal/server"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wordhover",
		Short: "Translate selected text and study it as flashcards",
		Long: `wordhover translates short text selections with Gemini or OpenAI,
saves them as flashcards in decks and quizzes you on them.

Examples:
  wordhover serve                       # Run the HTTP API for the browser extension
  wordhover translate 日本語 --save      # Translate and save to the default deck
  wordhover study deck1                 # Study a deck interactively
  wordhover export deck1 -o deck.apkg   # Export a deck for Anki`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wordhover.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.StorePath, "store", "", "Flashcard database path (default is "+DefaultStorePath()+")")
	cmd.PersistentFlags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation backend: gemini or openai")
	cmd.PersistentFlags().StringVar(&flags.Model, "model", "", "Backend model (default depends on provider)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("backend.provider", cmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("backend.model", cmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("store.path", cmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("log.verbose", cmd.PersistentFlags().Lookup("verbose"))
}

// SetDefaults registers the default value of every config key
func SetDefaults() {
	viper.SetDefault("backend.provider", ProviderGemini)
	viper.SetDefault("gate.debounce", gate.DefaultWindow)
	viper.SetDefault("gate.timeout", gate.DefaultTimeout)
	viper.SetDefault("server.port", server.DefaultPort)
	viper.SetDefault("dictionary.base_url", dictionary.DefaultBaseURL)
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A missing .env file is fine
	_ = godotenv.Load()

	SetDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".wordhover" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wordhover")
	}

	// Environment variables, WORDHOVER_BACKEND_MODEL for backend.model
	viper.SetEnvPrefix("WORDHOVER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	// First check environment variable
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("backend.gemini_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("backend.openai_key")
}

// GetPort returns the HTTP port. PORT wins over the config file, as on
// most hosting platforms.
func GetPort() int {
	if p := os.Getenv("PORT"); p != "" {
		if port, err := strconv.Atoi(p); err == nil && port > 0 {
			return port
		}
	}
	if port := viper.GetInt("server.port"); port > 0 {
		return port
	}
	return server.DefaultPort
}

// GetStorePath returns the flashcard database path
func GetStorePath() string {
	if path := viper.GetString("store.path"); path != "" {
		return path
	}
	return DefaultStorePath()
}

// DefaultStorePath is the database location under the user's state directory
func DefaultStorePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "wordhover", "wordhover.db")
}

// GetDebounceWindow returns the configured quiet period for selections
func GetDebounceWindow() time.Duration {
	if d := viper.GetDuration("gate.debounce"); d > 0 {
		return d
	}
	return gate.DefaultWindow
}

// GetGateTimeout returns the configured translation timeout
func GetGateTimeout() time.Duration {
	if d := viper.GetDuration("gate.timeout"); d > 0 {
		return d
	}
	return gate.DefaultTimeout
}
