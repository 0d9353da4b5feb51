// Package cli implements the dialogshift CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rcliao/dialogshift/internal/config"
	"github.com/rcliao/dialogshift/internal/embedding"
	"github.com/rcliao/dialogshift/internal/sentiment"
	"github.com/rcliao/dialogshift/internal/store"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "dialogshift.toml"

var (
	configPath string
	dataDir    string
	dbPath     string
	formatFlag string
	verbose    bool

	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "dialogshift",
	Short: "Sentiment-shift samples from DailyDialog",
	Long: "Load DailyDialog splits, score utterance polarity and derive samples of\n" +
		"polarity change between consecutive turns.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $DIALOGSHIFT_CONFIG or ./dialogshift.toml)")
	RootCmd.PersistentFlags().StringVarP(&dataDir, "data", "D", "", "Dataset base directory (default: $DIALOGSHIFT_DATA or ./data)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $DIALOGSHIFT_DB or ~/.dialogshift/samples.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")
}

// loadConfig resolves settings: defaults, then file, then env, then flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	path, optional := configPath, false
	if path == "" {
		path = os.Getenv("DIALOGSHIFT_CONFIG")
	}
	if path == "" {
		path, optional = defaultConfigPath, true
	}

	c, err := config.Load(path, optional)
	if err != nil {
		return err
	}
	if err := c.ApplyEnv(); err != nil {
		return err
	}
	if dataDir != "" {
		c.Data.BaseDir = dataDir
	}
	if dbPath != "" {
		c.Store.DB = dbPath
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if formatFlag != "json" && formatFlag != "text" {
		return fmt.Errorf("invalid --format %q (use json or text)", formatFlag)
	}
	cfg = c
	return nil
}

func logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.Store.DB)
}

// newScorer returns the configured scorer and the name recorded with saved runs.
func newScorer() (sentiment.Scorer, string, error) {
	if cfg.Sentiment.Lexicon != "" {
		s, err := sentiment.LoadLexicon(cfg.Sentiment.Lexicon)
		if err != nil {
			return nil, "", err
		}
		return s, config.ScorerLexicon + ":" + cfg.Sentiment.Lexicon, nil
	}
	if cfg.Sentiment.Scorer == config.ScorerLexicon {
		return sentiment.NewLexiconScorer(), config.ScorerLexicon, nil
	}
	return sentiment.NewVaderScorer(), config.ScorerVader, nil
}

func loadEmbeddings() (*embedding.Table, error) {
	if cfg.Embedding.Path == "" {
		return nil, fmt.Errorf("no embedding file configured (set embedding.path, $DIALOGSHIFT_EMBEDDINGS or --file)")
	}
	return embedding.LoadTable(cfg.Embedding.Path)
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
