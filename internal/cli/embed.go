package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/dialogshift/internal/embedding"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Inspect a pretrained word-vector file",
	}
	cmd.PersistentFlags().String("file", "", "Embedding file (overrides embedding.path)")

	info := &cobra.Command{
		Use:   "info",
		Short: "Show vocabulary size and dimensionality",
		Args:  cobra.NoArgs,
		Run:   runEmbedInfo,
	}

	lookup := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Show the index and vector of a word",
		Args:  cobra.ExactArgs(1),
		Run:   runEmbedLookup,
	}

	similar := &cobra.Command{
		Use:   "similar <word>",
		Short: "List the nearest words by cosine similarity",
		Args:  cobra.ExactArgs(1),
		Run:   runEmbedSimilar,
	}
	similar.Flags().IntP("top", "k", 10, "Number of neighbors")

	text := &cobra.Command{
		Use:   "text [text]",
		Short: "Embed text as the mean of its word vectors",
		Args:  cobra.MinimumNArgs(1),
		Run:   runEmbedText,
	}

	cmd.AddCommand(info, lookup, similar, text)
	RootCmd.AddCommand(cmd)
}

func applyEmbedFile(cmd *cobra.Command) {
	if f, _ := cmd.Flags().GetString("file"); f != "" {
		cfg.Embedding.Path = f
	}
}

func runEmbedInfo(cmd *cobra.Command, args []string) {
	applyEmbedFile(cmd)
	t, err := loadEmbeddings()
	if err != nil {
		exitErr("embed", err)
	}

	printJSON(cmd.OutOrStdout(), map[string]any{
		"path":       cfg.Embedding.Path,
		"words":      t.Len(),
		"dims":       t.Dims(),
		"duplicates": t.Duplicates,
	})
}

func runEmbedLookup(cmd *cobra.Command, args []string) {
	applyEmbedFile(cmd)
	t, err := loadEmbeddings()
	if err != nil {
		exitErr("embed", err)
	}

	word := args[0]
	vec, ok := t.Vector(word)
	if !ok {
		exitErr("lookup", fmt.Errorf("word not in vocabulary: %q", word))
	}
	printJSON(cmd.OutOrStdout(), map[string]any{
		"word":   word,
		"index":  t.WordToIndex[word],
		"vector": vec,
	})
}

func runEmbedSimilar(cmd *cobra.Command, args []string) {
	applyEmbedFile(cmd)
	k, _ := cmd.Flags().GetInt("top")
	t, err := loadEmbeddings()
	if err != nil {
		exitErr("embed", err)
	}

	near, err := t.Nearest(args[0], k)
	if err != nil {
		exitErr("similar", err)
	}

	out := cmd.OutOrStdout()
	if formatFlag == "text" {
		for _, n := range near {
			fmt.Fprintf(out, "%.4f\t%s\n", n.Similarity, n.Word)
		}
		return
	}
	printJSON(out, near)
}

func runEmbedText(cmd *cobra.Command, args []string) {
	applyEmbedFile(cmd)
	t, err := loadEmbeddings()
	if err != nil {
		exitErr("embed", err)
	}

	e, err := embedText(cmd.Context(), t, strings.Join(args, " "))
	if err != nil {
		exitErr("embed", err)
	}
	printJSON(cmd.OutOrStdout(), e)
}

type textEmbedding struct {
	Text   string           `json:"text"`
	Dims   int              `json:"dims"`
	Vector embedding.Vector `json:"vector"`
}

func embedText(ctx context.Context, e embedding.Embedder, text string) (*textEmbedding, error) {
	vec, err := e.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return &textEmbedding{Text: text, Dims: e.Dims(), Vector: vec}, nil
}
