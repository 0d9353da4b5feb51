package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rcliao/dialogshift/internal/dataset"
	"github.com/rcliao/dialogshift/internal/model"
	"github.com/rcliao/dialogshift/internal/pipeline"
	"github.com/rcliao/dialogshift/internal/samples"
	"github.com/rcliao/dialogshift/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "samples <split>",
		Short: "Build polarity-shift samples for a split",
		Long: "Load a split, score every utterance and emit one sample per consecutive\n" +
			"utterance pair: the utterance with the previous and current polarity.",
		Args: cobra.ExactArgs(1),
		Run:  runSamples,
	}

	cmd.Flags().IntP("workers", "w", 0, "Concurrent scoring workers (default from config)")
	cmd.Flags().Bool("jsonl", false, "Emit one JSON sample per line")
	cmd.Flags().Bool("summary", false, "Only print the summary")
	cmd.Flags().Bool("save", false, "Store the run in the database")
	cmd.Flags().Bool("strict", false, "Fail when the three files have different line counts")

	RootCmd.AddCommand(cmd)
}

type samplesReport struct {
	Run      *store.Run          `json:"run,omitempty"`
	Split    string              `json:"split"`
	Rejected []dataset.Rejection `json:"rejected,omitempty"`
	Summary  samples.Summary     `json:"summary"`
	Samples  []model.Sample      `json:"samples,omitempty"`
}

func runSamples(cmd *cobra.Command, args []string) {
	workers, _ := cmd.Flags().GetInt("workers")
	jsonl, _ := cmd.Flags().GetBool("jsonl")
	summaryOnly, _ := cmd.Flags().GetBool("summary")
	save, _ := cmd.Flags().GetBool("save")
	strict, _ := cmd.Flags().GetBool("strict")
	if workers <= 0 {
		workers = cfg.Sentiment.Workers
	}

	scorer, scorerName, err := newScorer()
	if err != nil {
		exitErr("scorer", err)
	}

	out, err := pipeline.Run(cmd.Context(), pipeline.Options{
		Data: dataset.Options{
			BaseDir: cfg.Data.BaseDir,
			Strict:  strict || cfg.Data.Strict,
			Logger:  logger(),
		},
		Scorer:  scorer,
		Workers: workers,
	}, args[0])
	if err != nil {
		exitErr("samples", err)
	}

	report := samplesReport{
		Split:    args[0],
		Rejected: out.Load.Rejected,
		Summary:  out.Summary,
	}

	if save {
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		run, err := s.SaveRun(cmd.Context(), store.RunParams{
			Split:     args[0],
			BaseDir:   cfg.Data.BaseDir,
			Scorer:    scorerName,
			Dialogues: len(out.Load.Dialogues),
			Rejected:  len(out.Load.Rejected),
			Samples:   out.Samples,
		})
		if err != nil {
			exitErr("save run", err)
		}
		report.Run = run
	}

	w := cmd.OutOrStdout()
	switch {
	case summaryOnly:
		report.Rejected = nil
		printJSON(w, report)
	case jsonl:
		writeJSONL(w, out.Samples)
	case formatFlag == "text":
		writeSampleText(w, out.Samples)
	default:
		report.Samples = out.Samples
		printJSON(w, report)
	}
}

func writeJSONL(w io.Writer, ss []model.Sample) {
	enc := json.NewEncoder(w)
	for _, s := range ss {
		enc.Encode(s)
	}
}

func writeSampleText(w io.Writer, ss []model.Sample) {
	for _, s := range ss {
		fmt.Fprintf(w, "%d\t%d\t%+.3f\t%+.3f\t%s\n", s.Dialogue, s.Turn, s.PrevPolarity, s.CurrentPolarity, s.Utterance)
	}
}
