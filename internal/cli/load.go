package cli

import (
	"fmt"

	"github.com/rcliao/dialogshift/internal/dataset"
	"github.com/rcliao/dialogshift/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "load <split>",
		Short: "Load a split and report alignment",
		Long:  "Read the three files of a split (train, validation, test) and report kept and rejected dialogues.",
		Args:  cobra.ExactArgs(1),
		Run:   runLoad,
	}

	cmd.Flags().Bool("dialogues", false, "Include the loaded dialogue records")
	cmd.Flags().Bool("strict", false, "Fail when the three files have different line counts")

	RootCmd.AddCommand(cmd)
}

type loadReport struct {
	Split     string              `json:"split"`
	Paths     dataset.Paths       `json:"paths"`
	Lines     int                 `json:"lines"`
	Count     int                 `json:"count"`
	Rejected  []dataset.Rejection `json:"rejected,omitempty"`
	Truncated *dataset.Truncation `json:"truncated,omitempty"`
	Dialogues []model.Dialogue    `json:"dialogues,omitempty"`
}

func newLoadReport(res *dataset.Result, withDialogues bool) loadReport {
	r := loadReport{
		Split:     res.Split,
		Paths:     res.Paths,
		Lines:     res.Lines,
		Count:     len(res.Dialogues),
		Rejected:  res.Rejected,
		Truncated: res.Truncated,
	}
	if withDialogues {
		r.Dialogues = res.Dialogues
	}
	return r
}

func runLoad(cmd *cobra.Command, args []string) {
	withDialogues, _ := cmd.Flags().GetBool("dialogues")
	strict, _ := cmd.Flags().GetBool("strict")

	res, err := dataset.Load(cmd.Context(), dataset.Options{
		BaseDir: cfg.Data.BaseDir,
		Strict:  strict || cfg.Data.Strict,
		Logger:  logger(),
	}, args[0])
	if err != nil {
		exitErr("load", err)
	}

	out := cmd.OutOrStdout()
	if formatFlag == "text" {
		fmt.Fprintf(out, "split=%s lines=%d dialogues=%d rejected=%d\n", res.Split, res.Lines, len(res.Dialogues), len(res.Rejected))
		for _, r := range res.Rejected {
			fmt.Fprintf(out, "  rejected line %d: utterances=%d emotions=%d actions=%d\n", r.Line, r.Utterances, r.Emotions, r.Actions)
		}
		if t := res.Truncated; t != nil {
			fmt.Fprintf(out, "  truncated: extra dialogues=%d emotions=%d actions=%d\n", t.Dialogues, t.Emotions, t.Actions)
		}
		return
	}

	printJSON(out, newLoadReport(res, withDialogues))
}
