package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rcliao/dialogshift/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage stored sample runs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		Run:   runRunsList,
	}
	list.Flags().StringP("split", "s", "", "Filter by split")
	list.Flags().IntP("limit", "l", 20, "Max results")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the samples of a run",
		Args:  cobra.ExactArgs(1),
		Run:   runRunsShow,
	}
	show.Flags().StringP("query", "q", "", "Only samples whose utterance contains this text")
	show.Flags().Float64("min-delta", 0, "Only samples whose absolute polarity change is at least this value")
	show.Flags().IntP("limit", "l", 0, "Max samples (0 = all)")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a run and its samples",
		Args:  cobra.ExactArgs(1),
		Run:   runRunsRm,
	}

	export := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a run as JSON",
		Args:  cobra.ExactArgs(1),
		Run:   runRunsExport,
	}

	imp := &cobra.Command{
		Use:   "import",
		Short: "Import a run from JSON",
		Long:  "Import a run from JSON on stdin. Expects the format produced by export.",
		Args:  cobra.NoArgs,
		Run:   runRunsImport,
	}

	cmd.AddCommand(list, show, rm, export, imp)
	RootCmd.AddCommand(cmd)
}

func runRunsList(cmd *cobra.Command, args []string) {
	split, _ := cmd.Flags().GetString("split")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context(), split, limit)
	if err != nil {
		exitErr("list", err)
	}

	out := cmd.OutOrStdout()
	if formatFlag == "text" {
		for _, r := range runs {
			fmt.Fprintf(out, "%s\t%s\t%d samples\t%s\n", r.ID, r.Split, r.Samples, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	printJSON(out, runs)
}

func runRunsShow(cmd *cobra.Command, args []string) {
	query, _ := cmd.Flags().GetString("query")
	minDelta, _ := cmd.Flags().GetFloat64("min-delta")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	samples, err := s.Samples(cmd.Context(), store.SampleQuery{
		RunID:    args[0],
		Query:    query,
		MinDelta: minDelta,
		Limit:    limit,
	})
	if err != nil {
		exitErr("show", err)
	}

	out := cmd.OutOrStdout()
	if formatFlag == "text" {
		writeSampleText(out, samples)
		return
	}
	printJSON(out, samples)
}

func runRunsRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.DeleteRun(cmd.Context(), args[0]); err != nil {
		exitErr("rm", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"deleted":%q}`+"\n", args[0])
}

func runRunsExport(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	exp, err := s.ExportRun(cmd.Context(), args[0])
	if err != nil {
		exitErr("export", err)
	}
	printJSON(cmd.OutOrStdout(), exp)
}

func runRunsImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var exp store.RunExport
	if err := json.Unmarshal(data, &exp); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	run, err := s.ImportRun(cmd.Context(), exp)
	if err != nil {
		exitErr("import", err)
	}
	printJSON(cmd.OutOrStdout(), run)
}
