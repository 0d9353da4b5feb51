package cli

import (
	"fmt"
	"strconv"

	"github.com/rcliao/dialogshift/internal/labels"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:       "labels <topic|act|emotion> [code]",
		Short:     "Convert or list label codes",
		Long:      "Convert a topic (1-10), act (1-4) or emotion (0-6) code to its name, or list the table when no code is given.",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"topic", "act", "emotion"},
		Run:       runLabels,
	}

	RootCmd.AddCommand(cmd)
}

func runLabels(cmd *cobra.Command, args []string) {
	kind := args[0]
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		var entries []labels.Entry
		switch kind {
		case "topic":
			entries = labels.Topics()
		case "act":
			entries = labels.Actions()
		case "emotion":
			entries = labels.Emotions()
		default:
			exitErr("labels", fmt.Errorf("unknown table %q (use topic, act or emotion)", kind))
		}
		if formatFlag == "text" {
			for _, e := range entries {
				fmt.Fprintf(out, "%s\t%s\n", e.Code, e.Name)
			}
			return
		}
		printJSON(out, entries)
		return
	}

	code := args[1]
	var name string
	var err error
	switch kind {
	case "topic":
		name, err = labels.ConvertTopic(code)
	case "act":
		name, err = labels.ConvertAction(code)
	case "emotion":
		n, convErr := strconv.Atoi(code)
		if convErr != nil {
			exitErr("labels", fmt.Errorf("emotion code must be an integer: %w", convErr))
		}
		name, err = labels.EmotionName(n)
	default:
		err = fmt.Errorf("unknown table %q (use topic, act or emotion)", kind)
	}
	if err != nil {
		exitErr("labels", err)
	}

	if formatFlag == "text" {
		fmt.Fprintln(out, name)
		return
	}
	printJSON(out, labels.Entry{Code: code, Name: name})
}
