package cli

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/rcliao/dialogshift/internal/model"
	"github.com/rcliao/dialogshift/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:       "schema [sample|dialogue|export]",
		Short:     "Print the JSON Schema of an output record",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"sample", "dialogue", "export"},
		Run:       runSchema,
	}

	RootCmd.AddCommand(cmd)
}

func runSchema(cmd *cobra.Command, args []string) {
	kind := "sample"
	if len(args) > 0 {
		kind = args[0]
	}

	s, err := schemaFor(kind)
	if err != nil {
		exitErr("schema", err)
	}
	printJSON(cmd.OutOrStdout(), s)
}

func schemaFor(kind string) (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	switch kind {
	case "sample":
		return reflector.Reflect(model.Sample{}), nil
	case "dialogue":
		return reflector.Reflect(model.AnnotatedDialogue{}), nil
	case "export":
		return reflector.Reflect(store.RunExport{}), nil
	default:
		return nil, fmt.Errorf("unknown record %q (use sample, dialogue or export)", kind)
	}
}
