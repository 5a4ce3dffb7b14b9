package schema

import (
	"fmt"
	"os"

	"github.com/apache/activemq-openwire-sub001/cmd/util"
	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// SchemaCommands represents the schema command group
	SchemaCommands = &cobra.Command{
		Use:   "schema",
		Short: "Work with TOML schema documents",
	}

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Writes the built in command catalogue as a schema document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas := builtin()

			if path := viper.GetString("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create schema file: %v", err)
				}
				defer f.Close()
				if err := schema.WriteTOML(f, schemas); err != nil {
					return err
				}
				fmt.Printf("wrote %d schemas to %s\n", len(schemas), path)
				return nil
			}
			return schema.WriteTOML(os.Stdout, schemas)
		},
	}

	checkCmd = &cobra.Command{
		Use:   "check [file]",
		Short: "Compares a schema document with the built in command catalogue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := schema.LoadTOMLFile(args[0])
			if err != nil {
				return err
			}

			diffs := Check(builtin(), loaded)
			if len(diffs) == 0 {
				fmt.Printf("%s matches the built in catalogue (%d schemas)\n", args[0], len(loaded))
				return nil
			}
			for _, d := range diffs {
				fmt.Println(d)
			}
			return fmt.Errorf("%d differences found", len(diffs))
		},
	}
)

func init() {
	SchemaCommands.AddCommand(dumpCmd)
	SchemaCommands.AddCommand(checkCmd)

	key := "out"
	dumpCmd.Flags().String(key, "", util.WrapString("Optional path to write the document to instead of stdout"))
	key = "all"
	SchemaCommands.PersistentFlags().Bool(key, false, util.WrapString("Use the schemas of every version instead of the configured one"))
}

// builtin returns the catalogue schemas selected by the version flags
func builtin() []*schema.Schema {
	if viper.GetBool("all") {
		return command.Schemas()
	}
	return command.SchemasFor(viper.GetInt("version"))
}

// Check compares loaded against want and the base groups of want
func Check(want, loaded []*schema.Schema) []string {
	return schema.Diff(withBases(want), loaded)
}

// withBases adds the field groups referenced by schemas, bases first, the way
// they appear in a written document
func withBases(schemas []*schema.Schema) []*schema.Schema {
	var out []*schema.Schema
	seen := make(map[*schema.Schema]bool)
	for _, s := range schemas {
		for _, group := range s.Chain() {
			if !seen[group] {
				seen[group] = true
				out = append(out, group)
			}
		}
	}
	return out
}
