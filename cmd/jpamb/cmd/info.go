package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print tool metadata as JSON",
	Long:  `Print {name, version, author, tags, "science"} as JSON and exit 0, per the external-interfaces contract.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := "{}"
		var err error
		for _, kv := range []struct {
			path string
			val  any
		}{
			{"name", "jpamb"},
			{"version", Version},
			{"author", "jpamb"},
			{"tags.0", "analysis"},
			{"tags.1", "testing"},
			{"science", true},
		} {
			doc, err = sjson.Set(doc, kv.path, kv.val)
			if err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), doc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
