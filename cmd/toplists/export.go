package main

import (
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a normalized catalog to a file",
	Long: `Export writes the static film catalog, or with --live a freshly scraped
series catalog, to a JSON or YAML file. The format follows the extension
of --out (.yaml and .yml select YAML).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		live, _ := cmd.Flags().GetBool("live")

		application, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		return application.Export(cmd.Context(), out, live)
	},
}

func init() {
	exportCmd.Flags().String("out", "catalog.json", "output file (.json, .yaml or .yml)")
	exportCmd.Flags().Bool("live", false, "export the live series catalog instead of the static film catalog")
	rootCmd.AddCommand(exportCmd)
}
