package cmd

import (
	"fmt"

	"github.com/assetworks/gantry/pkg/export"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the asset register summary to a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		assets, err := client.ListAssets()
		if err != nil {
			return err
		}

		writer := export.NewXlsxWriter("Asset Summary")
		defer writer.Close()

		if err := export.WriteAssetSummary(writer, assets); err != nil {
			return err
		}

		if err := writer.SaveAs(exportOut); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", exportOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "asset-summary.xlsx", "output workbook path")
}
