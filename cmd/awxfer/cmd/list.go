package cmd

import (
	"fmt"

	"github.com/assetworks/gantry/pkg/awclient"
	"github.com/spf13/cobra"
)

var (
	listNewOwnerID   int
	listDepartmentID int
	listStatus       string
	listTransferID   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List actionable transfers",
	RunE: func(cmd *cobra.Command, args []string) error {
		coordinator, err := newCoordinator()
		if err != nil {
			return err
		}

		filter := awclient.TransferFilter{
			TransferID:   listTransferID,
			NewOwnerID:   listNewOwnerID,
			DepartmentID: listDepartmentID,
			Status:       listStatus,
		}

		if err := coordinator.LoadBatches(filter); err != nil {
			return err
		}

		for _, batch := range coordinator.Batches() {
			fmt.Printf("transfer %d  date=%s  status=%s  items=%d\n",
				batch.ID, batch.TransferDate.Format("2006-01-02"), batch.Status, batch.TotalItems)

			for _, item := range batch.Items {
				register := ""
				if item.Asset != nil {
					register = item.Asset.RegisterNo
				}

				fmt.Printf("  %d:%d  asset=%s  status=%s  owner %d -> %d\n",
					item.TransferID, item.ID, register, item.Status, item.CurrentOwnerID, item.NewOwnerID)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVar(&listNewOwnerID, "new-owner", 0, "list transfers pending acceptance by this owner")
	listCmd.Flags().IntVar(&listDepartmentID, "department", 0, "list transfers for this department")
	listCmd.Flags().StringVar(&listStatus, "status", "", "status filter for the department mode")
	listCmd.Flags().IntVar(&listTransferID, "transfer", 0, "show one transfer by id")
}
