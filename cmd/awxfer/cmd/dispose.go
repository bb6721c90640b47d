package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/assetworks/gantry/pkg/awclient"
	"github.com/assetworks/gantry/pkg/awclient/workflow"
	"github.com/spf13/cobra"
)

var (
	disposeItems  []string
	disposeRemark string
	disposeAttach []string
)

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve (or accept) the given transfer items",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispose(workflow.KindApprove)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject",
	Short: "Reject the given transfer items",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispose(workflow.KindReject)
	},
}

func dispose(kind workflow.Kind) error {
	if len(disposeItems) == 0 {
		return fmt.Errorf("at least one --item is required")
	}

	coordinator, err := newCoordinator()
	if err != nil {
		return err
	}

	transferID, _, err := parseItemKey(disposeItems[0])
	if err != nil {
		return err
	}

	if err := coordinator.LoadBatches(awclient.TransferFilter{TransferID: transferID}); err != nil {
		return err
	}

	for _, key := range disposeItems {
		if disposeRemark != "" {
			if err := coordinator.SetRemark(key, disposeRemark); err != nil {
				return err
			}
		}

		for _, path := range disposeAttach {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := coordinator.AddAttachment(key, filepath.Base(path), f); err != nil {
				return err
			}
		}

		if err := coordinator.Select(key); err != nil {
			return err
		}
	}

	if len(disposeItems) == 1 {
		return coordinator.DisposeSingle(disposeItems[0], kind)
	}

	return coordinator.DisposeBulk(kind)
}

func parseItemKey(key string) (int, int, error) {
	pieces := strings.SplitN(key, ":", 2)
	if len(pieces) != 2 {
		return 0, 0, fmt.Errorf("item key must look like transferId:itemId, not %q", key)
	}

	transferID, err := strconv.Atoi(pieces[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid transfer id in %q", key)
	}

	itemID, err := strconv.Atoi(pieces[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid item id in %q", key)
	}

	return transferID, itemID, nil
}

func init() {
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)

	for _, c := range []*cobra.Command{approveCmd, rejectCmd} {
		c.Flags().StringSliceVar(&disposeItems, "item", nil, "item key (transferId:itemId), repeatable")
		c.Flags().StringVar(&disposeRemark, "remark", "", "remark to record (required when rejecting)")
		c.Flags().StringSliceVar(&disposeAttach, "attach", nil, "attachment file path, repeatable (max 2)")
	}
}
