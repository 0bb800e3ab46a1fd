package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <bucket-id> <file-id>",
	Short: "Delete a file from a bucket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logger, err := newStorage(newConfigGetter(cmd, v, nil))
		if err != nil {
			return err
		}
		if _, err := svc.DeleteFile(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("delete %s: %w", args[1], err)
		}
		logger.Donef("Deleted %s", args[1])
		return nil
	},
}
