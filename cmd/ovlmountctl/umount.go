package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const umountMutation = `
	mutation($id: ID!) {
		umount(id: $id)
	}
`

func newUmountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "umount <id>",
		Short: "Unmount and stop a running NFS service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Umount bool `json:"umount"`
			}
			if err := do(cmd.Context(), serverAddr, umountMutation, map[string]any{"id": args[0]}, &result); err != nil {
				return err
			}
			if !result.Umount {
				return fmt.Errorf("umount %s: service not found", args[0])
			}
			return nil
		},
	}
}
