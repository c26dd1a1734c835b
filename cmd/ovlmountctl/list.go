package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const listQuery = `
	query {
		fs {
			id
			mountPoint
			scheme
			root
			name
		}
	}
`

type mountedFs struct {
	ID         string `json:"id"`
	MountPoint string `json:"mountPoint"`
	Scheme     string `json:"scheme"`
	Root       string `json:"root"`
	Name       string `json:"name"`
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List running NFS services",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Fs []mountedFs `json:"fs"`
			}
			if err := do(cmd.Context(), serverAddr, listQuery, nil, &result); err != nil {
				return err
			}
			for _, fs := range result.Fs {
				fmt.Printf("%s\t%s\t%s\t%s\t%s\n", fs.ID, fs.Name, fs.Scheme, fs.Root, fs.MountPoint)
			}
			return nil
		},
	}
}
