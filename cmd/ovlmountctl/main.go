// Command ovlmountctl is a thin GraphQL client for ovlmountd's control
// plane, in the shape of dittofs's dfsctl.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var serverAddr string

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ovlmountctl",
		Short: "control ovlmountd's running NFS services over GraphQL",
	}
	cmd.PersistentFlags().StringVar(&serverAddr, "server", "http://127.0.0.1:8080/graphql", "ovlmountd GraphQL endpoint")
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newMountCommand())
	cmd.AddCommand(newUmountCommand())
	return cmd
}
