// Command ovlmountd is the NFSv3 overlay filesystem daemon, wiring
// pkg/config, pkg/controlplane, pkg/overlay and pkg/nfsfs behind a cobra CLI
// in the shape of dittofs's cmd/dittofs main.go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ovlmountd",
		Short: "NFSv3 overlay filesystem daemon",
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")
	cmd.AddCommand(newServeCommand())
	return cmd
}
