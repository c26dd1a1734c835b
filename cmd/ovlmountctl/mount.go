package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const mountMutation = `
	mutation($service: String!, $parameters: [KeyValue!], $mountPoint: String!) {
		mount(service: $service, parameters: $parameters, mountPoint: $mountPoint)
	}
`

func newMountCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "mount <service> <mount-point>",
		Short: "Construct a backend and mount it over NFS",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, mountPoint := args[0], args[1]

			kvs := make([]map[string]string, 0, len(params))
			for _, p := range params {
				k, v, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("invalid --param %q, expected key=value", p)
				}
				kvs = append(kvs, map[string]string{"key": k, "value": v})
			}

			var result struct {
				Mount string `json:"mount"`
			}
			vars := map[string]any{
				"service":    service,
				"parameters": kvs,
				"mountPoint": mountPoint,
			}
			if err := do(cmd.Context(), serverAddr, mountMutation, vars, &result); err != nil {
				return err
			}
			fmt.Println(result.Mount)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", nil, "backend parameter as key=value (repeatable)")
	return cmd
}
