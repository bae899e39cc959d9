package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apiwatch/apiwatch/pkg/api"
	"github.com/apiwatch/apiwatch/pkg/client"
)

type getOpts struct {
	*rootOpts
	namespace string
	output    string
}

func newGet(parent *rootOpts) *getOpts {
	return &getOpts{rootOpts: parent}
}

func (opts *getOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <apiVersion> <resource> <name>",
		Short: "Fetch a single resource.",
		RunE:  opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "Namespace of the resource; empty for cluster scope")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "yaml", "Output format: json or yaml")
	return cmd
}

func (opts *getOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		return newUsageError("expected arguments <apiVersion> <resource> <name>")
	}
	ref := client.Ref{
		APIVersion: args[0],
		Resource:   args[1],
		Namespace:  opts.namespace,
		Name:       args[2],
	}

	obj, found, err := client.Get[api.Unstructured](cmd.Context(), opts.API, ref)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s %q not found", ref.Resource, ref.Name)
	}
	return writeOutput(cmd.OutOrStdout(), opts.output, obj)
}
