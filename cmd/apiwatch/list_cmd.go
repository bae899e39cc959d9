package main

import (
	"github.com/spf13/cobra"

	"github.com/apiwatch/apiwatch/pkg/api"
	"github.com/apiwatch/apiwatch/pkg/client"
)

type listOpts struct {
	*rootOpts
	namespace string
	output    string
	selector  string
	limit     int64
	next      string
}

func newList(parent *rootOpts) *listOpts {
	return &listOpts{rootOpts: parent}
}

func (opts *listOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <apiVersion> <resource>",
		Short: "Fetch a collection of resources.",
		RunE:  opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "Confine the list to a namespace; empty for cluster scope")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "yaml", "Output format: json or yaml")
	cmd.Flags().StringVarP(&opts.selector, "selector", "l", "", "Label selector to filter on")
	cmd.Flags().Int64Var(&opts.limit, "limit", 0, "Maximum number of items; 0 means no limit")
	cmd.Flags().StringVar(&opts.next, "continue", "", "Continuation token from a previous limited list")
	return cmd
}

func (opts *listOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return newUsageError("expected arguments <apiVersion> <resource>")
	}
	ref := client.Ref{
		APIVersion: args[0],
		Resource:   args[1],
		Namespace:  opts.namespace,
	}

	list, err := client.List[api.UnstructuredList](cmd.Context(), opts.API, ref, client.ListOptions{
		Limit:         opts.limit,
		Continue:      opts.next,
		LabelSelector: opts.selector,
	})
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), opts.output, list)
}
