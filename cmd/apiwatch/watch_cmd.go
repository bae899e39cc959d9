package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apiwatch/apiwatch/pkg/api"
	"github.com/apiwatch/apiwatch/pkg/client"
)

type watchOpts struct {
	*rootOpts
	namespace string
	selector  string
	output    string
}

func newWatch(parent *rootOpts) *watchOpts {
	return &watchOpts{rootOpts: parent}
}

func (opts *watchOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <apiVersion> <resource>",
		Short: "Subscribe to changes of a collection and print events as they arrive.",
		RunE:  opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "Confine the watch to a namespace; empty for cluster scope")
	cmd.Flags().StringVarP(&opts.selector, "selector", "l", "", "Label selector to filter on")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Also print each object, in this format: json or yaml")
	return cmd
}

func (opts *watchOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return newUsageError("expected arguments <apiVersion> <resource>")
	}
	ref := client.Ref{
		APIVersion: args[0],
		Resource:   args[1],
		Namespace:  opts.namespace,
	}

	w, err := client.Watch[api.Unstructured](cmd.Context(), opts.API, ref, client.ListOptions{
		LabelSelector: opts.selector,
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	out := cmd.OutOrStdout()
	for ev := range w.Events() {
		name := "<unknown>"
		if ev.Object != nil {
			name = ev.Object.Name()
			if ns := ev.Object.Namespace(); ns != "" {
				name = ns + "/" + name
			}
		}
		fmt.Fprintf(out, "%-10s %s\n", ev.Type, name)
		if opts.output != "" && ev.Object != nil {
			if err := writeOutput(out, opts.output, ev.Object); err != nil {
				return err
			}
		}
	}
	return w.Err()
}
