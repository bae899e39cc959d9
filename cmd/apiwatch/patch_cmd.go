package main

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/apiwatch/apiwatch/pkg/api"
	"github.com/apiwatch/apiwatch/pkg/client"
	"github.com/apiwatch/apiwatch/pkg/patch"
)

type patchOpts struct {
	*rootOpts
	namespace string
	output    string
	document  string
	merge     string
}

func newPatch(parent *rootOpts) *patchOpts {
	return &patchOpts{rootOpts: parent}
}

func (opts *patchOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <apiVersion> <resource> <name>",
		Short: "Apply a partial update to a resource.",
		RunE:  opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "Namespace of the resource; empty for cluster scope")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "yaml", "Output format for the patched resource: json or yaml")
	cmd.Flags().StringVarP(&opts.document, "patch", "p", "", "JSON Patch document (an array of operations)")
	cmd.Flags().StringVarP(&opts.merge, "merge", "m", "", "Merge-patch document (a partial resource)")
	return cmd
}

func (opts *patchOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		return newUsageError("expected arguments <apiVersion> <resource> <name>")
	}
	if (opts.document == "") == (opts.merge == "") {
		return newUsageError("specify exactly one of --patch or --merge")
	}
	ref := client.Ref{
		APIVersion: args[0],
		Resource:   args[1],
		Namespace:  opts.namespace,
		Name:       args[2],
	}

	var obj *api.Unstructured
	var err error
	if opts.document != "" {
		var ops patch.List
		if err := json.Unmarshal([]byte(opts.document), &ops); err != nil {
			return errors.Wrap(err, "parsing patch document")
		}
		obj, err = client.PatchRaw[api.Unstructured](cmd.Context(), opts.API, ref, func(l *patch.List) {
			*l = append(*l, ops...)
		})
	} else {
		// A merge patch is original→modified; from the command line the
		// caller supplies the difference directly, so send it as-is against
		// an empty original.
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(opts.merge), &doc); err != nil {
			return errors.Wrap(err, "parsing merge document")
		}
		obj, err = client.MergePatch[api.Unstructured](cmd.Context(), opts.API, ref, map[string]interface{}{}, doc)
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), opts.output, obj)
}
