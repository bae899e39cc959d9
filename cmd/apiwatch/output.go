package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// writeOutput renders v to out in the requested format.
func writeOutput(out io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding output")
		}
		fmt.Fprintln(out, string(b))
		return nil
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "encoding output")
		}
		fmt.Fprint(out, string(b))
		return nil
	default:
		return newUsageError("unknown output format " + format + ", expected json or yaml")
	}
}
