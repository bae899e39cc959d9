package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/spf13/cobra"

	"github.com/apiwatch/apiwatch/pkg/client"
)

const (
	envVariableURL   = "APIWATCH_URL"
	envVariableToken = "APIWATCH_TOKEN"
)

type usageError struct {
	error
}

func newUsageError(msg string) error {
	return &usageError{error: errors.New(msg)}
}

type rootOpts struct {
	URL     string
	Token   string
	Timeout time.Duration
	API     *client.Client
}

func newRoot() *rootOpts {
	return &rootOpts{}
}

var rootLongHelp = strings.TrimSpace(`
apiwatch inspects and mutates resources served by a resource-oriented HTTP API.

Workflow:
  apiwatch list apps/v1 deployments -n default            # What is running?
  apiwatch get apps/v1 deployments web -n default         # Inspect one resource.
  apiwatch watch apps/v1 deployments -n default           # Follow live changes.
  apiwatch patch apps/v1 deployments web -n default \
      -p '[{"op":"replace","path":"/spec/replicas","value":3}]'
`)

func (opts *rootOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "apiwatch",
		Long:              rootLongHelp,
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: opts.PersistentPreRunE,
	}
	cmd.PersistentFlags().StringVarP(&opts.URL, "url", "u", "http://localhost:8080",
		fmt.Sprintf("base URL of the API server; you can also set the environment variable %s", envVariableURL))
	cmd.PersistentFlags().StringVarP(&opts.Token, "token", "t", "",
		fmt.Sprintf("bearer token for the API server; you can also set the environment variable %s", envVariableToken))
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 0,
		"maximum time for a single request; 0 means no limit (watches always run until stopped)")
	return cmd
}

func (opts *rootOpts) PersistentPreRunE(cmd *cobra.Command, _ []string) error {
	url := os.Getenv(envVariableURL)
	if cmd.Flags().Changed("url") || url == "" {
		url = opts.URL
	}
	token := os.Getenv(envVariableToken)
	if cmd.Flags().Changed("token") || token == "" {
		token = opts.Token
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	opts.API = client.New(&http.Client{Timeout: opts.Timeout}, url, client.Token(token), logger)
	return nil
}
