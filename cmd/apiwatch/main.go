package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRoot()
	rootCmd := root.Command()
	rootCmd.AddCommand(
		newGet(root).Command(),
		newList(root).Command(),
		newWatch(root).Command(),
		newPatch(root).Command(),
	)

	if cmd, err := rootCmd.ExecuteContextC(ctx); err != nil {
		switch err.(type) {
		case *usageError:
			cmd.Println("")
			cmd.Println(cmd.UsageString())
		}
		os.Exit(1)
	}
}
