package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tse-jeff/OpenAI-Gym-Car-Race/commands"
)

// main entry point to the designer, the bench and the viewer
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
