package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/wordhover/internal/cli"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	a := &app{flags: flags}
	defer a.close()

	rootCmd.AddCommand(
		newTranslateCommand(a),
		newLookupCommand(a),
		newDeckCommand(a),
		newCardCommand(a),
		newStudyCommand(a),
		newSettingsCommand(a),
		newImportCommand(a),
		newExportCommand(a),
		newArchiveCommand(a),
		newModelsCommand(a),
		newServeCommand(a),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		a.close()
		stop()
		os.Exit(1)
	}
}
