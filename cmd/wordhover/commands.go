package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordhover/internal/cli"
	"codeberg.org/snonux/wordhover/internal/gate"
	"codeberg.org/snonux/wordhover/internal/logging"
	"codeberg.org/snonux/wordhover/internal/messaging"
	"codeberg.org/snonux/wordhover/internal/models"
	"codeberg.org/snonux/wordhover/internal/processor"
	"codeberg.org/snonux/wordhover/internal/server"
)

func newTranslateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate text into the target language",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(true, func(ctx context.Context, p *processor.Processor, args []string) error {
			return p.ProcessSingleWord(ctx, args[0], a.flags.Save, a.flags.DeckID)
		}),
	}
	cmd.Flags().BoolVar(&a.flags.Save, "save", false, "Save the translation as a flashcard")
	cmd.Flags().StringVar(&a.flags.DeckID, "deck", a.flags.DeckID, "Deck to save into")
	return cmd
}

func newLookupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look a Japanese word up in the dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(false, func(ctx context.Context, p *processor.Processor, args []string) error {
			return p.Lookup(ctx, args[0])
		}),
	}
}

func newDeckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Manage decks",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List decks",
			Args:  cobra.NoArgs,
			RunE: a.run(false, func(ctx context.Context, p *processor.Processor, _ []string) error {
				return p.ListDecks(ctx)
			}),
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show the cards of a deck",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(false, func(ctx context.Context, p *processor.Processor, args []string) error {
				return p.ShowDeck(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a deck",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(false, func(ctx context.Context, p *processor.Processor, args []string) error {
				_, err := p.CreateDeck(ctx, args[0])
				return err
			}),
		},
		&cobra.Command{
			Use:   "rename <id> <name>",
			Short: "Rename a deck",
			Args:  cobra.ExactArgs(2),
			RunE: a.run(false, func(ctx context.Context, p *processor.Processor, args []string) error {
				return p.RenameDeck(ctx, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a deck and its cards",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(false, func(ctx context.Context, p *processor.Processor, args []string) error {
				return p.DeleteDeck(ctx, args[0])
			}),
		},
	)
	return cmd
}

func newCardCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage cards",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <deckID> <original> <translation> [hiragana]",
			Short: "Add a card with a known translation",
			Args:  cobra.RangeArgs(3, 4),
			RunE: a.run(false, func(ctx context.Context, p *processor.Processor, args []string) error {
				hiragana := ""
				if len(args) == 4 {
					hiragana = args[3]
				}
				return p.AddCard(ctx, args[0], args[1], args[2], hiragana)
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a card",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(false, func(ctx context.Context, p *processor.Processor, args []string) error {
				return p.DeleteCard(ctx, args[0])
			}),
		},
	)
	return cmd
}

func newStudyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "study [deckID]",
		Short: "Study a deck interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(false, func(ctx context.Context, p *processor.Processor, args []string) error {
			deckID := a.flags.DeckID
			if len(args) == 1 {
				deckID = args[0]
			}
			return p.Study(ctx, deckID)
		}),
	}
}

func newSettingsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "settings [language]",
		Short: "Show or set the target language",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(false, func(ctx context.Context, p *processor.Processor, args []string) error {
			lang := ""
			if len(args) == 1 {
				lang = args[0]
			}
			return p.Settings(ctx, lang)
		}),
	}
}

func newImportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import cards from a batch file",
		Long: `Import cards from a text file with one entry per line:

  猫                  translated with the configured backend
  犬 = dog            saved as given
  山 = mountain | やま  saved with a reading`,
		Args: cobra.ExactArgs(1),
		RunE: a.run(true, func(ctx context.Context, p *processor.Processor, args []string) error {
			return p.ProcessBatch(ctx, args[0], a.flags.DeckID)
		}),
	}
	cmd.Flags().StringVar(&a.flags.DeckID, "deck", a.flags.DeckID, "Deck to import into")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [deckID]",
		Short: "Export a deck for Anki",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(false, func(ctx context.Context, p *processor.Processor, args []string) error {
			deckID := a.flags.DeckID
			if len(args) == 1 {
				deckID = args[0]
			}
			path, err := p.GenerateAnkiFile(ctx, deckID, a.flags.Output, a.flags.AnkiCSV)
			if err != nil {
				return err
			}
			fmt.Printf("Anki file created: %s\n", path)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&a.flags.AnkiCSV, "csv", false, "Generate CSV instead of an APKG package")
	cmd.Flags().StringVarP(&a.flags.Output, "output", "o", "", "Output file (default is the deck name)")
	return cmd
}

func newArchiveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Write a timestamped JSON snapshot of all decks",
		Args:  cobra.NoArgs,
		RunE: a.run(false, func(ctx context.Context, p *processor.Processor, _ []string) error {
			_, err := p.Archive(ctx, a.storeDir())
			return err
		}),
	}
}

func newModelsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models available to the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			backend, err := cli.NewBackend(ctx)
			if err != nil {
				return err
			}
			source, err := cli.NewModelSource(backend)
			if err != nil {
				return err
			}
			return models.NewLister(source).ListAvailableModels(ctx, os.Stdout)
		},
	}
}

func newServeCommand(a *app) *cobra.Command {
	var jsonLogs bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for the browser extension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if jsonLogs {
				log, err := logging.NewJSON(a.flags.Verbose)
				if err != nil {
					return fmt.Errorf("failed to create logger: %w", err)
				}
				a.log = log
			}
			log := a.logger()

			port := cli.GetPort()
			if cmd.Flags().Changed("port") {
				port = a.flags.Port
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			if _, err := store.ListDecks(ctx); err != nil {
				return fmt.Errorf("failed to prepare store: %w", err)
			}

			tr, err := a.translator(ctx)
			if err != nil {
				return err
			}

			// The probe only reports; the server starts either way.
			go func() {
				if err := tr.Probe(ctx); err != nil {
					log.Warn("backend connectivity check failed", zap.Error(err))
					return
				}
				log.Info("backend reachable", zap.String("backend", tr.Backend().Name()))
			}()

			srv := server.New(server.Config{
				Addr:           fmt.Sprintf(":%d", port),
				Gate:           gate.New(cli.GetGateTimeout(), gate.WithLogger(log)),
				Translate:      tr.Translate,
				Store:          store,
				Dictionary:     a.dictionary(),
				Hub:            messaging.NewHub(),
				Logger:         log,
				DebounceWindow: cli.GetDebounceWindow(),
			})
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().IntVarP(&a.flags.Port, "port", "p", a.flags.Port, "Port to listen on")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Log as JSON")
	return cmd
}
