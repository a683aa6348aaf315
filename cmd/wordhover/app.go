package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordhover/internal/cli"
	"codeberg.org/snonux/wordhover/internal/dictionary"
	"codeberg.org/snonux/wordhover/internal/flashcard"
	"codeberg.org/snonux/wordhover/internal/logging"
	"codeberg.org/snonux/wordhover/internal/processor"
	"codeberg.org/snonux/wordhover/internal/translation"
)

// app holds the resources shared by all subcommands. They are opened on
// first use so --help and --version never touch the database.
type app struct {
	flags *cli.Flags
	log   *zap.Logger
	kv    *flashcard.SQLiteKV
	store *flashcard.Store
}

func (a *app) logger() *zap.Logger {
	if a.log == nil {
		a.log = logging.New(viper.GetBool("log.verbose"))
	}
	return a.log
}

func (a *app) openStore() (*flashcard.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	path := cli.GetStorePath()
	kv, err := flashcard.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	a.kv = kv
	a.store = flashcard.NewStore(flashcard.NewKVRepository(kv), flashcard.WithLogger(a.logger()))
	a.logger().Debug("store opened", zap.String("path", path))
	return a.store, nil
}

func (a *app) storeDir() string {
	return filepath.Dir(cli.GetStorePath())
}

func (a *app) translator(ctx context.Context) (*translation.Translator, error) {
	backend, err := cli.NewBackend(ctx)
	if err != nil {
		return nil, err
	}
	return translation.NewTranslator(backend, a.logger()), nil
}

func (a *app) dictionary() *dictionary.Client {
	return dictionary.NewClient(dictionary.Config{
		BaseURL: viper.GetString("dictionary.base_url"),
		Logger:  a.logger(),
	})
}

// processor builds a processor. withTranslator creates the backend, which
// fails without an API key.
func (a *app) processor(ctx context.Context, withTranslator bool) (*processor.Processor, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}

	cfg := processor.Config{
		Store:      store,
		Dictionary: a.dictionary(),
		Logger:     a.logger(),
	}
	if withTranslator {
		tr, err := a.translator(ctx)
		if err != nil {
			return nil, err
		}
		cfg.Translator = tr
	}
	return processor.NewProcessor(cfg), nil
}

// run wraps a processor workflow as a cobra RunE
func (a *app) run(withTranslator bool, fn func(ctx context.Context, p *processor.Processor, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := a.processor(ctx, withTranslator)
		if err != nil {
			return err
		}
		return fn(ctx, p, args)
	}
}

func (a *app) close() {
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.logger().Warn("failed to close store", zap.Error(err))
		}
		a.kv = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
