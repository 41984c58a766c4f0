package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jrsteele09/go-shop-client/internal/app"
	"github.com/jrsteele09/go-shop-client/internal/config"
	"github.com/jrsteele09/go-shop-client/storage/bolt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"
)

const (
	storeFile        = "client.db"
	storeLockTimeout = time.Second
)

var (
	shop  *app.App
	store *bolt.Store
)

var rootCmd = &cobra.Command{
	Use:           "shop",
	Short:         "Client for the multivendor shop",
	Long:          `Browse products, keep a wishlist and cart, and place orders against the multivendor shop services.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}
		setupLogging(cfg)
		return open(cmd.Context(), cfg)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shop == nil {
			return closeStore()
		}
		if notice := shop.Sessions.Notice(); notice != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), notice)
		}
		return closeStore()
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		_ = closeStore()
		os.Exit(1)
	}
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// open builds the client over the bbolt file in the data folder and restores
// the session.
func open(ctx context.Context, cfg config.Config) error {
	if err := os.MkdirAll(cfg.GetDataFolder(), 0o700); err != nil {
		return errors.Wrap(err, "failed to create data directory")
	}
	s, err := openStore(filepath.Join(cfg.GetDataFolder(), storeFile))
	if err != nil {
		return err
	}
	store = s

	a, err := app.New(ctx, cfg, store)
	if err != nil {
		return err
	}
	if err := a.Initialise(ctx); err != nil {
		return err
	}
	shop = a
	return nil
}

// openStore opens the bbolt file, giving up when another shop process holds
// its lock for longer than storeLockTimeout.
func openStore(path string) (*bolt.Store, error) {
	s, err := bolt.NewRepositoryFromFile(path, &bbolt.Options{Timeout: storeLockTimeout})
	if errors.Is(err, bberrors.ErrTimeout) {
		return nil, errors.Errorf("client storage %s is in use by another shop process (is shop serve running?)", path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open client storage")
	}
	return s, nil
}

func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// requireSession fails unless a user is logged in.
func requireSession() error {
	if !shop.Sessions.Session().IsAuthenticated {
		return errors.New("not logged in, run: shop login")
	}
	return nil
}
