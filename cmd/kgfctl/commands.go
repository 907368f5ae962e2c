package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kewgardenflowers/kgf-orders/auth"
	"github.com/kewgardenflowers/kgf-orders/internal/config"
	"github.com/kewgardenflowers/kgf-orders/internal/db"
	"github.com/kewgardenflowers/kgf-orders/internal/feeds"
	"github.com/kewgardenflowers/kgf-orders/internal/logging"
	"github.com/kewgardenflowers/kgf-orders/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// env is built once per invocation in the root PersistentPreRunE.
type env struct {
	cfg config.Config
	log logrus.FieldLogger
	out io.Writer
}

func (e *env) open() (*gorm.DB, error) {
	conn, err := db.Open(e.cfg.Database, e.log)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return conn, nil
}

// openMigrated connects and applies the configured migrations.
func (e *env) openMigrated() (*gorm.DB, error) {
	conn, err := e.open()
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn, e.cfg.App.Migrations); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	e := &env{out: out}
	root := &cobra.Command{
		Use:           "kgfctl",
		Short:         "Kew Garden Flowers order maintenance",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.cfg = config.Load()
			e.log = logging.New(e.cfg.Log.Level, e.cfg.Log.Format)
			return nil
		},
	}
	root.SetOut(out)

	root.AddCommand(migrateCmd(e))
	root.AddCommand(seedCmd(e))
	root.AddCommand(nextIDCmd(e))
	root.AddCommand(exportCmd(e))
	root.AddCommand(hashPasswordCmd(e))
	return root
}

func migrateCmd(e *env) *cobra.Command {
	var useSQL bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Long: `Bring the database schema up to date.

By default the schema is derived from the models (gorm AutoMigrate).
--sql applies the versioned migration files instead; PostgreSQL only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := e.open()
			if err != nil {
				return err
			}
			mode := config.MigrateAuto
			if useSQL {
				mode = config.MigrateSQL
			}
			if err := db.Migrate(conn, mode); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(e.out, "migrations applied (%s)\n", mode)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useSQL, "sql", false, "apply versioned SQL migrations")
	return cmd
}

func seedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample clients and orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := e.openMigrated()
			if err != nil {
				return err
			}
			orders := services.NewOrderService(conn, e.log)
			clients := services.NewClientService(conn, e.log)
			if err := db.Seed(cmd.Context(), conn, orders, clients, time.Now()); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintln(e.out, "seed data loaded")
			return nil
		},
	}
}

func nextIDCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "next-id",
		Short: "Print the order ID the next submission will receive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := e.openMigrated()
			if err != nil {
				return err
			}
			id, err := services.NewOrderService(conn, e.log).NextPublicID(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, id)
			return nil
		},
	}
}

func exportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "export {orders|clients}",
		Short:     "Write active orders or clients as CSV to stdout",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"orders", "clients"},
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := e.openMigrated()
			if err != nil {
				return err
			}
			return export(cmd.Context(), e, conn, args[0])
		},
	}
}

func export(ctx context.Context, e *env, conn *gorm.DB, what string) error {
	switch what {
	case "orders":
		orders, err := services.NewOrderService(conn, e.log).Active(ctx)
		if err != nil {
			return err
		}
		return feeds.WriteOrdersCSV(e.out, orders)
	case "clients":
		clients, err := services.NewClientService(conn, e.log).List(ctx, "")
		if err != nil {
			return err
		}
		return feeds.WriteClientsCSV(e.out, clients)
	}
	return fmt.Errorf("unknown export %q", what)
}

func hashPasswordCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plain := strings.TrimSpace(args[0])
			if plain == "" {
				return fmt.Errorf("password must not be empty")
			}
			hash, err := auth.HashPassword(plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, hash)
			return nil
		},
	}
}
