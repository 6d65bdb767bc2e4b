package main

import (
	"database/sql"
	"fmt"

	"pickupoint/internal/adapters/out/postgres/migrations"

	"github.com/spf13/cobra"
)

func migrateCommand(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	c.AddCommand(migrateUpCommand(a), migrateDownCommand(a), migrateStatusCommand(a))
	return c
}

func (a *app) withSchema(fn func(db *sql.DB) error) error {
	db, err := migrations.Open(a.cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer db.Close()
	return fn(db)
}

func migrateUpCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(c *cobra.Command, _ []string) error {
			return a.withSchema(func(db *sql.DB) error {
				n, err := migrations.Up(db)
				if err != nil {
					return err
				}
				c.Printf("Applied %d migrations\n", n)
				return nil
			})
		},
	}
}

func migrateDownCommand(a *app) *cobra.Command {
	var steps int
	c := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(c *cobra.Command, _ []string) error {
			return a.withSchema(func(db *sql.DB) error {
				n, err := migrations.Down(db, steps)
				if err != nil {
					return err
				}
				c.Printf("Rolled back %d migrations\n", n)
				return nil
			})
		},
	}
	c.Flags().IntVar(&steps, "steps", 1, "how many migrations to roll back, 0 for all")
	return c
}

func migrateStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations not yet applied",
		RunE: func(c *cobra.Command, _ []string) error {
			return a.withSchema(func(db *sql.DB) error {
				pending, err := migrations.Pending(db)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					c.Println("Schema is up to date")
					return nil
				}
				for _, id := range pending {
					c.Println("pending:", id)
				}
				return nil
			})
		},
	}
}
