package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/pitwall/f1-stats/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var migrationsDir string

	root := &cobra.Command{
		Use:           "f1stats-migrate",
		Short:         "Apply and inspect the f1-stats database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&migrationsDir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR, then ./db/migrations)")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(migrationsDir, func(m *migrate.Migrate) error {
				if err := m.Up(); err != nil {
					if !errors.Is(err, migrate.ErrNoChange) {
						return err
					}
					fmt.Println("no pending migrations")
				}

				return reportVersion(m)
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back the most recent migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}

			return withMigrator(migrationsDir, func(m *migrate.Migrate) error {
				if err := m.Steps(-steps); err != nil {
					if !errors.Is(err, migrate.ErrNoChange) {
						return err
					}
					fmt.Println("nothing to roll back")
				}

				return reportVersion(m)
			})
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(migrationsDir, reportVersion)
		},
	}

	forceCmd := &cobra.Command{
		Use:   "force version",
		Short: "Overwrite the recorded schema version after a manual repair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || version < 0 {
				return fmt.Errorf("invalid schema version %q", args[0])
			}

			return withMigrator(migrationsDir, func(m *migrate.Migrate) error {
				if err := m.Force(version); err != nil {
					return fmt.Errorf("force version %d: %w", version, err)
				}

				return reportVersion(m)
			})
		},
	}

	gotoCmd := &cobra.Command{
		Use:     "goto version",
		Aliases: []string{"migrate"},
		Short:   "Migrate up or down to a specific schema version",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 32)
			if err != nil {
				return fmt.Errorf("invalid target version %q", args[0])
			}

			return withMigrator(migrationsDir, func(m *migrate.Migrate) error {
				if err := m.Migrate(uint(target)); err != nil {
					if !errors.Is(err, migrate.ErrNoChange) {
						return err
					}
					fmt.Println("already at target version")
				}

				return reportVersion(m)
			})
		},
	}

	root.AddCommand(upCmd, downCmd, versionCmd, forceCmd, gotoCmd)

	return root
}

func withMigrator(dirOverride string, fn func(*migrate.Migrate) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir, err := resolveMigrationsDir(dirOverride)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), migrationDBURL(cfg))
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			fmt.Fprintf(os.Stderr, "close migration source: %v\n", srcErr)
		}
		if dbErr != nil {
			fmt.Fprintf(os.Stderr, "close migration db: %v\n", dbErr)
		}
	}()

	return fn(m)
}

func reportVersion(m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("schema version: none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if dirty {
		fmt.Printf("schema version: %d (dirty)\n", version)
	} else {
		fmt.Printf("schema version: %d\n", version)
	}

	return nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || steps <= 0 {
		return 0, fmt.Errorf("invalid step count %q", args[0])
	}

	return steps, nil
}

func resolveMigrationsDir(override string) (string, error) {
	candidates := []string{
		strings.TrimSpace(override),
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("no migrations directory found (checked --dir, MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}

// migrationDBURL mirrors the connection tuning the service applies before
// opening its own pool, so migrations run against the exact same DSN shape.
func migrationDBURL(cfg config.Config) string {
	if !cfg.DBDisablePreparedBinary {
		return cfg.DBURL
	}

	parsed, err := url.Parse(cfg.DBURL)
	if err != nil || parsed == nil {
		return cfg.DBURL
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}
