// Команда migrate применяет, откатывает и показывает встроенные миграции PostgreSQL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/storage/postgres"
)

const (
	defaultTimeout = 30 * time.Second
	envPostgresDSN = "ORDERDESK_POSTGRES_DSN"
)

type options struct {
	direction string
	steps     int
	dsn       string
}

// schema — часть *postgres.Store, которой пользуется команда.
type schema interface {
	MigrateUp(ctx context.Context, steps int) error
	MigrateDown(ctx context.Context, steps int) error
	MigrationStatus(ctx context.Context) (postgres.MigrationState, error)
}

func main() {
	_ = godotenv.Load()

	opts, err := parseOptions(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.WithError(err).Fatal("invalid arguments")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, opts.dsn)
	if err != nil {
		log.WithError(err).Fatal("open postgres")
	}
	err = execute(ctx, store, opts, os.Stdout)
	_ = store.Close()
	if err != nil {
		log.WithError(err).WithField("direction", opts.direction).Fatal("migration failed")
	}
}

func parseOptions(args []string, getenv func(string) string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.StringVar(&opts.direction, "direction", "up", "up | down | status")
	fs.IntVar(&opts.steps, "steps", 0, "migrations to apply or roll back (0: all for up, one for down)")
	fs.StringVar(&opts.dsn, "dsn", "", "PostgreSQL DSN (default $"+envPostgresDSN+")")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.direction = strings.ToLower(strings.TrimSpace(opts.direction))
	opts.dsn = strings.TrimSpace(opts.dsn)
	if opts.dsn == "" {
		opts.dsn = strings.TrimSpace(getenv(envPostgresDSN))
	}

	switch {
	case opts.direction != "up" && opts.direction != "down" && opts.direction != "status":
		return options{}, fmt.Errorf("unsupported direction %q (use up, down or status)", opts.direction)
	case opts.steps < 0:
		return options{}, errors.New("steps must be >= 0")
	case opts.dsn == "":
		return options{}, fmt.Errorf("%s (or -dsn) is required", envPostgresDSN)
	}
	return opts, nil
}

// execute выполняет направление и печатает итоговое состояние схемы.
func execute(ctx context.Context, s schema, opts options, out io.Writer) error {
	var err error
	switch opts.direction {
	case "up":
		err = s.MigrateUp(ctx, opts.steps)
	case "down":
		err = s.MigrateDown(ctx, max(opts.steps, 1))
	}
	if err != nil {
		return err
	}

	state, err := s.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	_, err = fmt.Fprintln(out, formatState(opts.direction, state))
	return err
}

func formatState(direction string, state postgres.MigrationState) string {
	line := fmt.Sprintf("%s: version=%d applied=%d", direction, state.Version, state.Applied)
	if len(state.Pending) > 0 {
		line += " pending=" + strings.Join(state.Pending, ",")
	}
	return line
}
