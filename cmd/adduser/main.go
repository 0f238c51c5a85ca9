package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/mkrupp/expensetracker/internal/infra/database"
	"github.com/mkrupp/expensetracker/internal/repo/user"
	"github.com/mkrupp/expensetracker/internal/svc/authsvc"
)

const (
	defaultDBPath = "var/storage/expenses.db"
	dbPathEnv     = "EXPENSES_SQLITE_DATABASE_PATH"
)

var errMissingUser = errors.New("missing required flag: -user")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		fmt.Fprintf(os.Stderr, "adduser: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "username to create")
	password := fs.String("password", "", "password; prompted for when omitted")
	dbPath := fs.String("db", defaultDBPath, "SQLite database file, overridden by $"+dbPathEnv+" unless set")
	cost := fs.Int("cost", 10, "bcrypt cost")

	if err := fs.Parse(args); err != nil {
		return err //nolint:wrapcheck
	}

	if *username == "" {
		fs.Usage()

		return errMissingUser
	}

	if !flagSet(fs, "db") {
		if path := os.Getenv(dbPathEnv); path != "" {
			*dbPath = path
		}
	}

	if !flagSet(fs, "password") {
		fmt.Fprint(stdout, "Password: ")

		var err error
		if *password, err = readPassword(stdin); err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		fmt.Fprintln(stdout)
	}

	db, err := database.OpenSQLite(ctx, database.SQLiteConfig{DatabasePath: *dbPath})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	authSvc, err := authsvc.NewAuthService(user.SQLiteUserRepositoryFactory(db), authsvc.AuthConfig{BcryptCost: *cost})
	if err != nil {
		return fmt.Errorf("new auth service: %w", err)
	}

	created, err := authSvc.Signup(ctx, *username, *password)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	fmt.Fprintf(stdout, "created user %q with id %d\n", created.Username, created.ID)

	return nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false

	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})

	return found
}

// readPassword reads without echo from a terminal, or one line from anything else.
func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("read terminal: %w", err)
		}

		return string(b), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan: %w", err)
	}

	return "", io.EOF
}
