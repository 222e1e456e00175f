// Command adduser creates a ledger user directly in the database, typically
// the first admin account.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"ledger/internal/auth"
	"ledger/internal/core"
	"ledger/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("user", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted when empty)")
	role := fs.String("role", core.RoleUser, "role: user or admin")
	dbPath := fs.String("db", envOr("SQLITE_DB_PATH", "./data/ledger.db"), "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *password == "" {
		p, err := readPassword(stdin, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "read password: %v\n", err)
			return 1
		}
		*password = p
	}

	name := strings.TrimSpace(*username)
	mail := strings.TrimSpace(*email)
	if err := core.ValidateRegistration(name, mail, *password); err != nil {
		fmt.Fprintf(stderr, "invalid user: %v\n", err)
		return 1
	}
	if err := core.ValidateRole(*role); err != nil {
		fmt.Fprintf(stderr, "invalid user: %v\n", err)
		return 1
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	repo, err := storage.NewSQLiteRepository(*dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	u, err := repo.CreateUser(context.Background(), name, mail, hash, *role)
	if err != nil {
		var serr *storage.Error
		if errors.As(err, &serr) {
			fmt.Fprintln(stderr, serr.Msg)
		} else {
			fmt.Fprintf(stderr, "create user: %v\n", err)
		}
		return 1
	}

	fmt.Fprintf(stdout, "created %s user %q (id %d)\n", u.Role, u.Username, u.ID)
	return 0
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise, so the password can be piped in.
func readPassword(stdin io.Reader, stdout io.Writer) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(stdout, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(stdout)
		return string(b), err
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
