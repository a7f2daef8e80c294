// Command register adds or overwrites a user record in the yoSSO
// credential store. It prompts for the username, password (with terminal
// echo disabled) and display name, hashes the password and writes the
// record through the same repository the server uses.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/atinyakov/yosso/internal/db"
	"github.com/atinyakov/yosso/internal/password"
	"github.com/atinyakov/yosso/internal/repository"
	"github.com/atinyakov/yosso/internal/service"
)

func main() {
	dataDir := flag.String("data", "data", "path to the data directory")
	flag.Parse()

	if err := run(*dataDir); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(dataDir string) error {
	fmt.Println("yoSSO User Registration")
	fmt.Println("-----------------------")

	username, err := readLine("Username: ")
	if err != nil {
		return err
	}
	if username == "" {
		return errors.New("username is required")
	}

	boltDB, err := db.OpenBolt(filepath.Join(dataDir, "yosso.db"))
	if err != nil {
		return err
	}
	store, err := repository.NewBoltStore(boltDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	auth := service.NewAuthService(store)

	exists, err := auth.UserExists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		resp, err := readLine(fmt.Sprintf("Warning: user %q already exists. Overwrite? (y/n): ", username))
		if err != nil {
			return err
		}
		if !strings.EqualFold(resp, "y") {
			return errors.New("aborted")
		}
	}

	pass, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	if pass == "" {
		return errors.New("password is required")
	}

	name, err := readLine("Display Name (e.g. John Doe): ")
	if err != nil {
		return err
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return err
	}

	if err := auth.Upsert(ctx, username, hash, name); err != nil {
		return err
	}

	fmt.Printf("User %q registered successfully.\n", username)
	return nil
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
