package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/LRM-Solutions/fortelyne-app-checklist/app"
)

func Login(ctx context.Context, app app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: login <email>")
	}
	email := args[0]

	fmt.Fprint(os.Stderr, "password: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("login.read_password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")

	session, err := app.Client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if session.ExpiresAt.IsZero() {
		fmt.Printf("logged in as %s\n", session.Email)
	} else {
		fmt.Printf("logged in as %s (session expires %s)\n",
			session.Email, session.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func Logout(app app.App) error {
	if err := app.Client.Logout(); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}
