package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.newFlagSet("register", "register [-password <password>] <username>")
	password := fs.String("password", "", "password (prompted if omitted)")
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	username := pos[0]

	if err := invalid("username", model.ValidateUsername(username)); err != nil {
		return err
	}
	if *password == "" {
		if *password, err = a.readLine("Password: "); err != nil {
			return err
		}
	}
	if err := invalid("password", model.ValidatePassword(*password)); err != nil {
		return err
	}

	account, err := a.Store.CreateAccount(ctx, username, *password)
	if err != nil {
		return explain("cannot register "+username, err)
	}
	if err := a.Sessions.Save(account.ID, account.Username); err != nil {
		return err
	}

	fmt.Fprintf(a.Stdout, "Account created: %s\n", account.Username)
	fmt.Fprintln(a.Stdout, "Create a folder with 'shramba folder add <name>' before adding items.")
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.newFlagSet("login", "login [-password <password>] <username>")
	password := fs.String("password", "", "password (prompted if omitted)")
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	username := pos[0]

	if *password == "" {
		if *password, err = a.readLine("Password: "); err != nil {
			return err
		}
	}

	if !a.Store.VerifyCredentials(ctx, username, *password) {
		return failf("invalid username or password")
	}
	account, err := a.Store.GetAccountByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := a.Sessions.Save(account.ID, account.Username); err != nil {
		return err
	}

	a.logger().Info("logged in", "account_id", account.ID)
	fmt.Fprintf(a.Stdout, "Logged in as %s\n", account.Username)
	return nil
}

func (a *App) logout(_ context.Context, args []string) error {
	fs := a.newFlagSet("logout", "logout")
	if _, err := parse(fs, args, 0, 0); err != nil {
		return err
	}
	if err := a.Sessions.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.Stdout, "Logged out.")
	return nil
}

func (a *App) whoami(ctx context.Context, args []string) error {
	fs := a.newFlagSet("whoami", "whoami")
	if _, err := parse(fs, args, 0, 0); err != nil {
		return err
	}
	account, err := a.current(ctx)
	if err != nil {
		return err
	}
	printAccount(a.Stdout, account)
	return nil
}

func (a *App) settings(ctx context.Context, args []string) error {
	fs := a.newFlagSet("settings", "settings [-business <name>] [-sms on|off] [-phone <number>]")
	business := fs.String("business", "", "business name")
	sms := fs.String("sms", "", "low stock text alerts: on or off")
	phone := fs.String("phone", "", "phone number for alerts (empty to clear)")
	if _, err := parse(fs, args, 0, 0); err != nil {
		return err
	}

	account, err := a.current(ctx)
	if err != nil {
		return err
	}

	changed := false
	if isSet(fs, "business") {
		if strings.TrimSpace(*business) == "" {
			return failf("business name cannot be blank")
		}
		account.BusinessName = *business
		changed = true
	}
	if isSet(fs, "phone") {
		account.PhoneNumber = strings.TrimSpace(*phone)
		changed = true
	}
	if isSet(fs, "sms") {
		switch strings.ToLower(*sms) {
		case "on", "true", "yes":
			account.SMSEnabled = true
		case "off", "false", "no":
			account.SMSEnabled = false
		default:
			return failf("-sms must be on or off, got %q", *sms)
		}
		changed = true
	}

	if changed {
		n, err := a.Store.UpdateAccountSettings(ctx, account.ID, account.BusinessName, account.SMSEnabled, account.PhoneNumber)
		if err != nil {
			return err
		}
		if n == 0 {
			return explain("cannot update settings", store.ErrNotFound)
		}
		fmt.Fprintln(a.Stdout, "Settings saved.")
		if account.SMSEnabled && account.PhoneNumber == "" {
			fmt.Fprintln(a.Stdout, "Note: text alerts are on but no phone number is set.")
		}
	}

	printAccount(a.Stdout, account)
	return nil
}

func (a *App) version(ctx context.Context, args []string) error {
	fs := a.newFlagSet("version", "version")
	if _, err := parse(fs, args, 0, 0); err != nil {
		return err
	}

	v, err := a.Store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	name := a.Version
	if name == "" {
		name = "dev"
	}
	fmt.Fprintf(a.Stdout, "shramba %s (schema v%d)\n", name, v)
	return nil
}
