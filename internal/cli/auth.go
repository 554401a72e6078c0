package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/storefront-cli/internal/api"
	"github.com/storefront-cli/internal/logger"
	"github.com/storefront-cli/internal/session"
)

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("login requires -username and -password")
	}

	result, err := a.client.Login(ctx, api.LoginInput{
		Username: *username,
		Password: *password,
	})
	if err != nil {
		return err
	}

	if err := a.session.Save(session.Session{
		Token:    result.Token,
		Username: result.User.Username,
		UserID:   result.User.ID,
		SavedAt:  time.Now(),
	}); err != nil {
		return fmt.Errorf("save session failed: %w", err)
	}
	a.cart.SetAuthenticated(true)
	logger.Infow("cli_login", "username", result.User.Username)
	fmt.Fprintf(a.out, "logged in as %s\n", result.User.Username)
	return nil
}

func (a *App) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	phone := fs.String("phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" || *password == "" {
		return errors.New("register requires -username, -email and -password")
	}

	result, err := a.client.Register(ctx, api.RegisterInput{
		Username:        *username,
		Email:           *email,
		Password:        *password,
		PasswordConfirm: *password,
		FirstName:       *firstName,
		LastName:        *lastName,
		PhoneNumber:     *phone,
	})
	if err != nil {
		return err
	}

	if err := a.session.Save(session.Session{
		Token:    result.Token,
		Username: result.User.Username,
		UserID:   result.User.ID,
		SavedAt:  time.Now(),
	}); err != nil {
		return fmt.Errorf("save session failed: %w", err)
	}
	a.cart.SetAuthenticated(true)
	fmt.Fprintf(a.out, "registered and logged in as %s\n", result.User.Username)
	return nil
}

func (a *App) cmdLogout(ctx context.Context, args []string) error {
	if !a.session.LoggedIn() {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}

	// 先通知服务端，失败也要丢弃本地会话
	if err := a.client.Logout(ctx); err != nil {
		logger.Warnw("cli_logout_remote_failed", "error", err)
	}
	if err := a.session.Clear(); err != nil {
		return fmt.Errorf("clear session failed: %w", err)
	}
	a.cart.SetAuthenticated(false)
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *App) cmdWhoami(ctx context.Context, args []string) error {
	if !a.session.LoggedIn() {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}

	user, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\n", user.Username, user.Email)
	if user.FirstName != "" || user.LastName != "" {
		fmt.Fprintf(a.out, "name: %s %s\n", user.FirstName, user.LastName)
	}
	if user.PhoneNumber != "" {
		fmt.Fprintf(a.out, "phone: %s\n", user.PhoneNumber)
	}
	return nil
}

func (a *App) cmdAddress(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("address requires a subcommand: list, add")
	}
	switch args[0] {
	case "list":
		return a.cmdAddressList(ctx)
	case "add":
		return a.cmdAddressAdd(ctx, args[1:])
	default:
		return fmt.Errorf("unknown address subcommand %q", args[0])
	}
}

func (a *App) cmdAddressList(ctx context.Context) error {
	addresses, err := a.client.Addresses(ctx)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		fmt.Fprintln(a.out, "no addresses")
		return nil
	}
	tw := a.newTable()
	tw.row("ID", "STREET", "CITY", "COUNTRY", "DEFAULT")
	for _, addr := range addresses {
		def := ""
		if addr.IsDefault {
			def = "*"
		}
		tw.row(addr.ID, addr.StreetAddress, addr.City, addr.Country, def)
	}
	tw.flush()
	return nil
}

func (a *App) cmdAddressAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("address add", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	street := fs.String("street", "", "street address")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state or province")
	postal := fs.String("postal", "", "postal code")
	country := fs.String("country", "", "country")
	isDefault := fs.Bool("default", false, "mark as default address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *street == "" || *city == "" || *country == "" {
		return errors.New("address add requires -street, -city and -country")
	}

	address, err := a.client.CreateAddress(ctx, api.AddressInput{
		StreetAddress: *street,
		City:          *city,
		State:         *state,
		PostalCode:    *postal,
		Country:       *country,
		IsDefault:     *isDefault,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "address %d saved\n", address.ID)
	return nil
}
