package cli

import (
	"context"
	"fmt"

	"github.com/vitortiger/utm-tracker-saas/internal/shared"
)

// getRequiredText, getPassword and getFields are indirections used to
// facilitate testing.
var (
	getRequiredText = GetRequiredText
	getPassword     = GetPassword
	getFields       = GetFields
)

// Register prompts for name, e-mail and password and creates an account.
// On success the new account is signed in.
func (a *App) Register(ctx context.Context) error {
	name, err := getRequiredText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getRequiredText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.Wipe(password)

	u, err := a.session.Register(ctx, name, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", displayName(u.Name, u.Email))
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getRequiredText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.Wipe(password)

	u, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) WhoAmI(context.Context) error {
	snap := a.session.Snapshot()
	if snap.User == nil {
		fmt.Fprintf(a.out, "Not signed in (%s)\n", snap.State)
		return nil
	}
	u := snap.User
	fmt.Fprintf(a.out, "ID:    %s\nName:  %s\nEmail: %s\n", u.ID, u.Name, u.Email)
	if plan := u.StringField("plan"); plan != "" {
		fmt.Fprintf(a.out, "Plan:  %s\n", plan)
	}
	return nil
}

// Profile asks for the fields to change and sends them as-is.
func (a *App) Profile(ctx context.Context) error {
	fields, err := getFields(a.reader, "Profile fields to change", a.out)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		fmt.Fprintln(a.out, "Nothing to update.")
		return nil
	}

	u, err := a.session.UpdateProfile(ctx, fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile updated: %s <%s>\n", u.Name, u.Email)
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
