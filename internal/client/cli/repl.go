package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vitortiger/utm-tracker-saas/internal/client/api"
	"github.com/vitortiger/utm-tracker-saas/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	takeExpired() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Campaigns(ctx context.Context, args []string) error
	Leads(ctx context.Context, args []string) error
	Bots(ctx context.Context) error
	Overview(ctx context.Context) error
	Analytics(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Webhook(ctx context.Context, args []string) error
}

// protected commands need a signed-in user.
var protected = map[string]bool{
	"profile": true, "campaigns": true, "leads": true, "bots": true,
	"overview": true, "analytics": true, "export": true, "webhook": true,
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
//	Signed out:  help, register, login, exit
//	Signed in:   help, whoami, profile, campaigns [page], leads <id>, bots,
//	             overview, analytics [period], export [leads|campaigns] [campaign_id],
//	             webhook <setup|remove> <campaign_id>, logout, exit
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if a.takeExpired() {
			printlnFn("Your session has expired. Please log in again.")
		}

		printlnFn(fmt.Sprintf("utm %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if protected[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		var cerr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile, campaigns, leads, bots, overview, analytics, export, webhook, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}
		case "register":
			cerr = a.Register(ctx)
		case "login":
			cerr = a.Login(ctx)
		case "logout":
			cerr = a.Logout(ctx)
		case "whoami":
			cerr = a.WhoAmI(ctx)
		case "profile":
			cerr = a.Profile(ctx)
		case "campaigns":
			cerr = a.Campaigns(ctx, args)
		case "leads":
			cerr = a.Leads(ctx, args)
		case "bots":
			cerr = a.Bots(ctx)
		case "overview":
			cerr = a.Overview(ctx)
		case "analytics":
			cerr = a.Analytics(ctx, args)
		case "export":
			cerr = a.Export(ctx, args)
		case "webhook":
			cerr = a.Webhook(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if msg := describe(cerr); msg != "" {
			printlnFn("Error:", msg)
		}
	}
}

// describe turns a command error into the line shown to the user. A forced
// logout is reported by the REPL itself, so it yields "".
func describe(err error) string {
	if err == nil {
		return ""
	}

	var f *session.Failure
	isFailure := errors.As(err, &f)
	switch {
	case isFailure && f.Op != session.OpUpdateProfile:
		return f.Message
	case errors.Is(err, api.ErrUnauthorized):
		return ""
	case isFailure:
		return f.Message
	case errors.Is(err, session.ErrNotAuthenticated):
		return "Please log in first."
	case errors.Is(err, api.ErrUnavailable):
		return "Server unavailable, try again later."
	}
	if msg := api.MessageOf(err); msg != "" {
		return msg
	}
	return err.Error()
}
