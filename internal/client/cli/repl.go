package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	guestHelp = "Available commands: register, login, forgot, reset, search, type, filter, suggest, news, contact, " +
		"local, forget, help, exit"
	userHelp  = "Available commands: search, type, filter, suggest, news, fav, unfav, favs, tags, " +
		"history, next, prev, clearhistory, stats, analytics, whoami, profile, apikey, contact, local, forget, logout, help, exit"
	adminHelp = "Admin commands: messages [page], read <id>, unread <id>, analytics system"
)

// execIface is the command surface the REPL needs; App satisfies it and
// tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	exec(ctx context.Context, cmd string, args []string) error
	output() io.Writer
}

func (a *App) isAdmin() bool      { return a.sess.IsAdmin() }
func (a *App) output() io.Writer { return a.out }

// runREPL reads one command per line from reader and dispatches it until
// EOF, ctx cancellation, or exit/quit. Command errors are printed and the
// loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	w := a.output()
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "portal %s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			switch {
			case !a.isLoggedIn():
				fmt.Fprintln(w, guestHelp)
			case a.isAdmin():
				fmt.Fprintln(w, userHelp)
				fmt.Fprintln(w, adminHelp)
			default:
				fmt.Fprintln(w, userHelp)
			}

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			err := a.exec(ctx, cmd, args)
			if errors.Is(err, errUnknownCommand) {
				fmt.Fprintln(w, "Unknown command:", cmd)
				continue
			}
			renderError(w, err)
		}
	}
}

var errUnknownCommand = errors.New("unknown command")

// exec runs one REPL command.
func (a *App) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "profile":
		return a.Profile(ctx)
	case "apikey":
		return a.APIKey(ctx)
	case "forgot":
		return a.ForgotPassword(ctx)
	case "reset":
		return a.ResetPassword(ctx, args)
	case "local":
		return a.LocalData(ctx)
	case "forget":
		return a.Forget(ctx)

	case "search", "s":
		return a.Search(ctx, args)
	case "type":
		return a.SetType(ctx, args)
	case "filter":
		return a.SetFilters(ctx, args)
	case "suggest":
		return a.Suggest(ctx, args)
	case "news":
		return a.News(ctx, args)

	case "fav":
		return a.Favorite(ctx, args)
	case "unfav":
		return a.Unfavorite(ctx, args)
	case "favs":
		return a.Favorites(ctx, args)
	case "tags":
		return a.Tags(ctx)

	case "history":
		return a.History(ctx, args)
	case "next":
		return a.Page(ctx, 1)
	case "prev":
		return a.Page(ctx, -1)
	case "clearhistory":
		return a.ClearHistory(ctx)
	case "stats":
		return a.Stats(ctx, args)
	case "analytics":
		return a.Analytics(ctx, args)

	case "contact":
		return a.Contact(ctx)
	case "messages":
		return a.Messages(ctx, args)
	case "read":
		return a.ReadMessage(ctx, args, false)
	case "unread":
		return a.ReadMessage(ctx, args, true)
	}
	return errUnknownCommand
}

// Run greets the user, checks the persisted session and runs the REPL.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, titleStyle.Render("Smart Search portal (type 'help' for commands)"))
	if a.sess.HasToken() {
		if u := a.auth.CurrentUser(ctx); u != nil {
			renderOK(a.out, "Welcome back, "+u.Username)
		}
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}
