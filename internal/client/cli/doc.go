// Package cli is the terminal front end of the portal client.
//
// Command returns the urfave/cli root command. Without a subcommand it opens
// the REPL (App.Run), which plays the part of the web pages: searching with
// type and filters, suggestions, the news feed, favorites, history and
// activity stats, the contact form, and the admin inbox. One-shot
// subcommands (search, news, history, stats, favorites, whoami, login,
// logout) reuse the session persisted in the local store.
//
// All output goes through the lipgloss styles in render.go.
package cli
