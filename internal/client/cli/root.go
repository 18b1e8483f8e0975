package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/FRANCK359/smart-search-ai/internal/buildinfo"
	"github.com/FRANCK359/smart-search-ai/internal/client/config"
	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

// newAppFn is a test seam; subcommands build their App through it.
var newAppFn = NewApp

// Command returns the root command. Without a subcommand it starts the REPL.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "portal",
		Usage: "Terminal client for the Smart Search portal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file (JSON, or TOML with a .toml extension)",
			},
			&cli.StringFlag{
				Name:  "api",
				Usage: "Portal API base URL",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory for the local session store",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "console, text or json",
			},
		},
		Action: replAction,
		Commands: []*cli.Command{
			ReplCommand(),
			LoginCommand(),
			SearchCommand(),
			NewsCommand(),
			HistoryCommand(),
			StatsCommand(),
			AnalyticsCommand(),
			FavoritesCommand(),
			WhoAmICommand(),
			LogoutCommand(),
			ForgetCommand(),
			VersionCommand(),
		},
	}
}

func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(config.Overrides{
		ConfigFile: c.String("config"),
		APIBaseURL: c.String("api"),
		DataDir:    c.String("data-dir"),
		LogLevel:   c.String("log-level"),
		LogFormat:  c.String("log-format"),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// withApp builds an App from the command's flags, runs fn and closes it.
func withApp(ctx context.Context, c *cli.Command, fn func(context.Context, *App) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logging.New(logging.Options{Format: cfg.LogFormat, Level: cfg.LogLevel, Output: os.Stderr})

	app, err := newAppFn(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn(ctx, "close app", "error", err)
		}
	}()
	return fn(ctx, app)
}

// oneShot runs fn and turns a rendered failure into a non-zero exit.
func oneShot(fn func(context.Context, *App) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		return withApp(ctx, c, func(ctx context.Context, a *App) error {
			if err := fn(ctx, a); err != nil {
				if _, ok := err.(cli.ExitCoder); ok {
					return err
				}
				renderError(a.out, err)
				return cli.Exit("", 1)
			}
			return nil
		})
	}
}

func replAction(ctx context.Context, c *cli.Command) error {
	return withApp(ctx, c, func(ctx context.Context, a *App) error {
		a.Run(ctx)
		return nil
	})
}

func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Start the interactive shell (default)",
		Action: replAction,
	}
}

func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and keep the session for later commands",
		Action: oneShot(func(ctx context.Context, a *App) error {
			if err := a.Login(ctx); err != nil {
				return err
			}
			if !a.isLoggedIn() {
				return cli.Exit("", 1)
			}
			return nil
		}),
	}
}

func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run one search",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Usage: "text, image or news", Value: string(models.SearchText)},
			&cli.StringFlag{Name: "date", Usage: "any, day, week, month or year"},
			&cli.StringFlag{Name: "content", Usage: "all, article, video, image or document"},
			&cli.StringFlag{Name: "lang", Usage: "fr, en, es, de or it"},
			&cli.StringFlag{Name: "domain", Usage: "Restrict to a domain"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var filters []string
			for _, k := range []struct{ flag, key string }{
				{"date", "date"}, {"content", "type"}, {"lang", "lang"}, {"domain", "domain"},
			} {
				if v := c.String(k.flag); v != "" {
					filters = append(filters, k.key+"="+v)
				}
			}
			query := c.Args().Slice()
			return oneShot(func(ctx context.Context, a *App) error {
				if len(filters) > 0 {
					f, err := parseFilters(a.search.Filters(), filters)
					if err != nil {
						return err
					}
					if _, _, err := a.search.SetFilters(ctx, f); err != nil {
						return err
					}
				}
				if _, _, err := a.search.SetType(ctx, models.SearchType(strings.ToLower(c.String("type")))); err != nil {
					return err
				}
				return a.Search(ctx, query)
			})(ctx, c)
		},
	}
}

func NewsCommand() *cli.Command {
	return &cli.Command{
		Name:      "news",
		Usage:     "Show the news feed",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Usage: "News category", Value: "all"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			args := append([]string{"category=" + c.String("category")}, c.Args().Slice()...)
			return oneShot(func(ctx context.Context, a *App) error {
				return a.News(ctx, args)
			})(ctx, c)
		},
	}
}

func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List your past searches",
		ArgsUsage: "[term]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Usage: "Page to show", Value: 1},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			page := int(c.Int("page"))
			term := c.Args().Slice()
			return oneShot(func(ctx context.Context, a *App) error {
				if err := a.History(ctx, term); err != nil {
					return err
				}
				for a.history.Page() < page {
					moved, err := a.history.Next(ctx)
					if err != nil {
						return err
					}
					if !moved {
						break
					}
				}
				if page > 1 {
					a.renderHistory()
				}
				return nil
			})(ctx, c)
		},
	}
}

func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show your search activity",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "range", Usage: "week, month or year", Value: "week"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			rng := c.String("range")
			return oneShot(func(ctx context.Context, a *App) error {
				return a.Stats(ctx, []string{rng})
			})(ctx, c)
		},
	}
}

func AnalyticsCommand() *cli.Command {
	return &cli.Command{
		Name:      "analytics",
		Usage:     "Break down your searches or favorites, or show system totals (admins)",
		ArgsUsage: "[searches|favorites|system]",
		Action: func(ctx context.Context, c *cli.Command) error {
			args := c.Args().Slice()
			return oneShot(func(ctx context.Context, a *App) error {
				return a.Analytics(ctx, args)
			})(ctx, c)
		},
	}
}

func FavoritesCommand() *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "List your favorites",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tag", Usage: "Only favorites with this tag", Value: "all"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			tag := c.String("tag")
			return oneShot(func(ctx context.Context, a *App) error {
				return a.Favorites(ctx, []string{tag})
			})(ctx, c)
		},
	}
}

func WhoAmICommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the logged-in user",
		Action: oneShot(func(ctx context.Context, a *App) error {
			return a.WhoAmI(ctx)
		}),
	}
}

func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "End the stored session",
		Action: oneShot(func(ctx context.Context, a *App) error {
			return a.Logout(ctx)
		}),
	}
}

func ForgetCommand() *cli.Command {
	return &cli.Command{
		Name:  "forget",
		Usage: "Log out and remove all locally stored data",
		Action: oneShot(func(ctx context.Context, a *App) error {
			return a.Forget(ctx)
		}),
	}
}

func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(ctx context.Context, c *cli.Command) error {
			buildinfo.PrintBuildData(c.Root().Writer)
			return nil
		},
	}
}
