package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/moldandyeast/tinyfeed/internal/config"
	"github.com/moldandyeast/tinyfeed/internal/db"
	"github.com/moldandyeast/tinyfeed/internal/model"
	"github.com/moldandyeast/tinyfeed/internal/opml"
	"github.com/moldandyeast/tinyfeed/internal/repository"
	"github.com/moldandyeast/tinyfeed/internal/service"
	"github.com/moldandyeast/tinyfeed/internal/urlutil"
	"github.com/moldandyeast/tinyfeed/pkg/logger"
	"github.com/moldandyeast/tinyfeed/pkg/snowflake"
)

const previewLength = 60

func rootApp(out io.Writer) *cli.App {
	cfg := config.Load()
	return &cli.App{
		Name:      "tinyfeedctl",
		Usage:     "Administer a tinyfeed database",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   cfg.DBPath,
				Usage:   "SQLite database file location",
				EnvVars: []string{"TINYFEED_DB_PATH"},
			},
			&cli.StringFlag{
				Name:    "base-url",
				Value:   "http://localhost" + cfg.Addr,
				Usage:   "Public base URL used when printing links",
				EnvVars: []string{"TINYFEED_BASE_URL"},
			},
			&cli.IntFlag{
				Name:  "key-cost",
				Value: cfg.KeyCost,
				Usage: "bcrypt cost for new write keys",
			},
		},
		Before: func(ctx *cli.Context) error {
			logger.Init(logger.ParseLevel(cfg.LogLevel))
			return snowflake.Init(cfg.SnowflakeNode)
		},
		Commands: []*cli.Command{
			createCmd(),
			showCmd(),
			exportCmd(),
			listCmd(),
			opmlCmd(),
		},
	}
}

func openService(ctx *cli.Context) (service.FeedService, *sql.DB, error) {
	database, err := db.Open(ctx.String("database"))
	if err != nil {
		return nil, nil, err
	}
	return service.NewFeedService(repository.NewFeedRepository(database), ctx.Int("key-cost"), nil), database, nil
}

func withService(fn func(ctx *cli.Context, feeds service.FeedService) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		feeds, database, err := openService(ctx)
		if err != nil {
			return err
		}
		defer database.Close()
		return fn(ctx, feeds)
	}
}

func createCmd() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a feed and print its write key",
		Action: withService(func(ctx *cli.Context, feeds service.FeedService) error {
			creds, err := feeds.Create(ctx.Context)
			if err != nil {
				return err
			}
			printCreated(ctx.App.Writer, ctx.String("base-url"), creds)
			return nil
		}),
	}
}

func showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a feed's profile and posts",
		ArgsUsage: "<feed-id>",
		Action: withService(func(ctx *cli.Context, feeds service.FeedService) error {
			id := ctx.Args().First()
			if id == "" {
				return cli.Exit("feed id required", 2)
			}
			feed, err := feeds.ReadPublic(ctx.Context, id)
			if err != nil {
				return err
			}
			printFeed(ctx.App.Writer, feed)
			return nil
		}),
	}
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a feed as JSON or Markdown",
		ArgsUsage: "<feed-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "Write key", Required: true},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: model.ExportFormatJSON, Usage: "json or md"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write to this file instead of stdout"},
		},
		Action: withService(func(ctx *cli.Context, feeds service.FeedService) error {
			id := ctx.Args().First()
			if id == "" {
				return cli.Exit("feed id required", 2)
			}
			doc, err := feeds.Export(ctx.Context, id, ctx.String("key"), ctx.String("format"))
			if err != nil {
				return err
			}
			if path := ctx.String("out"); path != "" {
				if err := os.WriteFile(path, doc.Body, 0o600); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				color.New(color.FgGreen).Fprintf(ctx.App.Writer, "✓ wrote %s (%d bytes)\n", path, len(doc.Body))
				return nil
			}
			_, err = ctx.App.Writer.Write(doc.Body)
			return err
		}),
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List feeds, most recently updated first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 50, Usage: "Maximum rows"},
		},
		Action: withService(func(ctx *cli.Context, feeds service.FeedService) error {
			summaries, err := feeds.List(ctx.Context, ctx.Int("limit"))
			if err != nil {
				return err
			}
			printSummaries(ctx.App.Writer, summaries)
			return nil
		}),
	}
}

func opmlCmd() *cli.Command {
	return &cli.Command{
		Name:  "opml",
		Usage: "Write an OPML subscription list of every feed",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 1000, Usage: "Maximum feeds"},
		},
		Action: withService(func(ctx *cli.Context, feeds service.FeedService) error {
			summaries, err := feeds.List(ctx.Context, ctx.Int("limit"))
			if err != nil {
				return err
			}
			body, err := opml.Subscriptions("tinyfeed", time.Now(), subscriptions(ctx.String("base-url"), summaries))
			if err != nil {
				return err
			}
			_, err = ctx.App.Writer.Write(body)
			return err
		}),
	}
}

func subscriptions(baseURL string, summaries []model.FeedSummary) []opml.Subscription {
	subs := make([]opml.Subscription, 0, len(summaries))
	for _, s := range summaries {
		title := s.Name
		if title == "" {
			title = s.ID
		}
		pageURL := urlutil.FeedURL(baseURL, s.ID)
		subs = append(subs, opml.Subscription{Title: title, PageURL: pageURL, RSSURL: pageURL + ".rss"})
	}
	return subs
}

func printCreated(w io.Writer, baseURL string, creds service.FeedCredentials) {
	feedURL := urlutil.FeedURL(baseURL, creds.ID)
	color.New(color.FgGreen).Fprintf(w, "✓ created feed %s\n", creds.ID)
	fmt.Fprintf(w, "  write key: %s\n", creds.WriteKey)
	fmt.Fprintf(w, "  public:    %s\n", feedURL)
	fmt.Fprintf(w, "  private:   %s#s=%s\n", feedURL, creds.WriteKey)
	color.New(color.FgYellow).Fprintln(w, "  the write key is not stored and cannot be recovered")
}

func printFeed(w io.Writer, feed model.PublicFeed) {
	color.New(color.FgWhite, color.Bold).Fprintf(w, "%s\n", feed.DisplayName())
	if feed.About != "" {
		color.New(color.Faint).Fprintf(w, "%s\n", feed.About)
	}
	fmt.Fprintf(w, "created %s, %d posts\n\n", feed.CreatedAt.UTC().Format(time.DateTime), len(feed.Posts))

	table := tablewriter.NewTable(w)
	table.Header([]string{"ID", "Posted", "Content", "Link"})
	rows := make([][]string, 0, len(feed.Posts))
	for _, post := range feed.Posts {
		preview, cut := model.TruncateRunes(post.Content, previewLength)
		if cut {
			preview += "..."
		}
		link := ""
		if post.URL != nil {
			link = urlutil.DisplayHost(*post.URL)
		}
		rows = append(rows, []string{post.ID, post.Timestamp.UTC().Format(time.DateTime), preview, link})
	}
	_ = table.Bulk(rows)
	_ = table.Render()
}

func printSummaries(w io.Writer, summaries []model.FeedSummary) {
	table := tablewriter.NewTable(w)
	table.Header([]string{"ID", "Name", "Posts", "Created", "Updated"})
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ID,
			s.Name,
			strconv.Itoa(s.PostCount),
			s.CreatedAt.UTC().Format(time.DateOnly),
			s.UpdatedAt.UTC().Format(time.DateTime),
		})
	}
	_ = table.Bulk(rows)
	_ = table.Render()
}
