package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const usage = `usage: cli [flags] <command> [url]

commands:
  check <url>     probe a site now and record the outcome (admin key)
  history <url>   print the last 90 buckets for a site
  sites           list configured sites

With no command, cli prompts for a URL and checks it.

flags:
`

func main() {
	fs := pflag.NewFlagSet("cli", pflag.ExitOnError)
	api := fs.String("api", envOr("API_BASE", "http://localhost:8080"), "API base URL")
	key := fs.String("key", os.Getenv("API_KEY"), "API key sent as X-API-Key")
	mode := fs.StringP("mode", "m", "hour", "history granularity: hour or day")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	c := newClient(*api, *key, *timeout)
	ctx := context.Background()
	args := fs.Args()

	var err error
	switch {
	case len(args) == 0:
		err = interactive(ctx, c)
	case args[0] == "check" && len(args) == 2:
		err = runCheck(ctx, c, args[1])
	case args[0] == "history" && len(args) == 2:
		err = runHistory(ctx, c, args[1], *mode)
	case args[0] == "sites" && len(args) == 1:
		err = runSites(ctx, c)
	default:
		fs.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func interactive(ctx context.Context, c *client) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Enter a site URL to check (e.g., https://example.com): ")
	raw, _ := reader.ReadString('\n')
	return runCheck(ctx, c, raw)
}

// withScheme lets users type bare host names.
func withScheme(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return raw
}

func runCheck(ctx context.Context, c *client, raw string) error {
	up, err := c.check(ctx, withScheme(raw))
	if err != nil {
		return err
	}
	if up {
		fmt.Println("available")
	} else {
		fmt.Println("unavailable")
	}
	return nil
}

func runHistory(ctx context.Context, c *client, raw, mode string) error {
	h, err := c.history(ctx, withScheme(raw), mode)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s, oldest → newest)\n%s\n", withScheme(raw), h.Mode, render(h.Data))
	fmt.Println(legend)
	return nil
}

func runSites(ctx context.Context, c *client) error {
	list, err := c.sites(ctx)
	if err != nil {
		return err
	}
	for _, s := range list {
		fmt.Printf("%-12s %s\n", s.Name, s.URL)
	}
	return nil
}

const legend = "█ available  ▒ partial  ░ unavailable  · no data"

// render draws one glyph per bucket.
func render(data []*string) string {
	var b strings.Builder
	for _, v := range data {
		switch {
		case v == nil:
			b.WriteString("·")
		case *v == "available":
			b.WriteString("█")
		case *v == "partial":
			b.WriteString("▒")
		default:
			b.WriteString("░")
		}
	}
	return b.String()
}
