package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/cinewatch/cinewatch/embed"
	"github.com/cinewatch/cinewatch/eventloop"
	"github.com/cinewatch/cinewatch/key"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/open"
	"github.com/cinewatch/cinewatch/server"
	"github.com/cinewatch/cinewatch/source"
	"github.com/cinewatch/cinewatch/title"
	"github.com/cinewatch/cinewatch/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

func init() {
	rootCmd.AddCommand(watchCmd)
	addSourceFlags(watchCmd)
	watchCmd.Flags().Bool("no-metadata", false, "Skip TMDB and resolve from configuration only")
	watchCmd.Flags().Bool("no-browser", false, "Print the watch page address instead of opening it")
}

// addSourceFlags registers the flags that override resolver settings.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("embed", false, "Play through embed mirrors")
	cmd.Flags().Bool("no-embed", false, "Never use embed mirrors")
	cmd.Flags().Bool("strict", false, "Report the title as unavailable instead of playing the sample stream")
	cmd.MarkFlagsMutuallyExclusive("embed", "no-embed")
}

func applySourceFlags(cmd *cobra.Command) {
	if lo.Must(cmd.Flags().GetBool("embed")) {
		viper.Set(key.EmbedEnabled, true)
	}
	if lo.Must(cmd.Flags().GetBool("no-embed")) {
		viper.Set(key.EmbedEnabled, false)
	}
	if lo.Must(cmd.Flags().GetBool("strict")) {
		viper.Set(key.SourcesMissingPolicy, source.MissingUnavailable.String())
	}
}

// parseRoute parses the route argument, adding a usage hint on failure.
func parseRoute(cmd *cobra.Command, arg string) title.Ref {
	ref, err := title.Parse(arg)
	if err != nil {
		handleErr(fmt.Errorf("%w\nusage: %s", err, cmd.UseLine()))
	}
	return ref
}

var watchCmd = &cobra.Command{
	Use:     "watch <movie|tv>/<id>[/<season>/<episode>]",
	Short:   "Watch a movie or an episode",
	Example: "  cinewatch watch movie/550\n  cinewatch watch tv/1399/1/1 --no-embed",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ref := parseRoute(cmd, args[0])
		applySourceFlags(cmd)

		if !viper.GetBool(key.EmbedEnabled) && !checkPlayer(viper.GetString(key.Player)) {
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		handleErr(runWatch(ctx, ref, watchOptions{
			metadata: !lo.Must(cmd.Flags().GetBool("no-metadata")),
			browser:  !lo.Must(cmd.Flags().GetBool("no-browser")),
		}))
	},
}

type watchOptions struct {
	metadata bool
	browser  bool
}

func runWatch(ctx context.Context, ref title.Ref, opts watchOptions) error {
	loopCtx, cancelLoop := context.WithCancel(context.Background())
	defer cancelLoop()

	loop := eventloop.New()
	go func() {
		_ = loop.Run(loopCtx)
	}()

	notices := make(chan string, 16)
	service := newService(loop, opts.metadata, noticeHooks(notices))

	var (
		mu  sync.Mutex
		srv *server.Server
	)
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		if srv == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("shutdown server: %s", err)
		}
	}()

	start := func(ctx context.Context, back func()) (tui.Player, error) {
		src, detail, err := service.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}

		name := ref.String()
		if detail != nil && detail.Title != "" {
			name = detail.Title
		}

		if _, ok := src.(source.EmbedProvider); !ok {
			p, err := service.Start(ctx, src, nil, back)
			if p == nil {
				return nil, err
			}
			return p, err
		}

		mu.Lock()
		if srv == nil {
			srv = newServer(service)
			if _, err := srv.Listen(); err != nil {
				srv = nil
				mu.Unlock()
				return nil, err
			}
			go func(s *server.Server) {
				if err := s.Serve(); err != nil {
					log.Errorf("serve: %s", err)
				}
			}(srv)
		}
		m := srv.Register(name)
		mu.Unlock()

		p, err := service.Start(ctx, src, m.Frame(), back)
		if p == nil {
			return nil, err
		}
		m.Bind(p)

		page := srv.URL(server.MountPath(m))
		if !opts.browser {
			notify(notices, "Open %s", page)
		} else if openErr := open.URL(page, viper.GetString(key.ServerBrowser)); openErr != nil {
			log.Warnf("open %s: %s", page, openErr)
			notify(notices, "Open %s", page)
		}

		return p, err
	}

	err := tui.Run(ctx, &tui.Options{
		Title:    ref.String(),
		Subtitle: "TMDB " + ref.Kind.String(),
		Start:    start,
		Notices:  notices,
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// notify sends a notice unless the overlay fell behind.
func notify(notices chan<- string, format string, args ...any) {
	select {
	case notices <- fmt.Sprintf(format, args...):
	default:
	}
}

// noticeHooks forwards mirror progress to the overlay.
func noticeHooks(notices chan<- string) embed.Hooks {
	send := func(format string, args ...any) {
		notify(notices, format, args...)
	}

	return embed.Hooks{
		OnAttempt: func(index int, domain, _ string) {
			send("Mirror %d: %s", index+1, domain)
		},
		OnAdvance: func(from int, reason string) {
			send("Mirror %d failed: %s", from+1, reason)
		},
		OnLoaded: func(domain string) {
			send("Loaded from %s", domain)
		},
		OnFailed: func(err error) {
			send("%s", err)
		},
	}
}
