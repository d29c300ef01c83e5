package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cinewatch/cinewatch/color"
	"github.com/cinewatch/cinewatch/config"
	"github.com/cinewatch/cinewatch/embed"
	"github.com/cinewatch/cinewatch/eventloop"
	"github.com/cinewatch/cinewatch/icon"
	"github.com/cinewatch/cinewatch/network"
	"github.com/cinewatch/cinewatch/source"
	"github.com/cinewatch/cinewatch/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mirrorsCmd)
	mirrorsCmd.AddCommand(mirrorsListCmd, mirrorsCheckCmd)
}

var mirrorsCmd = &cobra.Command{
	Use:   "mirrors",
	Short: "Inspect the embed mirrors",
}

var mirrorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the embed mirrors in the order they are tried",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		domains := config.Domains()
		if len(domains) == 0 {
			handleErr(embed.ErrNoCandidates)
		}

		for i, domain := range domains {
			fmt.Printf("%s %s\n", style.Faint(fmt.Sprintf("%d.", i+1)), style.Bold(domain))
		}
	},
}

var mirrorsCheckCmd = &cobra.Command{
	Use:   "check <movie|tv>/<id>[/<season>/<episode>]",
	Short: "Load a title through the mirrors and print every attempt",
	Long: `Walk the mirrors the way playback does, requesting each page over HTTP
instead of rendering it in a browser.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ref := parseRoute(cmd, args[0])
		src := source.EmbedProvider{TMDBID: ref.ID, Kind: ref.Kind, Episode: ref.Episode}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		handleErr(checkMirrors(ctx, src))
	},
}

// probeReporter ends a check when the adapter gives up.
type probeReporter struct {
	failed chan<- error
}

func (probeReporter) Paused(bool) {}
func (probeReporter) Position(float64) {}
func (probeReporter) Duration(float64) {}
func (probeReporter) Reloaded() {}
func (probeReporter) Fullscreen(bool) {}

func (r probeReporter) Failed(err error) {
	select {
	case r.failed <- err:
	default:
	}
}

func checkMirrors(ctx context.Context, src source.EmbedProvider) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := eventloop.New()
	go func() {
		_ = loop.Run(ctx)
	}()

	var (
		loaded = make(chan string, 1)
		failed = make(chan error, 1)
	)

	hooks := embed.Hooks{
		OnAttempt: func(index int, domain, url string) {
			fmt.Printf("%s %s %s\n", icon.Get(icon.Progress), style.Bold(domain), style.Faint(url))
		},
		OnAdvance: func(from int, reason string) {
			fmt.Printf("%s %s\n", icon.Get(icon.Cross), style.Fg(color.Red)(reason))
		},
		OnLoaded: func(domain string) {
			select {
			case loaded <- domain:
			default:
			}
		},
	}

	frame := embed.NewProbeFrame(network.Browser)
	settings := config.Embed()
	detector := embed.HeuristicDetector{Domains: settings.Domains}

	var (
		adapter  *embed.Adapter
		mountErr error
	)
	if err := loop.Call(ctx, func() {
		adapter, mountErr = embed.Mount(loop, frame, detector, probeReporter{failed: failed}, src, settings, hooks)
	}); err != nil {
		return err
	}
	if mountErr != nil {
		return mountErr
	}
	defer func() {
		_ = loop.Call(context.Background(), adapter.Dispose)
	}()

	select {
	case domain := <-loaded:
		fmt.Printf("%s %s loaded\n", icon.Get(icon.Success), style.Fg(color.Green)(domain))
		return nil
	case err := <-failed:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
