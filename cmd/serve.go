package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cinewatch/cinewatch/embed"
	"github.com/cinewatch/cinewatch/eventloop"
	"github.com/cinewatch/cinewatch/icon"
	"github.com/cinewatch/cinewatch/key"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	addSourceFlags(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on")
	lo.Must0(viper.BindPFlag(key.ServerAddr, serveCmd.Flags().Lookup("addr")))
	serveCmd.Flags().Bool("no-metadata", false, "Skip TMDB and resolve from configuration only")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve watch pages",
	Long: `Run the watch page server. Titles are opened at /watch/movie/{id} and
/watch/tv/{id}/{season}/{episode}. Metrics are exposed at /metrics.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		applySourceFlags(cmd)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		loopCtx, cancelLoop := context.WithCancel(context.Background())
		defer cancelLoop()

		loop := eventloop.New()
		go func() {
			_ = loop.Run(loopCtx)
		}()

		srv := newServer(newService(loop, !lo.Must(cmd.Flags().GetBool("no-metadata")), embed.Hooks{}))
		addr, err := srv.Listen()
		handleErr(err)

		fmt.Printf("%s Serving on %s\n", icon.Get(icon.Play), style.Bold(srv.URL("/")))
		log.Infof("serving on %s", addr)

		served := make(chan error, 1)
		go func() {
			served <- srv.Serve()
		}()

		select {
		case err = <-served:
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			err = srv.Shutdown(shutdownCtx)
		}
		handleErr(err)
	},
}
