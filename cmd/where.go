package cmd

import (
	"os"

	"github.com/cinewatch/cinewatch/color"
	"github.com/cinewatch/cinewatch/filesystem"
	"github.com/cinewatch/cinewatch/style"
	"github.com/cinewatch/cinewatch/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// location is a path cinewatch reads or writes.
type location struct {
	name     string
	path     func() string
	argLong  string
	argShort mo.Option[string]
	hidden   bool
}

var locations = []*location{
	{"Config", where.Config, "config", mo.Some("c"), false},
	{"Logs", where.Logs, "logs", mo.Some("l"), false},
	{"Metadata cache", where.Metadata, "metadata", mo.Some("m"), false},
	{"Cache", where.Cache, "cache", mo.None[string](), true},
	{"Temp", where.Temp, "temp", mo.None[string](), true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		if short, ok := l.argShort.Get(); ok {
			whereCmd.Flags().BoolP(l.argLong, short, false, l.name+" path")
		} else {
			whereCmd.Flags().Bool(l.argLong, false, l.name+" path")
		}

		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.argLong))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l *location, _ int) string {
		return l.argLong
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where cinewatch keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		if l, ok := lo.Find(locations, func(l *location) bool {
			return lo.Must(cmd.Flags().GetBool(l.argLong))
		}); ok {
			cmd.Println(l.path())
			return
		}

		headerStyle := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(locations, func(l *location, _ int) bool { return l.hidden })

		for i, l := range visible {
			path := l.path()
			exists := lo.Must(filesystem.API().Exists(path))

			cmd.Printf("%s %s\n", headerStyle(l.name+"?"), style.Fg(color.Yellow)("--"+l.argLong))
			cmd.Print(path)
			if !exists {
				cmd.Print(style.Faint("  (not created yet)"))
			}
			cmd.Println()

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
