// Package cmd implements the command-line interface for cinewatch.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cinewatch/cinewatch/color"
	"github.com/cinewatch/cinewatch/constant"
	"github.com/cinewatch/cinewatch/icon"
	"github.com/cinewatch/cinewatch/key"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/style"
	"github.com/cinewatch/cinewatch/util"
	"github.com/cinewatch/cinewatch/version"
	"github.com/cinewatch/cinewatch/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("player", "P", "", "Media player for direct files and trailers")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("player", completionPlayers))
	lo.Must0(viper.BindPFlag(key.Player, rootCmd.PersistentFlags().Lookup("player")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// sockets and pages of previous sessions
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.Cinewatch,
	Short: "Watch movies and series from the terminal",
	Long: style.New().Bold(true).Foreground(color.HiPurple).Render(constant.Cinewatch) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Watch movies and series from the terminal"),
	Example: fmt.Sprintf("  %[1]s watch movie/550\n  %[1]s watch tv/1399/1/1\n  %[1]s resolve --json movie/550", constant.Cinewatch),
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
