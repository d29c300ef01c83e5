package cmd

import (
	"os"
	"strings"

	"github.com/cinewatch/cinewatch/color"
	"github.com/cinewatch/cinewatch/config"
	"github.com/cinewatch/cinewatch/style"
	"github.com/cinewatch/cinewatch/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Show only variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Show only variables that are not set")
	envCmd.Flags().BoolP("keys", "k", false, "Show the configuration key each variable overrides")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVar is an environment variable and the key it overrides, if any.
type envVar struct {
	name string
	key  string
}

func envVars() []envVar {
	vars := []envVar{{name: where.EnvConfigPath}}
	for _, k := range config.EnvExposed {
		field := config.Default[k]
		vars = append(vars, envVar{name: field.Env(), key: k})
	}

	slices.SortFunc(vars, func(a, b envVar) int {
		return strings.Compare(a.name, b.name)
	})
	return vars
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the supported environment variables",
	Long:  "List the environment variables cinewatch reads and their current values.",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))
		showKeys := lo.Must(cmd.Flags().GetBool("keys"))

		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.name))
			cmd.Print("=")

			if present {
				cmd.Print(style.Fg(color.Green)(value))
			} else {
				cmd.Print(style.Fg(color.Red)("unset"))
			}

			if showKeys && v.key != "" {
				cmd.Print(style.Faint("  # " + v.key))
			}
			cmd.Println()
		}
	},
}
