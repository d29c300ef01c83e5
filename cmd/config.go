package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cinewatch/cinewatch/color"
	"github.com/cinewatch/cinewatch/config"
	"github.com/cinewatch/cinewatch/constant"
	"github.com/cinewatch/cinewatch/filesystem"
	"github.com/cinewatch/cinewatch/icon"
	"github.com/cinewatch/cinewatch/style"
	"github.com/cinewatch/cinewatch/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	msg := fmt.Sprintf(
		"%s is not a cinewatch setting, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)

	return errors.New(msg)
}

// parsePairs parses key=value arguments, as in `sources.direct movie/550=https://...`.
func parsePairs(values []string) (map[string]string, error) {
	m := make(map[string]string, len(values))
	for _, pair := range values {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid pair %q, expected key=value", pair)
		}
		m[k] = v
	}
	return m, nil
}

// formatValue renders a setting the way `config set` accepts it back:
// lists space separated, maps as sorted key=value pairs.
func formatValue(v any) string {
	switch v := v.(type) {
	case []string:
		return strings.Join(v, " ")
	case []any:
		return strings.Join(lo.Map(v, func(e any, _ int) string { return fmt.Sprint(e) }), " ")
	case map[string]string:
		return formatPairs(lo.MapValues(v, func(e string, _ string) any { return e }))
	case map[string]any:
		return formatPairs(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatPairs(m map[string]any) string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return strings.Join(lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s=%v", k, m[k])
	}), " ")
}

func configFilePath() string {
	return filepath.Join(where.Config(), constant.Cinewatch+".toml")
}

// persist writes viper's state, creating the config file on first use.
func persist() {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		handleErr(viper.SafeWriteConfig())
	default:
		handleErr(err)
	}
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change cinewatch settings",
	Long: `Settings live in cinewatch.toml under the config directory (see "cinewatch where --config").
Every key can also be overridden with a CINEWATCH_ environment variable, e.g. CINEWATCH_PLAYER_VOLUME.`,
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only describe these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print the descriptions as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their defaults and environment variables",
	Example: `  cinewatch config info
  cinewatch config info -k embed.domains -k player.volume`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys   = lo.Must(cmd.Flags().GetStringSlice("key"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			fields = lo.Values(config.Default)
		)

		if len(keys) > 0 {
			fields = make([]config.Field, 0, len(keys))

			for _, key := range keys {
				if _, ok := config.Default[key]; !ok {
					handleErr(errUnknownKey(key))
				}

				fields = append(fields, config.Default[key])
			}
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			lo.Must0(encoder.Encode(fields))
			return
		}

		for i, field := range fields {
			fmt.Print(field.Pretty())
			if current := formatValue(viper.Get(field.Key)); current != formatValue(field.Value) {
				fmt.Printf("\nCurrent: %s", style.Fg(color.Yellow)(current))
			}

			if i < len(fields)-1 {
				fmt.Println()
				fmt.Println()
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Key to change")
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "New value; lists take several, maps take key=value pairs")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configSetCmd replaces a setting. List and map settings are replaced whole.
var configSetCmd = &cobra.Command{
	Use:   "set [key] [value...]",
	Short: "Change a setting",
	Example: `  cinewatch config set player.volume 80
  cinewatch config set embed.domains vidsrc.xyz vidsrc.in vidsrc.net
  cinewatch config set sources.direct movie/550=https://cdn.example/fight-club.mp4`,
	Args:              cobra.ArbitraryArgs,
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		var key string
		var value []string

		flagKey, _ := cmd.Flags().GetString("key")
		flagValue, _ := cmd.Flags().GetStringSlice("value")

		if len(args) >= 1 {
			key = args[0]
		} else if flagKey != "" {
			key = flagKey
		} else {
			handleErr(errors.New("which key? pass it as the first argument or with --key"))
		}

		if len(args) >= 2 {
			value = args[1:]
		} else if len(flagValue) > 0 {
			value = flagValue
		} else {
			handleErr(fmt.Errorf("no value given for %s", key))
		}

		if _, ok := config.Default[key]; !ok {
			handleErr(errUnknownKey(key))
		}

		var v any
		switch config.Default[key].Value.(type) {
		case string:
			v = value[0]
		case int:
			parsedInt, err := strconv.ParseInt(value[0], 10, 64)
			if err != nil {
				handleErr(fmt.Errorf("%s expects a whole number, got %q", key, value[0]))
			}

			v = int(parsedInt)
		case bool:
			parsedBool, err := strconv.ParseBool(value[0])
			if err != nil {
				handleErr(fmt.Errorf("%s expects true or false, got %q", key, value[0]))
			}

			v = parsedBool
		case []string:
			v = value
		case map[string]string:
			m, err := parsePairs(value)
			if err != nil {
				handleErr(err)
			}
			v = m
		}

		viper.Set(key, v)
		persist()

		fmt.Printf(
			"%s %s = %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(key),
			style.Fg(color.Yellow)(formatValue(v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to print")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configGetCmd prints the effective value, environment overrides included.
var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the effective value of a setting",
	Example: `  cinewatch config get player.volume
  cinewatch config get sources.direct`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		var key string
		flagKey, _ := cmd.Flags().GetString("key")

		if len(args) >= 1 {
			key = args[0]
		} else if flagKey != "" {
			key = flagKey
		} else {
			handleErr(errors.New("which key? pass it as the first argument or with --key"))
		}

		if _, ok := config.Default[key]; !ok {
			handleErr(errUnknownKey(key))
		}

		fmt.Println(formatValue(viper.Get(key)))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing cinewatch.toml")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the effective settings to cinewatch.toml",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(filesystem.API().Remove(path))
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Printf(
			"%s settings written to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			path,
		)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete cinewatch.toml; defaults and environment variables still apply",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFilePath()))
		fmt.Printf(
			"%s removed %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			configFilePath(),
		)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "Key to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every setting")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore settings to their defaults",
	Example: `  cinewatch config reset -k sources.direct
  cinewatch config reset --all`,
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("all") {
			handleErr(errors.New("pass --key or --all"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			key = lo.Must(cmd.Flags().GetString("key"))
			all = lo.Must(cmd.Flags().GetBool("all"))
		)

		if all {
			for key, field := range config.Default {
				viper.Set(key, field.Value)
			}
		} else if _, ok := config.Default[key]; !ok {
			handleErr(errUnknownKey(key))
		} else {
			viper.Set(key, config.Default[key].Value)
		}

		persist()

		if all {
			fmt.Printf(
				"%s all %d settings restored\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				len(config.Default),
			)
		} else {
			fmt.Printf(
				"%s %s = %s (default)\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				style.Fg(color.Purple)(key),
				style.Fg(color.Yellow)(formatValue(config.Default[key].Value)),
			)
		}
	},
}
