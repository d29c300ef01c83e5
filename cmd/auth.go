package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/cinewatch/cinewatch/auth"
	"github.com/cinewatch/cinewatch/color"
	"github.com/cinewatch/cinewatch/icon"
	"github.com/cinewatch/cinewatch/key"
	"github.com/cinewatch/cinewatch/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the TMDB access token",
	Long: `Store the TMDB read access token in the system keyring.
A token set in the configuration or through the environment takes precedence.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save a TMDB read access token to the keyring",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		prompt := survey.Password{
			Message: "TMDB read access token:",
			Help:    "Create one at https://www.themoviedb.org/settings/api",
		}

		var token string
		handleErr(survey.AskOne(&prompt, &token, survey.WithValidator(survey.Required)))

		token = strings.TrimSpace(token)
		if token == "" {
			handleErr(errors.New("empty token"))
		}

		handleErr(auth.SetToken(token))
		fmt.Printf("%s Token saved\n", icon.Get(icon.Success))
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the TMDB token from the keyring",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		fmt.Printf("%s Token removed\n", icon.Get(icon.Success))
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the TMDB token comes from",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		origin := "unset"
		switch {
		case viper.GetString(key.MetadataTMDBToken) != "":
			origin = "configuration"
		default:
			if token, err := auth.GetToken(); err == nil && token != "" {
				origin = "keyring"
			}
		}

		render := style.Fg(color.Green)
		if origin == "unset" {
			render = style.Fg(color.Red)
		}
		fmt.Printf("%s %s\n", style.Bold("TMDB token:"), render(origin))
	},
}
