package cmd

import (
	"context"
	"encoding/json"
	"os"
	"reflect"
	"text/template"

	"github.com/cinewatch/cinewatch/color"
	"github.com/cinewatch/cinewatch/config"
	"github.com/cinewatch/cinewatch/embed"
	"github.com/cinewatch/cinewatch/source"
	"github.com/cinewatch/cinewatch/style"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	addSourceFlags(resolveCmd)
	resolveCmd.Flags().BoolP("json", "j", false, "Print the source as JSON")
	resolveCmd.Flags().Bool("no-metadata", false, "Skip TMDB and resolve from configuration only")

	resolveCmd.AddCommand(resolveSchemaCmd)
}

var resolveTemplate = template.Must(template.New("resolve").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
}).Parse(`{{ magenta "▇▇▇" }} {{ bold .Summary }}

  {{ faint "Variant" }}     {{ bold .Tag }}
{{- with .URL }}
  {{ faint "URL" }}         {{ . }}
{{- end }}
{{- with .Container }}
  {{ faint "Container" }}   {{ . }}
{{- end }}
{{- if .Sample }}
  {{ faint "Sample" }}      {{ bold "yes" }}
{{- end }}
{{- with .Reason }}
  {{ faint "Reason" }}      {{ . }}
{{- end }}
`))

var resolveCmd = &cobra.Command{
	Use:   "resolve <movie|tv>/<id>[/<season>/<episode>]",
	Short: "Print the source a title would play",
	Long:  "Resolve a title with the current configuration and print the source without playing it.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ref := parseRoute(cmd, args[0])
		applySourceFlags(cmd)

		service := newService(nil, !lo.Must(cmd.Flags().GetBool("no-metadata")), embed.Hooks{})
		src, _, err := service.Resolve(context.Background(), ref)
		handleErr(err)

		description := source.Describe(src, lo.FirstOrEmpty(config.Domains()))

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(description))
			return
		}

		handleErr(resolveTemplate.Execute(os.Stdout, description))
	},
}

var resolveSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of resolve --json output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return "source." + t.Name()
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&source.Description{})))
	},
}
