package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/cinewatch/cinewatch/color"
	"github.com/cinewatch/cinewatch/constant"
	"github.com/cinewatch/cinewatch/key"
	"github.com/cinewatch/cinewatch/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a registered setting.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty renders the field for `config info`.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable that overrides the field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Cinewatch + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.TypeName(),
	})
}

// TypeName names the type of the default value.
func (f *Field) TypeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case map[string]string:
		return "map[string]string"
	default:
		return "unknown"
	}
}

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.EmbedEnabled, true, "Play titles through embed mirrors.\nWhen enabled, direct files and trailers are never used")
	register(key.EmbedDomains, constant.DefaultEmbedDomains, "Embed mirror domains, tried in order")
	register(key.EmbedLoadTimeout, "12s", "How long a mirror may take to fire its load signal")
	register(key.EmbedGraceWindow, "3s", "How long after load an error may still mark the mirror as failed")
	register(key.EmbedShieldEdge, 48, "Thickness in pixels of the click shields along the player edges")
	register(key.SourcesDirect, map[string]string{}, "Direct media files by title.\nKeys look like \"movie/550\" or \"tv/1399\"")
	register(key.SourcesMissingPolicy, "sample", "What to play when nothing resolves.\nAvailable options are: sample, unavailable")
	register(key.SourcesSampleURL, constant.SampleStreamURL, "Sample stream used by the sample policy")
	register(key.Player, "mpv", "Media player used for direct files and trailers")
	register(key.PlayerVolume, 80, "Initial volume, from 0 to 100")
	register(key.PlayerWidth, 1280, "Player width in pixels")
	register(key.PlayerHeight, 720, "Player height in pixels")
	register(key.PlayerPreload, "auto", "Preload strategy.\nAvailable options are: auto, metadata, none")
	register(key.PlayerAutoplay, true, "Start playback as soon as the source loads")
	register(key.PlayerInitTimeout, "20s", "How long the player may take to report the duration before failing")
	register(key.MetadataTMDBToken, "", "TMDB read access token.\nPrefer \"cinewatch auth login\" to keep it in the system keyring")
	register(key.MetadataLanguage, "en-US", "Language of TMDB metadata")
	register(key.ServerAddr, "127.0.0.1:7861", "Address of the watch page server used for embeds")
	register(key.ServerBrowser, "", "Browser that opens watch pages.\nEmpty uses the system default")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
