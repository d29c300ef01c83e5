package config

import (
	"time"

	"github.com/cinewatch/cinewatch/embed"
	"github.com/cinewatch/cinewatch/key"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/native"
	"github.com/cinewatch/cinewatch/source"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Resolver builds the resolver configuration from the current settings.
func Resolver() source.Config {
	policy, err := source.ParseMissingPolicy(viper.GetString(key.SourcesMissingPolicy))
	if err != nil {
		log.Warnf("%s, falling back to sample", err)
	}

	return source.Config{
		Embed: source.EmbedConfig{
			Enabled: viper.GetBool(key.EmbedEnabled),
			Domains: Domains(),
		},
		DirectFiles: viper.GetStringMapString(key.SourcesDirect),
		Missing:     policy,
		SampleURL:   viper.GetString(key.SourcesSampleURL),
	}
}

// Domains returns the configured embed mirrors without blanks or duplicates.
func Domains() []string {
	return lo.Uniq(lo.Compact(viper.GetStringSlice(key.EmbedDomains)))
}

// Embed returns the embed adapter settings.
func Embed() embed.Settings {
	return embed.Settings{
		Domains:     Domains(),
		LoadTimeout: duration(key.EmbedLoadTimeout, embed.DefaultLoadTimeout),
		GraceWindow: duration(key.EmbedGraceWindow, embed.DefaultGraceWindow),
	}
}

// Native returns the base options of native mounts, without sources.
func Native() native.Options {
	opts := native.DefaultOptions()
	opts.Preload = lo.Ternary(viper.GetString(key.PlayerPreload) != "", viper.GetString(key.PlayerPreload), opts.Preload)
	opts.Autoplay = viper.GetBool(key.PlayerAutoplay)
	opts.Width = lo.Ternary(viper.GetInt(key.PlayerWidth) > 0, viper.GetInt(key.PlayerWidth), opts.Width)
	opts.Height = lo.Ternary(viper.GetInt(key.PlayerHeight) > 0, viper.GetInt(key.PlayerHeight), opts.Height)
	return opts
}

// InitTimeout returns how long a native player may take to initialize.
func InitTimeout() time.Duration {
	return duration(key.PlayerInitTimeout, native.DefaultInitTimeout)
}

// Volume returns the initial volume as a fraction.
func Volume() float64 {
	return float64(lo.Clamp(viper.GetInt(key.PlayerVolume), 0, 100)) / 100
}

func duration(k string, fallback time.Duration) time.Duration {
	d := viper.GetDuration(k)
	if d <= 0 {
		return fallback
	}
	return d
}
