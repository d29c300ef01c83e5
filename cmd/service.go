package cmd

import (
	"time"

	"github.com/cinewatch/cinewatch/auth"
	"github.com/cinewatch/cinewatch/config"
	"github.com/cinewatch/cinewatch/constant"
	"github.com/cinewatch/cinewatch/embed"
	"github.com/cinewatch/cinewatch/eventloop"
	"github.com/cinewatch/cinewatch/key"
	"github.com/cinewatch/cinewatch/metadata"
	"github.com/cinewatch/cinewatch/mount"
	"github.com/cinewatch/cinewatch/native"
	"github.com/cinewatch/cinewatch/network"
	"github.com/cinewatch/cinewatch/player"
	"github.com/cinewatch/cinewatch/server"
	"github.com/cinewatch/cinewatch/watch"
	"github.com/cinewatch/cinewatch/where"
	"github.com/spf13/viper"
)

// metadataLifetime is how long TMDB responses stay cached.
const metadataLifetime = 24 * time.Hour

func newMetadataClient() *metadata.Client {
	return &metadata.Client{
		HTTP:     network.Client,
		BaseURL:  constant.TMDBBaseURL,
		Token:    auth.Token(),
		Language: viper.GetString(key.MetadataLanguage),
		Cache:    metadata.NewCache(where.Metadata(), metadataLifetime),
	}
}

// newService wires a watch service from the current configuration.
// Metadata is skipped when withMetadata is false.
func newService(loop *eventloop.Loop, withMetadata bool, hooks embed.Hooks) *watch.Service {
	service := &watch.Service{
		Loop:     loop,
		Resolver: config.Resolver(),
		Volume:   config.Volume(),
		Factory: mount.Factory{
			Detector:    embed.HeuristicDetector{Domains: config.Domains()},
			Embed:       config.Embed(),
			Hooks:       hooks,
			Native:      config.Native(),
			InitTimeout: config.InitTimeout(),
			Engine: func() (native.Engine, error) {
				return player.New(viper.GetString(key.Player))
			},
		},
	}

	if withMetadata {
		service.Fetcher = newMetadataClient()
	}

	return service
}

func newServer(service *watch.Service) *server.Server {
	return server.New(server.Options{
		Addr:       viper.GetString(key.ServerAddr),
		Watch:      service,
		Width:      viper.GetInt(key.PlayerWidth),
		Height:     viper.GetInt(key.PlayerHeight),
		ShieldEdge: viper.GetInt(key.EmbedShieldEdge),
		Domains:    config.Domains(),
	})
}
