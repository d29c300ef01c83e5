package main

import (
	"github.com/cinewatch/cinewatch/cmd"
	"github.com/cinewatch/cinewatch/config"
	"github.com/cinewatch/cinewatch/internal/cache"
	"github.com/cinewatch/cinewatch/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
