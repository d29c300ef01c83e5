package version

import (
	"fmt"

	"github.com/cinewatch/cinewatch/color"
	"github.com/cinewatch/cinewatch/constant"
	"github.com/cinewatch/cinewatch/icon"
	"github.com/cinewatch/cinewatch/key"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/style"
	"github.com/cinewatch/cinewatch/util"
	"github.com/spf13/viper"
)

// ReleasePage is the address of the release notes of version.
func ReleasePage(version string) string {
	return "https://github.com/cinewatch/cinewatch/releases/tag/v" + version
}

// Notify prints a notice when a newer release exists. Lookup failures are
// logged and otherwise ignored.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new version...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		log.Warnf("version check: %s", err)
		return
	}

	newer, err := Compare(latest, constant.Version)
	if err != nil || newer <= 0 {
		return
	}

	fmt.Printf("\n%s %s %s %s\n%s\n\n",
		style.Fg(color.Green)("▇▇▇"),
		constant.Cinewatch,
		style.Bold(latest),
		style.Faint(fmt.Sprintf("is out (you have %s)", constant.Version)),
		style.Faint(ReleasePage(latest)),
	)
}
