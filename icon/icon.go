// Package icon renders status symbols in the variant chosen by the user.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares.
package icon

import (
	"github.com/cinewatch/cinewatch/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Check
	Cross
	Progress
	Play
	Pause
	Mute
	Volume
	Fullscreen
	Subtitles
	Back
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Fail:       {emoji: "💀", nerd: "", plain: "x", kaomoji: "(╥﹏╥)", squares: "🟥"},
	Success:    {emoji: "🎉", nerd: "", plain: "ok", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Check:      {emoji: "✅", nerd: "", plain: "+", kaomoji: "(•̀ᴗ•́)و", squares: "🟩"},
	Cross:      {emoji: "❌", nerd: "", plain: "-", kaomoji: "(×_×)", squares: "🟥"},
	Progress:   {emoji: "⏳", nerd: "", plain: "~", kaomoji: "( ͡° ͜ʖ ͡°)", squares: "🟨"},
	Play:       {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(ﾉ◕ヮ◕)ﾉ", squares: "🟩"},
	Pause:      {emoji: "⏸️", nerd: "", plain: "||", kaomoji: "(￣o￣) zzZ", squares: "🟨"},
	Mute:       {emoji: "🔇", nerd: "", plain: "mute", kaomoji: "(・_・ヾ", squares: "⬛"},
	Volume:     {emoji: "🔊", nerd: "", plain: "vol", kaomoji: "(ﾟдﾟ)", squares: "🟦"},
	Fullscreen: {emoji: "🖥️", nerd: "", plain: "[ ]", kaomoji: "(⌐■_■)", squares: "🟦"},
	Subtitles:  {emoji: "💬", nerd: "", plain: "cc", kaomoji: "(｀・ω・´)", squares: "🟪"},
	Back:       {emoji: "🔙", nerd: "", plain: "<-", kaomoji: "(ノ_<。)", squares: "⬜"},
}

// Get returns the rendered symbol of i for the configured variant.
func Get(i Icon) string {
	return icons[i].Get()
}
