// Package icon renders the symbols used across the CLI and the TUI.
//
// Icons come as emoji, nerd-font glyphs, plain ASCII, kaomoji or Unicode squares,
// depending on icons.variant.
package icon

import (
	"github.com/kptv-cli/kptv/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// iconDef holds one symbol in every variant.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

type variant struct {
	name string
	pick func(*iconDef) string
}

var variants = []variant{
	{plain, func(d *iconDef) string { return d.plain }},
	{emoji, func(d *iconDef) string { return d.emoji }},
	{nerd, func(d *iconDef) string { return d.nerd }},
	{kaomoji, func(d *iconDef) string { return d.kaomoji }},
	{squares, func(d *iconDef) string { return d.squares }},
}

func AvailableVariants() []string {
	return lo.Map(variants, func(v variant, _ int) string { return v.name })
}

// current is the configured variant, plain when it is not a known one.
func current() variant {
	v, _ := lo.Find(variants, func(v variant) bool {
		return v.name == viper.GetString(key.IconsVariant)
	})
	if v.pick == nil {
		return variants[0]
	}
	return v
}

// Get renders i in the configured variant. Unknown icons render empty.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return current().pick(d)
}
