package prefs

import (
	"fmt"
	"strconv"

	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Global policy flag keys.
const (
	AC3ByDefault        = "is_ac3_by_default_active"
	ForcedByDefault     = "is_forced_by_default_active"
	SwitchToHLSFromHTTP = "is_switch_to_hls_from_http_active"
	DefaultQuality      = "default_quality"
	StreamingType       = "streaming_type"
	PauseByOKClick      = "is_pause_by_ok_click_active"
	SettingsByUpClick   = "is_settings_by_up_click_active"
)

// Flag describes one global policy entry of the store.
type Flag struct {
	Name string
	// Fallback is the config key read when the store has no value.
	Fallback    string
	Bool        bool
	Description string
}

// Flags lists the global policy entries in display order.
var Flags = []Flag{
	{StreamingType, key.PlayerStreamingType, false, "Delivery protocol"},
	{DefaultQuality, key.PlayerDefaultQuality, false, "Preferred quality tier"},
	{AC3ByDefault, key.PlayerAC3ByDefault, true, "Prefer AC3 audio"},
	{ForcedByDefault, key.PlayerForcedSubtitlesByDefault, true, "Show forced subtitles"},
	{SwitchToHLSFromHTTP, key.PlayerSwitchToHLSFromHTTP, true, "Switch http to hls for many audio tracks"},
	{PauseByOKClick, key.PlayerPauseByOKClick, true, "Pause with OK"},
	{SettingsByUpClick, key.PlayerSettingsByUpClick, true, "Open settings with up"},
}

// FindFlag looks a flag up by store key.
func FindFlag(name string) (Flag, bool) {
	return lo.Find(Flags, func(f Flag) bool { return f.Name == name })
}

// SetFlag validates and stores a flag value given as text.
func SetFlag(store Store, name, value string) error {
	flag, ok := FindFlag(name)
	if !ok {
		return fmt.Errorf("unknown setting %q", name)
	}

	if flag.Bool {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects a boolean: %w", name, err)
		}
		return store.Set(name, b)
	}

	switch name {
	case StreamingType:
		t, err := catalog.ParseStreamingType(value)
		if err != nil {
			return err
		}
		return store.Set(name, string(t))
	case DefaultQuality:
		if value != "" && catalog.ParseTier(value) == 0 {
			return fmt.Errorf("invalid quality %q", value)
		}
	}
	return store.Set(name, value)
}

// Policy is the effective set of global playback flags.
type Policy struct {
	StreamingType       catalog.StreamingType
	DefaultQuality      mo.Option[string]
	AC3ByDefault        bool
	ForcedByDefault     bool
	SwitchToHLSFromHTTP bool
	PauseByOKClick      bool
	SettingsByUpClick   bool
}

// LoadPolicy reads every flag from the store, falling back to the configured defaults
// for absent keys.
func LoadPolicy(store Store) Policy {
	boolean := func(name, fallback string) bool {
		return Bool(store, name).OrElse(viper.GetBool(fallback))
	}

	raw := String(store, StreamingType).OrElse(viper.GetString(key.PlayerStreamingType))
	streaming, err := catalog.ParseStreamingType(raw)
	if err != nil {
		log.Warnf("invalid streaming type %q, using http", raw)
		streaming = catalog.HTTP
	}

	quality := mo.None[string]()
	if q := String(store, DefaultQuality).OrElse(viper.GetString(key.PlayerDefaultQuality)); q != "" {
		quality = mo.Some(q)
	}

	return Policy{
		StreamingType:       streaming,
		DefaultQuality:      quality,
		AC3ByDefault:        boolean(AC3ByDefault, key.PlayerAC3ByDefault),
		ForcedByDefault:     boolean(ForcedByDefault, key.PlayerForcedSubtitlesByDefault),
		SwitchToHLSFromHTTP: boolean(SwitchToHLSFromHTTP, key.PlayerSwitchToHLSFromHTTP),
		PauseByOKClick:      boolean(PauseByOKClick, key.PlayerPauseByOKClick),
		SettingsByUpClick:   boolean(SettingsByUpClick, key.PlayerSettingsByUpClick),
	}
}

// Effective renders the value of a flag as it applies now, and whether it came from
// the store.
func Effective(store Store, flag Flag) (value string, stored bool) {
	if v, ok := String(store, flag.Name).Get(); ok {
		return v, true
	}
	return viper.GetString(flag.Fallback), false
}
