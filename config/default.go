// Package config registers every kptv setting with its default and wires them into viper.
package config

import (
	"time"

	"github.com/kptv-cli/kptv/constant"
	"github.com/kptv-cli/kptv/key"
)

// fields lists every setting in the order they are documented.
var fields = []Field{
	{key.APIBaseURL, "https://api.service-kp.com", "Base URL of the media API"},
	{key.APITimeout, 30, "Timeout of a single media API request, in seconds"},
	{key.PlayerStreamingType, "http", "Delivery protocol used for playback.\nAvailable options are: http, hls, hls2, hls4"},
	{key.PlayerDefaultQuality, "", "Preferred quality tier (2160, 1080, 720, 480).\nEmpty means the highest available"},
	{key.PlayerAC3ByDefault, false, "Prefer an AC3 audio track when no track was chosen for the item"},
	{key.PlayerForcedSubtitlesByDefault, false, "Show forced subtitles when no subtitle was chosen for the item"},
	{key.PlayerSwitchToHLSFromHTTP, false, "Switch from http to hls when a video has more audio tracks than http can carry"},
	{key.PlayerTimeSyncInterval, int(constant.TimeSyncInterval/time.Second), "Interval between resume checkpoint syncs, in seconds"},
	{key.PlayerPauseByOKClick, false, "Toggle pause with the OK (enter) button"},
	{key.PlayerSettingsByUpClick, true, "Open playback settings with the up arrow"},
	{key.PlayerMPVPath, "mpv", "Path to the mpv executable"},
	{key.PlayerSkipStep, 10, "Seek step of the left and right arrows, in seconds"},
	{key.PlayerShowStartFromNotification, true, "Show the resume position when playback starts mid-video"},
	{key.HistorySaveCheckpoints, true, "Keep a local copy of resume checkpoints"},
	{key.SearchShowQuerySuggestions, true, "Show query suggestions when searching"},
	{key.SearchLimit, 20, "Limit of search results to show"},
	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)"},
	{key.TUIItemSpacing, 1, "Spacing between items in the TUI"},
	{key.TUIShowWatched, true, "Mark watched episodes in the TUI"},
	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},
	{key.CliColored, true, "Enable colored CLI output"},
	{key.CliVersionCheck, true, "Enable automatic version check"},
}

// Default indexes fields by key.
var Default = make(map[string]Field, len(fields))

// EnvExposed holds the keys that can be set from KPTV_ environment variables.
var EnvExposed []string

func init() {
	for _, f := range fields {
		if _, exists := Default[f.Key]; exists {
			panic("duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}
