// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media API - these keys locate and tune the remote catalog service.
const (
	APIBaseURL = "api.base_url"
	APITimeout = "api.timeout"
)

// Playback Policy - defaults used when the preference store has no value of its own.
const (
	PlayerStreamingType             = "player.streaming_type"
	PlayerDefaultQuality            = "player.default_quality"
	PlayerAC3ByDefault              = "player.ac3_by_default"
	PlayerForcedSubtitlesByDefault  = "player.forced_subtitles_by_default"
	PlayerSwitchToHLSFromHTTP       = "player.switch_to_hls_from_http"
	PlayerTimeSyncInterval          = "player.time_sync_interval"
	PlayerPauseByOKClick            = "player.pause_by_ok_click"
	PlayerSettingsByUpClick         = "player.settings_by_up_click"
	PlayerMPVPath                   = "player.mpv_path"
	PlayerSkipStep                  = "player.skip_step"
	PlayerShowStartFromNotification = "player.show_start_from"
)

// History Tracking - these keys configure the persistence of resume checkpoints.
const (
	HistorySaveCheckpoints = "history.save_checkpoints"
)

// Search Interaction - these keys define the UI/UX parameters for search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
	SearchLimit                = "search.limit"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the interactive browser's styling and logic.
const (
	TUIItemSpacing = "tui.item_spacing"
	TUIShowWatched = "tui.show_watched"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
