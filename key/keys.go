// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Embed Provider - these keys control the third-party iframe provider and its mirror fallback.
const (
	EmbedEnabled     = "embed.enabled"
	EmbedDomains     = "embed.domains"
	EmbedLoadTimeout = "embed.load_timeout"
	EmbedGraceWindow = "embed.grace_window"
	EmbedShieldEdge  = "embed.shield_edge"
)

// Source Resolution - these keys configure direct file mappings and the no-content policy.
const (
	SourcesDirect        = "sources.direct"
	SourcesMissingPolicy = "sources.missing_policy"
	SourcesSampleURL     = "sources.sample_url"
)

// Media Playback - these keys configure the native player engine and its initial state.
const (
	Player            = "player.default"
	PlayerVolume      = "player.volume"
	PlayerWidth       = "player.width"
	PlayerHeight      = "player.height"
	PlayerPreload     = "player.preload"
	PlayerAutoplay    = "player.autoplay"
	PlayerInitTimeout = "player.init_timeout"
)

// Metadata Collaborator - these keys configure the TMDB client.
const (
	MetadataTMDBToken = "metadata.tmdb_token"
	MetadataLanguage  = "metadata.language"
)

// Watch Page Server - these keys configure the local page that hosts embed players.
const (
	ServerAddr    = "server.addr"
	ServerBrowser = "server.browser"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
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
