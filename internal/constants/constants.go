package constants

// File Names
const (
	EnvFileName       = ".env"
	AppConfigFileName = "hdadmin.toml"
	LogFileName       = "hdadmin.log"
	DatabaseFileName  = "database.sqlite"
	CustomCSSPath     = "css/custom.css"
	AppJSPath         = "js/app.js"
	LogoFileName      = "logo.png"
	LogoWhiteFileName = "logo_white.png"
	FaviconFileName   = "favicon.png"
	ImagesDirName     = "images"
)

// Setting types
const (
	SettingTypeText = "text"
	SettingTypeJSON = "json"
)

// Setting slugs with special handling
const (
	CustomCSSSlug       = "custom_css"
	SiteKeySlug         = "site_key"
	DefaultLanguageSlug = "default_language"
	EnableOptionsSlug   = "enable_options"
	EnablePipingSlug    = "enable_piping"
)

// JSONSettingSlugs are stored as JSON text and exposed as structured data.
var JSONSettingSlugs = []string{"hide_ticket_fields", "required_ticket_fields"}

// Env keys read or written outside of the grouped forms below
const (
	RecaptchaSecretKey = "RECAPTCHA_SECRET_KEY"
	VersionKey         = "VERSION"
	GitHubTokenKey     = "GITHUB_TOKEN"
	PusherAppKey       = "PUSHER_APP_KEY"
	PusherAppCluster   = "PUSHER_APP_CLUSTER"
)

// SMTPKeys lists the mail settings in form order.
var SMTPKeys = []string{
	"MAIL_HOST",
	"MAIL_PORT",
	"MAIL_USERNAME",
	"MAIL_PASSWORD",
	"MAIL_ENCRYPTION",
	"MAIL_FROM_ADDRESS",
	"MAIL_FROM_NAME",
}

// PusherKeys lists the push-notification settings in form order.
var PusherKeys = []string{
	"PUSHER_APP_ID",
	"PUSHER_APP_KEY",
	"PUSHER_APP_SECRET",
	"PUSHER_APP_CLUSTER",
}

// PusherSetupKeys must all be set for push notifications to count as configured.
var PusherSetupKeys = []string{"PUSHER_APP_ID", "PUSHER_APP_KEY", "PUSHER_APP_SECRET"}

// PipingKeys lists the mailbox polling settings in form order.
var PipingKeys = []string{
	"IMAP_HOST",
	"IMAP_PORT",
	"IMAP_PROTOCOL",
	"IMAP_ENCRYPTION",
	"IMAP_USERNAME",
	"IMAP_PASSWORD",
}
