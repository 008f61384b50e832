package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Birthdays/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Birthdays"
	AppID          = "com.github.tartampluch.birthdays"
	KeyringService = "com.github.tartampluch.birthdays"
	LogFileName    = "app.log"
	PrefsFileName  = "preferences.yaml"
	EnvFileName    = ".env"
)

// CredentialFileName replaces the keyring entry under --no-keyring.
const CredentialFileName = "credential"

// CredentialKey is the fixed storage key of the session credential.
const CredentialKey = "token"

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags, Environment & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagAPIURL    = "api-url"
	FlagTimeout   = "timeout"
	FlagDebug     = "debug"
	FlagLanguage  = "lang"
	FlagDataDir   = "data-dir"
	FlagLogDir    = "log-dir"
	FlagNoKeyring = "no-keyring"

	EnvAPIURL    = "BIRTHDAYS_API_URL"
	EnvTimeout   = "BIRTHDAYS_TIMEOUT"
	EnvDebug     = "BIRTHDAYS_DEBUG"
	EnvLanguage  = "BIRTHDAYS_LANG"
	EnvDataDir   = "BIRTHDAYS_DATA_DIR"
	EnvLogDir    = "BIRTHDAYS_LOG_DIR"
	EnvNoKeyring = "BIRTHDAYS_NO_KEYRING"

	FlagDescAPIURL    = "Base URL of the birthdays API"
	FlagDescTimeout   = "HTTP timeout for API calls"
	FlagDescDebug     = "Enable debug logging to stderr"
	FlagDescLanguage  = "Language of user-facing messages (en, es)"
	FlagDescDataDir   = "Directory holding preferences and the fallback credential file"
	FlagDescLogDir    = "Directory holding the log file (default: user cache dir)"
	FlagDescNoKeyring = "Store the session credential in a user-only file instead of the OS keyring"

	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// -----------------------------------------------------------------------------
// CLI Commands & Arguments
// -----------------------------------------------------------------------------

const (
	BinaryName = "birthdays"
	UsageApp   = "Keep track of birthdays stored on a remote server"

	CmdLogin    = "login"
	CmdRegister = "register"
	CmdLogout   = "logout"
	CmdList     = "list"
	CmdShow     = "show"
	CmdAdd      = "add"
	CmdEdit     = "edit"
	CmdDelete   = "delete"
	CmdOn       = "on"
	CmdMonth    = "month"
	CmdUpcoming = "upcoming"
	CmdExport   = "export"
	CmdImport   = "import"
	CmdServe    = "serve"
	CmdSettings = "settings"
	CmdVersion  = "version"

	UsageLogin    = "Open a session with email and password"
	UsageRegister = "Create an account and open a session"
	UsageLogout   = "Close the session and forget the credential"
	UsageList     = "List every birthday"
	UsageShow     = "Show one birthday"
	UsageAdd      = "Add a birthday"
	UsageEdit     = "Edit a birthday; only the given flags change"
	UsageDelete   = "Delete a birthday"
	UsageOn       = "Birthdays falling on a date, any year (default today)"
	UsageMonth    = "Birthdays in a month 1-12 (default current month)"
	UsageUpcoming = "Next birthdays, soonest first"
	UsageExport   = "Write the collection as an iCalendar file"
	UsageImport   = "Create birthdays from a vCard (.vcf) file or URL"
	UsageServe    = "Serve the collection as a local iCalendar feed"
	UsageSettings = "Show or change presentation settings"
	UsageVersion  = "Print version information"

	ArgsID       = "<id>"
	ArgsDate     = "[YYYY-MM-DD]"
	ArgsMonth    = "[1-12]"
	ArgsFile     = "<file.vcf|URL>"
	ArgsSettings = "[key [value]]"

	FlagEmail        = "email"
	FlagPassword     = "password"
	FlagConfirm      = "confirm"
	FlagName         = "name"
	FlagDate         = "date"
	FlagRelationship = "relationship"
	FlagPhone        = "phone"
	FlagNotes        = "notes"
	FlagReminder     = "reminder"
	FlagPhoto        = "photo"
	FlagLimit        = "limit"
	FlagOutput       = "output"
	FlagPort         = "port"
	FlagRefresh      = "refresh"
	FlagDryRun       = "dry-run"
	FlagUser         = "user"
	FlagSourcePass   = "source-password"

	EnvEmail    = "BIRTHDAYS_EMAIL"
	EnvPassword = "BIRTHDAYS_PASSWORD"
	EnvPort     = "BIRTHDAYS_FEED_PORT"
	EnvUser     = "BIRTHDAYS_VCARD_USER"
	EnvSource   = "BIRTHDAYS_VCARD_PASSWORD"

	FlagDescEmail        = "Account email"
	FlagDescPassword     = "Account password"
	FlagDescConfirm      = "Password confirmation"
	FlagDescAccountName  = "Account holder name"
	FlagDescName         = "Name of the person"
	FlagDescDate         = "Birthday date (YYYY-MM-DD)"
	FlagDescRelationship = "Relationship (friend, sister, ...)"
	FlagDescPhone        = "Phone number"
	FlagDescContactEmail = "Email address of the person"
	FlagDescNotes        = "Free-form notes"
	FlagDescReminder     = "Reminder time (HH:mm), or \"off\""
	FlagDescPhoto        = "Photo reference (URI)"
	FlagDescLimit        = "Maximum number of entries (0 = all)"
	FlagDescOutput       = "Output file (default stdout)"
	FlagDescPort         = "Local port of the calendar feed"
	FlagDescRefresh      = "Interval between feed refreshes"
	FlagDescDryRun       = "Parse and print without creating anything"
	FlagDescUser         = "Username for a vCard URL"
	FlagDescSourcePass   = "Password for a vCard URL"

	// ReminderOff disables the reminder in add/edit.
	ReminderOff = "off"
	StdoutPath  = "-"

	FormatClock   = "%02d:%02d"
	FormatFeedURL = "http://%s:%s%s"
)

// -----------------------------------------------------------------------------
// Preference Keys & Values
// -----------------------------------------------------------------------------

const (
	PrefFont     = "preferredFont"
	PrefTheme    = "theme"
	PrefLanguage = "language"

	FontRoboto       = "Roboto"
	FontRobotoMedium = "RobotoMedium"
	FontRobotoLight  = "RobotoLight"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// SupportedFonts lists the font families the presentation layer ships with.
var SupportedFonts = []string{FontRoboto, FontRobotoMedium, FontRobotoLight}

// SupportedLanguages defines the list of available message languages (ISO 639-1).
var SupportedLanguages = []string{"en", "es"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultAPIURL           = "http://127.0.0.1:8000/api"
	DefaultLanguage         = "en"
	DefaultFont             = FontRoboto
	DefaultTheme            = ThemeLight
	DefaultPhotoPlaceholder = "placeholder://birthday-photo"
	DefaultUpcomingLimit    = 10
	DefaultFeedPort         = "18080"
	DefaultFeedRefresh      = 15 * time.Minute
)

// -----------------------------------------------------------------------------
// Wire Formats
// -----------------------------------------------------------------------------

const (
	// Canonical layouts exchanged with the remote store.
	DateLayout = "YYYY-MM-DD"
	TimeLayout = "HH:mm:ss"

	// FormatDateKey is the recurring index key, month and day only.
	FormatDateKey = "%02d-%02d"
	FormatDate    = "%04d-%02d-%02d"
	FormatTime    = "%02d:%02d:00"

	// UnknownBirthYear marks a birthday imported without a year (vCard
	// --MM-DD). It is a leap year so Feb 29 survives; Apple Contacts uses it too.
	UnknownBirthYear = 1604
)

// Date layouts accepted when importing vCard BDAY fields.
const (
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"
)

// -----------------------------------------------------------------------------
// Remote API
// -----------------------------------------------------------------------------

const (
	RouteBirthdays = "/birthdays"
	RouteBirthday  = "/birthdays/{id}"
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteLogout    = "/logout"

	PathParamID = "id"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Birthdays//Calendar//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "birthdays"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"

	VCardBDAY  = "BDAY"
	VCardFN    = "FN"
	VCardTEL   = "TEL"
	VCardEMAIL = "EMAIL"
	VCardNOTE  = "NOTE"
	VCardPHOTO = "PHOTO"

	FormatUID          = "%s@%s"
	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout        = 30 * time.Second
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"
	LocalhostBindAddr  = "127.0.0.1"
	AddrSeparator      = ":"
	RouteFeed          = "/birthdays.ics"
	SchemeHTTP         = "http"
	SchemeHTTPS        = "https"
)

// MaxHTTPResponseSize caps a downloaded vCard stream (10 MB).
const MaxHTTPResponseSize int64 = 10 << 20

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderAuthorization   = "Authorization"
	HeaderContentType     = "Content-Type"
	HeaderAccept          = "Accept"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderRequestID       = "X-Request-Id"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	BearerPrefix = "Bearer "

	MimeJSON            = "application/json"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidDate     = "invalid date"
	ErrInvalidTime     = "invalid time"
	ErrParse           = "malformed date/time value"
	ErrValidation      = "validation failed"
	ErrFieldRequired   = "field is required"
	ErrFetch           = "could not fetch birthdays"
	ErrCreate          = "could not create birthday"
	ErrUpdate          = "could not update birthday"
	ErrDelete          = "could not delete birthday"
	ErrNotFound        = "birthday not found"
	ErrUnauthorized    = "unauthorized"
	ErrUnavailable     = "server unavailable"
	ErrBadResponse     = "malformed server response"
	ErrNoCredential    = "no session credential"
	ErrCredentialStore = "credential storage failure"
	ErrNoToken         = "server returned no token"
	ErrPasswordMatch   = "passwords do not match"
	ErrLogin           = "login failed"
	ErrRegister        = "registration failed"
	ErrPrefsPath       = "preferences path is empty"
	ErrPrefsInvalid    = "invalid preference value"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrVCardDecode     = "failed to decode vCard stream"
	ErrDateParse       = "unable to parse date"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrWriteResp       = "failed to write response body"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app data dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrMonthRange      = "month must be between 1 and 12"
	ErrVCardFetch      = "vCard download failed"
	ErrArgCount        = "wrong number of arguments"
	ErrLangPrefs       = "could not load preferences, using defaults"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks
// -----------------------------------------------------------------------------

const (
	FallbackSummary    = "Birthday: %s"
	FallbackSummaryRel = "Birthday: %s (%s)"
	FallbackName       = "Unknown"
)

// -----------------------------------------------------------------------------
// Translation Keys (i18n)
// -----------------------------------------------------------------------------

const (
	// Errors shown to the user
	TKeyErrNameRequired  = "err_name_required"
	TKeyErrDateRequired  = "err_date_required"
	TKeyErrDateInvalid   = "err_date_invalid"
	TKeyErrTimeRequired  = "err_time_required"
	TKeyErrTimeInvalid   = "err_time_invalid"
	TKeyErrIDRequired    = "err_id_required"
	TKeyErrFetch         = "err_fetch"
	TKeyErrCreate        = "err_create"
	TKeyErrUpdate        = "err_update"
	TKeyErrDelete        = "err_delete"
	TKeyErrNotFound      = "err_not_found"
	TKeyErrUnauthorized  = "err_unauthorized"
	TKeyErrUnavailable   = "err_unavailable"
	TKeyErrLogin         = "err_login"
	TKeyErrRegister      = "err_register"
	TKeyErrNoToken       = "err_no_token"
	TKeyErrPasswordMatch = "err_password_mismatch"
	TKeyErrParse         = "err_parse"
	TKeyErrPrefs         = "err_prefs"
	TKeyErrMonthRange    = "err_month_range"
	TKeyErrUnexpected    = "err_unexpected"
	TKeyErrNotLoggedIn   = "err_not_logged_in"

	// Confirmations
	TKeyMsgSaved      = "msg_saved"
	TKeyMsgUpdated    = "msg_updated"
	TKeyMsgDeleted    = "msg_deleted"
	TKeyMsgLoggedIn   = "msg_logged_in"
	TKeyMsgRegistered = "msg_registered"
	TKeyMsgLoggedOut  = "msg_logged_out"
	TKeyMsgNone       = "msg_none"
	TKeyMsgImported   = "msg_imported"
	TKeyMsgExported   = "msg_exported"
	TKeyMsgServing    = "msg_serving"

	// Calendar events
	TKeyEvtSummary    = "evt_summary"
	TKeyEvtSummaryRel = "evt_summary_rel"

	// Table columns and labels
	TKeyColID           = "col_id"
	TKeyColName         = "col_name"
	TKeyColDate         = "col_date"
	TKeyColRelationship = "col_relationship"
	TKeyColPhone        = "col_phone"
	TKeyColEmail        = "col_email"
	TKeyColNotes        = "col_notes"
	TKeyColReminder     = "col_reminder"
	TKeyColPhoto        = "col_photo"
	TKeyColInDays       = "col_in_days"
	TKeyColAge          = "col_age"
	TKeyLblToday        = "lbl_today"
	TKeyLblOff          = "lbl_off"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgRequest       = "API request"
	MsgResponse      = "API response"
	MsgCacheReplaced = "Birthday cache replaced"
	MsgRecordCreated = "Birthday created"
	MsgRecordUpdated = "Birthday updated"
	MsgRecordRemoved = "Birthday removed"
	MsgStoreReset    = "Birthday cache discarded"
	MsgOpFailed      = "Birthday operation failed"
	MsgValidation    = "Draft rejected locally"
	MsgLoggedIn      = "Session credential stored"
	MsgLoggedOut     = "Session credential cleared"
	MsgLogoutIgnored = "Remote logout failed, continuing"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping card without usable birthday"
	MsgImportDone    = "vCard import parsed"
	MsgExportDone    = "Calendar generation successful"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgFeedRefreshed = "Calendar feed refreshed"
	MsgFeedFailed    = "Calendar feed refresh failed"
	MsgWorkerStart   = "Background worker started"
	MsgWorkerStop    = "Worker stopping due to context cancellation"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPrefsCreated  = "Default preferences written"
	MsgPrefsSaved    = "Preferences saved"
	MsgImportFailed  = "Imported card rejected"
	MsgFetchStart    = "Initiating vCard download"
	MsgFetchStatus   = "Server returned error status"
	MsgFetchOK       = "vCards downloading"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyMethod    = "method"
	LogKeyStatus    = "status_code"
	LogKeyRequestID = "request_id"
	LogKeyOp        = "op"
	LogKeyID        = "id"
	LogKeyField     = "field"
	LogKeyCount     = "count"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyDuration  = "duration_ms"
	LogKeySkipped   = "skipped"
	LogKeyLength    = "content_length"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "built"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompAPI      = "api"
	CompStore    = "store"
	CompSession  = "session"
	CompAuth     = "auth"
	CompCalendar = "calendar"
	CompFetcher  = "fetcher"
	CompServer   = "server"
	CompWorker   = "worker"
	CompPrefs    = "prefs"
	CompCLI      = "cli"
	CompMain     = "main"
	CompI18n     = "i18n"
)

// -----------------------------------------------------------------------------
// Store Operations (log values)
// -----------------------------------------------------------------------------

const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)
