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

// UserAgent identifies the HTTP client used for remote vCard imports.
var UserAgent = "Go-Phonebook/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Phonebook"
	AppID             = "com.github.tartampluch.go-phonebook"
	AppCommand        = "go-phonebook"
	KeyringService    = "com.github.tartampluch.go-phonebook"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "settings.yaml"
	DataFileName      = "addressbook.vcf"
	TempFileSuffix    = ".tmp"
)

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
	// Used for the address book, settings and logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug    = "debug"
	FlagConfig   = "config"
	FlagData     = "data"
	FlagLang     = "lang"
	FlagFormat   = "format"
	FlagOutput   = "output"
	FlagURL      = "url"
	FlagUser     = "user"
	FlagPort     = "port"
	FlagAll      = "all"
	FlagShortOut = "o"

	FlagDescDebug  = "Enable debug logging to stderr"
	FlagDescConfig = "Path to the settings file"
	FlagDescData   = "Path to the address book file"
	FlagDescLang   = "Language of messages (en, fr)"
	FlagDescFormat = "Export format (vcf or ics)"
	FlagDescOutput = "Write to file instead of stdout"
	FlagDescURL    = "Import vCards from an HTTP(S) URL"
	FlagDescUser   = "Basic auth user for the remote URL"
	FlagDescPort   = "Port to listen on"
	FlagDescAll    = "List every birthday, soonest first"

	CmdShortRoot      = "Interactive contact book with birthday reminders"
	CmdShortVersion   = "Print version information"
	CmdShortBirthdays = "List birthdays in the next 7 days"
	CmdShortExport    = "Export the address book as vCard or iCalendar"
	CmdShortImport    = "Import contacts from a vCard file or URL"
	CmdShortServe     = "Serve the birthday calendar and contacts over HTTP"
	CmdShortLogin     = "Store the password for the remote vCard source in the OS keyring"

	CmdUseExport = "export"
	CmdUseImport = "import [file.vcf]"
	CmdUseServe  = "serve"
	CmdUseLogin  = "login [user]"

	MsgVersionOutput = "%s version %s (commit %s, built %s) %s/%s\n"
	MsgImportOutput  = "Imported %d contacts (%d new, %d phones skipped)\n"
	MsgLoginPrompt   = "Password for %s: "
	MsgLoginDone     = "Password stored in the system keyring.\n"
	MsgServeOutput   = "Serving http://%s%s and http://%s%s (Ctrl+C to stop)\n"
)

// -----------------------------------------------------------------------------
// Settings Keys & Defaults
// -----------------------------------------------------------------------------

// SupportedLanguages defines the list of available message languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

const (
	DefaultLanguage      = "en"
	DefaultPort          = "18081"
	DefaultReminderValue = 1
	DefaultLeapYear      = 2000 // Leap year fallback for dates like --02-29
	UIDNamespaceSeed     = "go-phonebook-v1"

	// UpcomingWindowDays is the inclusive look-ahead of the birthdays query.
	UpcomingWindowDays = 7

	// PhoneLength is the exact number of digits of a valid phone number.
	PhoneLength = 10
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
	ISOTime           = "T" // RFC 5545: hours and minutes follow a T designator
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Commands (interactive shell)
// -----------------------------------------------------------------------------

const (
	CmdHello        = "hello"
	CmdHelp         = "help"
	CmdAdd          = "add"
	CmdChange       = "change"
	CmdPhone        = "phone"
	CmdRemovePhone  = "remove-phone"
	CmdDelete       = "delete"
	CmdAddBirthday  = "add-birthday"
	CmdShowBirthday = "show-birthday"
	CmdBirthdays    = "birthdays"
	CmdAll          = "all"
	CmdExit         = "exit"
	CmdClose        = "close"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Phonebook//Engine//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gophonebook"

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

	VCardUIDPrefix = "urn:uuid:"

	DefaultICalRefresh = 1 * time.Hour

	// FeedReloadInterval is how often "serve" re-reads the address book file.
	FeedReloadInterval = 1 * time.Minute
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// DateFormatBirthday is the user-facing and stored birthday layout (DD.MM.YYYY).
	DateFormatBirthday = "02.01.2006"

	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	FormatUID = "%s-%d@%s"

	// Export formats
	FormatVCF = "vcf"
	FormatICS = "ics"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteCalendar       = "/birthdays.ics"
	RouteContacts       = "/contacts.vcf"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextVCard       = "text/vcard; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`

	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInitializing = "Service Initializing"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrUnknownRoute    = "no feed registered for route"
	ErrInputRead       = "failed to read input"
	ErrUserMissing     = "no remote user given (use --user or remote_user in settings)"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrLanguage        = "unsupported language"
	ErrReminderUnit    = "unsupported reminder unit"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrVCardEncode     = "failed to encode vCard data"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create app directory"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrSettingsRead    = "failed to read settings file"
	ErrSettingsParse   = "failed to parse settings file"
	ErrStorageRead     = "failed to read address book"
	ErrStorageWrite    = "failed to write address book"
	ErrImportSource    = "import needs a file path or --url"
	ErrExportFormat    = "unsupported export format"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrPasswordMissing = "no password provided"
	ErrResponseSize    = "remote response exceeds size limit"
	ErrFetchRequest    = "failed to create request"
	ErrFetchNetwork    = "network error during fetch"
	ErrFetchStatus     = "server returned unexpected status"
	ErrKeyringSet      = "failed to store password in keyring"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgAppStop       = "Application stopped gracefully"
	MsgAppStarting   = "Starting application"
	MsgCtxCancel     = "Context cancelled, leaving without saving"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgSkippedPhone  = "Skipping invalid phone number"
	MsgSkippedName   = "Skipping vCard without name"
	MsgGenSuccess    = "Calendar generation successful"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Feed cache updated"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgBookLoaded    = "Address book loaded"
	MsgBookSaved     = "Address book saved"
	MsgBookMissing   = "No address book yet, starting empty"
	MsgCommand       = "Command handled"
	MsgImportDone    = "Import finished"
	MsgSettingsNone  = "No settings file, using defaults"
	MsgFetchStart    = "Initiating vCard download"
	MsgFetchStatus   = "Server returned error status"
	MsgFetching      = "vCards downloading"
	MsgFeedRefresh   = "Feeds refreshed from address book"
	MsgFeedFailed    = "Feed refresh failed"
	MsgWorkerStart   = "Feed refresh worker started"
	MsgWorkerStop    = "Feed refresh worker stopped"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyUser      = "user"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyName      = "name"
	LogKeyCommand   = "command"
	LogKeyKind      = "kind"
	LogKeyDuration  = "duration_ms"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyRoute     = "route"
	LogKeyContacts  = "contacts"
	LogKeyEvents    = "events"
	LogKeyCreated   = "created"
	LogKeySkipped   = "skipped"
	LogKeyInterval  = "interval"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompCLI       = "cli"
	CompShell     = "shell"
	CompAssistant = "assistant"
	CompStorage   = "storage"
	CompEngine    = "engine"
	CompImport    = "import"
	CompServer    = "server"
	CompFetcher   = "fetcher"
	CompI18n      = "i18n"
	CompSettings  = "settings"
)

// -----------------------------------------------------------------------------
// Command Usage (not translated, these are syntax)
// -----------------------------------------------------------------------------

const (
	UsageAdd          = "add <name> <phone>"
	UsageChange       = "change <name> <old phone> <new phone>"
	UsagePhone        = "phone <name>"
	UsageRemovePhone  = "remove-phone <name> <phone>"
	UsageDelete       = "delete <name>"
	UsageAddBirthday  = "add-birthday <name> <DD.MM.YYYY>"
	UsageShowBirthday = "show-birthday <name>"
	PhoneSeparator    = "; "
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWelcome        = "welcome"
	TKeyPrompt         = "prompt"
	TKeyGoodbye        = "goodbye"
	TKeyHello          = "hello"
	TKeyHelp           = "help"
	TKeyContactAdded   = "contact_added"
	TKeyPhoneChanged   = "phone_changed"
	TKeyPhoneList      = "phone_list"
	TKeyPhoneRemoved   = "phone_removed"
	TKeyContactDeleted = "contact_deleted"
	TKeyBirthdayAdded  = "birthday_added"
	TKeyBirthdayShow   = "birthday_show"
	TKeyBirthdayNone   = "birthday_none"
	TKeyUpcomingHeader = "upcoming_header"
	TKeyUpcomingLine   = "upcoming_line"
	TKeyUpcomingEmpty  = "upcoming_empty"
	TKeyCalendarLine   = "calendar_line"
	TKeyContactsEmpty  = "contacts_empty"
	TKeyContactLine    = "contact_line"
	TKeyContactLineBD  = "contact_line_birthday"

	TKeyEvtSummaryAge   = "event_summary_age"   // Requires Name, Age
	TKeyEvtSummaryBirth = "event_summary_birth" // Requires Name (For age 0)

	// Validation & Lookup Errors
	TKeyErrPhoneLength    = "err_phone_length"
	TKeyErrPhoneDigits    = "err_phone_digits"
	TKeyErrDate           = "err_date"
	TKeyErrMissingPhone   = "err_missing_phone"
	TKeyErrArgs           = "err_arguments"
	TKeyErrUnknownContact = "err_unknown_contact"
	TKeyErrUnknownCommand = "err_unknown_command"
	TKeyErrStorage        = "err_storage"
	TKeyErrInternal       = "err_internal"
)
