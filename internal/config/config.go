// Centralized config and feature flags, loaded from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Google Sheets settings
	SpreadsheetID            string
	Range                    string // "SheetName!A:H" form
	ServiceAccountEmail      string
	ServiceAccountPrivateKey string

	// Store selection: "sheets" (default), "xlsx" or "mock"
	StoreBackend string
	XLSXPath     string
	UseMock      bool

	// Optional Supabase/Postgres mirror
	SupabaseEnabled bool
	DatabaseURL     string

	// Mail account
	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	// Optional outcome-event broker
	AMQPURL string

	// UI & behavior
	PageSize    int
	MaxInFlight int
	CORSOrigins []string

	// Asset locations
	QRDir          string
	TicketDir      string
	BaseTicketPath string
	FontPath       string
	TemplatePath   string
	DeskLabel      string

	Port string
}

func Load() *Config {
	return &Config{
		SpreadsheetID:       os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"),
		Range:               getEnv("GOOGLE_SHEETS_RANGE", "Entries!A:H"),
		ServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		// Private key may contain literal \n when stored, normalize safely
		ServiceAccountPrivateKey: strings.ReplaceAll(
			os.Getenv("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY"), `\n`, "\n"),

		StoreBackend: getEnv("STORE_BACKEND", "sheets"),
		XLSXPath:     getEnv("XLSX_PATH", "entries.xlsx"),
		UseMock:      os.Getenv("USE_MOCK") == "true",

		SupabaseEnabled: os.Getenv("SUPABASE_ENABLED") == "true",
		DatabaseURL:     os.Getenv("DATABASE_URL"),

		MailHost: getEnv("MAIL_HOST", "smtp.gmail.com"),
		MailPort: getEnvInt("MAIL_PORT", 587),
		MailUser: os.Getenv("GMAIL_USER"),
		MailPass: os.Getenv("GMAIL_APP_PASSWORD"),
		MailFrom: getEnv("MAIL_FROM", os.Getenv("GMAIL_USER")),

		AMQPURL: os.Getenv("AMQP_URL"),

		PageSize:    getEnvInt("PAGE_SIZE", 50),
		MaxInFlight: getEnvInt("MAX_IN_FLIGHT", 5),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		QRDir:          getEnv("QR_DIR", "qr"),
		TicketDir:      getEnv("TICKET_DIR", "ticket"),
		BaseTicketPath: getEnv("BASE_TICKET_PATH", "public/base_ticket.png"),
		FontPath:       getEnv("FONT_PATH", "public/fonts/CinzelDecorative-Bold.ttf"),
		TemplatePath:   getEnv("MAIL_TEMPLATE_PATH", "templates/ticket_email.html"),
		DeskLabel:      getEnv("DESK_LABEL", "Desk F"),

		Port: getEnv("PORT", "8080"),
	}
}

// SheetName is the part of Range before the "!".
func (c *Config) SheetName() string {
	name, _, _ := strings.Cut(c.Range, "!")
	return name
}

// SheetsReady reports whether the live store can be configured at all.
func (c *Config) SheetsReady() bool {
	return c.SpreadsheetID != "" && c.ServiceAccountEmail != "" && c.ServiceAccountPrivateKey != ""
}

// ValidateSheets fails fast, before any network call, when the live store is
// selected but credentials are incomplete.
func (c *Config) ValidateSheets() error {
	if !c.SheetsReady() {
		return errors.New("missing Google Sheets environment variables: set GOOGLE_SHEETS_SPREADSHEET_ID, GOOGLE_SERVICE_ACCOUNT_EMAIL and GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY")
	}
	return nil
}

// ValidateMail reports whether an SMTP account is configured at all. The
// sender runs the same check before each dispatch run.
func (c *Config) ValidateMail() error {
	if c.MailUser == "" || c.MailPass == "" {
		return errors.New("missing mail environment variables: set GMAIL_USER and GMAIL_APP_PASSWORD")
	}
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
