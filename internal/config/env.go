package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	// TicketSecret keys the HMAC over ticket payloads. The process must not
	// start without it; a missing secret would make every issued ticket
	// forgeable.
	TicketSecret string
	JWTSecret    string

	// IssueOnPending allows bookings to receive a scannable ticket before the
	// payment is confirmed ("reserve now, pay at boarding"). Default on.
	IssueOnPending bool

	CORSOrigins []string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	dbHost := strings.TrimSpace(os.Getenv("DB_HOST"))
	if dbHost == "" {
		dbHost = "127.0.0.1:3306"
	}
	dbUser := strings.TrimSpace(os.Getenv("DB_USER"))
	if dbUser == "" {
		dbUser = "root"
	}
	dbName := strings.TrimSpace(os.Getenv("DB_NAME"))
	if dbName == "" {
		dbName = "busline"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "dev-only-jwt-secret"
	}

	issueOnPending := true
	if v := strings.TrimSpace(os.Getenv("TICKET_ISSUE_ON_PENDING")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			issueOnPending = b
		}
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	return Env{
		AppAddr:        appAddr,
		GinMode:        strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:         dbUser,
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         dbHost,
		DBName:         dbName,
		TicketSecret:   strings.TrimSpace(os.Getenv("TICKET_SECRET")),
		JWTSecret:      jwtSecret,
		IssueOnPending: issueOnPending,
		CORSOrigins:    origins,
	}
}

// MustLoadEnv loads the environment and refuses to start without a ticket
// signing secret. A per-call fallback is not acceptable for the secret.
func MustLoadEnv() Env {
	env := LoadEnv()
	if env.TicketSecret == "" {
		log.Fatal("TICKET_SECRET is required")
	}
	return env
}
