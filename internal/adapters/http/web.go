package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"swingadmin/internal/adapters/email"
	"swingadmin/internal/adapters/http/middleware"
	accountStore "swingadmin/internal/adapters/storage/account"
	messageStore "swingadmin/internal/adapters/storage/message"
	metricsStore "swingadmin/internal/adapters/storage/metrics"
	profileStore "swingadmin/internal/adapters/storage/profile"
)

// Stores holds all storage dependencies.
type Stores struct {
	ProfileStore profileStore.Store
	MessageStore messageStore.Store
	AccountStore accountStore.Store
	MetricsStore metricsStore.Store
}

// loadCSRFKey reads the CSRF secret from SWING_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("SWING_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("SWING_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("SWING_ENV") == "production" {
		log.Fatal("SWING_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set SWING_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global admin gate instance (set by NewMux)
var adminGate *middleware.AdminGate

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires HTTP handlers for the app.
// PRE: adminEmail is non-empty; s holds initialized stores
func NewMux(staticDir, adminEmail string, s *Stores) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	adminGate = middleware.NewAdminGate(adminEmail, middleware.StoreResolver{Sessions: sessions})
	middleware.SecureCookies = os.Getenv("SWING_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
