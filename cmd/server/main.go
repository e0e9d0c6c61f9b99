package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "swingadmin/internal/adapters/email"
	web "swingadmin/internal/adapters/http"
	"swingadmin/internal/adapters/storage"
	accountStore "swingadmin/internal/adapters/storage/account"
	messageStore "swingadmin/internal/adapters/storage/message"
	metricsStore "swingadmin/internal/adapters/storage/metrics"
	profileStore "swingadmin/internal/adapters/storage/profile"
	"swingadmin/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Optional .env for local development; real deployments set env vars directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// The whole admin surface is gated on this single identity.
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		log.Fatalf("ADMIN_EMAIL is required: set it to the address allowed into the admin dashboard")
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("SWING_DB", "swingadmin.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	acctStore := accountStore.NewSQLiteStore(db)
	profStore := profileStore.NewSQLiteStore(db)
	stores := &web.Stores{
		ProfileStore: profStore,
		MessageStore: messageStore.NewSQLiteStore(db),
		AccountStore: acctStore,
		MetricsStore: metricsStore.NewSQLiteStore(db),
	}

	// Seed the admin account (and its profile row) if it does not exist
	adminPassword := envOrDefault("SWING_ADMIN_PASSWORD", "Fairway bunker blues")
	seedDeps := orchestrators.SeedAdminDeps{AccountStore: acctStore, ProfileStore: profStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("SWING_RESEND_KEY")
	emailFrom := envOrDefault("SWING_RESEND_FROM", "My Swing <noreply@myswing.app>")
	emailReply := envOrDefault("SWING_REPLY_TO", "support@myswing.app")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("SWING_ENV") == "production" {
			log.Println("WARNING: SWING_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set SWING_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux("static", adminEmail, stores)

	addr := envOrDefault("SWING_ADDR", ":8080")
	log.Printf("My Swing admin %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("SWING_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
