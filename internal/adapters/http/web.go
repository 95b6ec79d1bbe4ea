package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"fjorlistinn/internal/adapters/email"
	"fjorlistinn/internal/adapters/http/middleware"
	"fjorlistinn/internal/adapters/http/perf"
	accountStore "fjorlistinn/internal/adapters/storage/account"
	attendanceStore "fjorlistinn/internal/adapters/storage/attendance"
	centerStore "fjorlistinn/internal/adapters/storage/center"
	commentStore "fjorlistinn/internal/adapters/storage/comment"
	maintenanceStore "fjorlistinn/internal/adapters/storage/maintenance"
	midstigStore "fjorlistinn/internal/adapters/storage/midstig"
	milestoneStore "fjorlistinn/internal/adapters/storage/milestone"
	scheduleStore "fjorlistinn/internal/adapters/storage/schedule"
	studentStore "fjorlistinn/internal/adapters/storage/student"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore     accountStore.Store
	CenterStore      centerStore.Store
	StudentStore     studentStore.Store
	ScheduleStore    scheduleStore.Store
	LedgerStore      attendanceStore.Store
	MidstigStore     midstigStore.Store
	CommentStore     commentStore.Store
	MilestoneStore   milestoneStore.Store
	MaintenanceStore maintenanceStore.Store
}

// loadCSRFKey reads the CSRF secret from FJOR_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("FJOR_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("FJOR_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("FJOR_ENV") == "production" {
		log.Fatal("FJOR_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set FJOR_CSRF_KEY for production.")
	return key
}

// loadJWTKey reads the token signing secret from FJOR_JWT_KEY.
// In production, the key MUST be set. In development, a random key is
// generated per startup, so issued tokens die with the process.
func loadJWTKey() []byte {
	if key := os.Getenv("FJOR_JWT_KEY"); key != "" {
		if len(key) < 32 {
			log.Fatal("FJOR_JWT_KEY must be at least 32 characters")
		}
		return []byte(key)
	}
	if os.Getenv("FJOR_ENV") == "production" {
		log.Fatal("FJOR_JWT_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate JWT key: %v", err)
	}
	log.Println("WARNING: using random JWT key (tokens won't survive restart). Set FJOR_JWT_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global token issuer instance (set by NewMux)
var tokenIssuer *middleware.TokenIssuer

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// SetEmailSender sets the global email sender for the application. The
// from-address is configured on the sender itself.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	tokenIssuer = middleware.NewTokenIssuer(loadJWTKey())

	mux := http.NewServeMux()
	mux.HandleFunc("/api", handleAPI)
	mux.HandleFunc("/healthz", handleHealth)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Request path: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(tokenIssuer),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
