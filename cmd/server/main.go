package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "fjorlistinn/internal/adapters/email"
	web "fjorlistinn/internal/adapters/http"
	"fjorlistinn/internal/adapters/http/perf"
	"fjorlistinn/internal/adapters/storage"
	accountStorePkg "fjorlistinn/internal/adapters/storage/account"
	attendanceStorePkg "fjorlistinn/internal/adapters/storage/attendance"
	centerStorePkg "fjorlistinn/internal/adapters/storage/center"
	commentStorePkg "fjorlistinn/internal/adapters/storage/comment"
	maintenanceStorePkg "fjorlistinn/internal/adapters/storage/maintenance"
	midstigStorePkg "fjorlistinn/internal/adapters/storage/midstig"
	milestoneStorePkg "fjorlistinn/internal/adapters/storage/milestone"
	scheduleStorePkg "fjorlistinn/internal/adapters/storage/schedule"
	studentStorePkg "fjorlistinn/internal/adapters/storage/student"
	"fjorlistinn/internal/application/orchestrators"
	accountDomain "fjorlistinn/internal/domain/account"
	centerDomain "fjorlistinn/internal/domain/center"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// WAL mode, foreign keys, and a busy timeout keep SQLite happy under
	// concurrent check-ins from several kiosks.
	dbPath := envOrDefault("FJOR_DB_PATH", "fjorlistinn.db")
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

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStorePkg.NewSQLiteStore(timedDB)
	cntrStore := centerStorePkg.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:     acctStore,
		CenterStore:      cntrStore,
		StudentStore:     studentStorePkg.NewSQLiteStore(timedDB),
		ScheduleStore:    scheduleStorePkg.NewSQLiteStore(timedDB),
		LedgerStore:      attendanceStorePkg.NewSQLiteStore(timedDB),
		MidstigStore:     midstigStorePkg.NewSQLiteStore(timedDB),
		CommentStore:     commentStorePkg.NewSQLiteStore(timedDB),
		MilestoneStore:   milestoneStorePkg.NewSQLiteStore(timedDB),
		MaintenanceStore: maintenanceStorePkg.NewSQLiteStore(timedDB),
	}

	if err := seedCenters(cntrStore); err != nil {
		log.Fatalf("failed to seed centers: %v", err)
	}

	if err := seedAdmin(acctStore); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}

	// Configure email sender for activity reports
	resendKey := os.Getenv("FJOR_RESEND_API_KEY")
	emailFrom := envOrDefault("FJOR_EMAIL_FROM", "Fjörlistinn <noreply@fjorlistinn.is>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if os.Getenv("FJOR_ENV") == "production" {
			log.Println("WARNING: FJOR_RESEND_API_KEY is not set, activity report delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set FJOR_RESEND_API_KEY for real delivery)")
		}
	}

	mux := web.NewMux(stores, collector)

	addr := ":" + envOrDefault("PORT", "8080")
	log.Printf("Fjörlistinn %s starting on %s (env=%s)", version, addr, envOrDefault("FJOR_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// seedCenters inserts the municipality's community centers. Save is an
// upsert, so repeated startups are harmless.
func seedCenters(store centerStorePkg.Store) error {
	for _, c := range centerDomain.Defaults() {
		if err := store.Save(context.Background(), c); err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin creates the reserved admin account on first startup.
func seedAdmin(store accountStorePkg.Store) error {
	password := os.Getenv("FJOR_ADMIN_PASSWORD")
	if password == "" {
		if os.Getenv("FJOR_ENV") == "production" {
			return errors.New("FJOR_ADMIN_PASSWORD is required in production")
		}
		password = "breyta-strax"
		log.Println("WARNING: using default admin password. Set FJOR_ADMIN_PASSWORD.")
	}

	_, err := orchestrators.ExecuteCreateAccount(context.Background(), orchestrators.CreateAccountInput{
		Username:    "admin",
		DisplayName: "Kerfisstjóri",
		Password:    password,
		Role:        accountDomain.RoleAdmin,
	}, orchestrators.CreateAccountDeps{AccountStore: store})
	if errors.Is(err, orchestrators.ErrUsernameTaken) {
		return nil
	}
	return err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
