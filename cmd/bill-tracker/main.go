package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/bill-tracker/internal/extract"
	"github.com/zombor/bill-tracker/internal/mail"
	"github.com/zombor/bill-tracker/internal/tracker"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("bill-tracker")
	var (
		imapHost     = fs.StringLong("imap-host", "imap.gmail.com", "IMAP server hostname")
		imapPort     = fs.IntLong("imap-port", 993, "IMAP server port")
		imapUser     = fs.StringLong("imap-user", "", "IMAP account username")
		imapPass     = fs.StringLong("imap-pass", "", "IMAP account password (or set BILL_TRACKER_IMAP_PASS)")
		imapFolder   = fs.StringLong("imap-folder", "INBOX", "Mailbox folder to scan")
		imapInsecure = fs.BoolLong("imap-insecure", "Connect without TLS")
		lookbackDays = fs.IntLong("lookback-days", 30, "How many days of mail to scan (1-90)")
		maxBills     = fs.IntLong("max-bills", 100, "Maximum bills retained per snapshot (10-500)")
		scanInterval = fs.DurationLong("scan-interval", 30*time.Minute, "Time between mailbox polls (5m-24h)")
		port         = fs.IntLong("port", 8080, "HTTP server port")
		dbPath       = fs.StringLong("db", "bill-tracker.db", "Database file path")
		authUser     = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass     = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("BILL_TRACKER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *imapUser == "" {
		slog.Error("IMAP username is required. Set --imap-user or BILL_TRACKER_IMAP_USER")
		os.Exit(1)
	}
	if *imapPass == "" {
		slog.Error("IMAP password is required. Set --imap-pass or BILL_TRACKER_IMAP_PASS")
		os.Exit(1)
	}
	if *scanInterval < 5*time.Minute || *scanInterval > 24*time.Hour {
		slog.Error("Scan interval out of range", "interval", *scanInterval, "valid", "5m to 24h")
		os.Exit(1)
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := tracker.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize mailbox
	mailbox := mail.NewIMAPMailbox(mail.IMAPConfig{
		Host:     *imapHost,
		Port:     *imapPort,
		Username: *imapUser,
		Password: *imapPass,
		Folder:   *imapFolder,
		Insecure: *imapInsecure,
	})

	// Initialize service
	dispatcher := extract.NewDispatcher(extract.DefaultExtractors()...)
	service, err := tracker.NewService(mailbox, dispatcher, db, tracker.Options{
		LookbackDays: *lookbackDays,
		MaxBills:     *maxBills,
	})
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start poller in goroutine
	poller := tracker.NewPoller(service, *scanInterval)
	go poller.Run(ctx)

	// Initialize server
	basicAuth := tracker.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := tracker.NewServer(service, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}
	slog.Info("Polling mailbox",
		"folder", *imapFolder,
		"interval", *scanInterval,
		"lookback_days", *lookbackDays,
	)

	<-ctx.Done()
	slog.Info("Shutting down...")
}
