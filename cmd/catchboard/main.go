package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/mhruby/catchboard/internal/app"
	"github.com/mhruby/catchboard/internal/auth"
	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/pkg/scoreboard"
)

var version = "dev"

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	// Optional .env for venue deployments where flags are awkward.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("CATCHBOARD_PORT", 8081), "HTTP server port")
	dbPath := flag.String("db", envString("CATCHBOARD_DB", "tournament.db"), "SQLite database path")
	adminPw := flag.String("adminpw", os.Getenv("CATCHBOARD_ADMIN_PW"), "Admin password (auto-generated if not set)")
	judgePw := flag.String("judgepw", os.Getenv("CATCHBOARD_JUDGE_PW"), "Judge password (auto-generated if not set)")
	upstreamURL := flag.String("scoreboard", os.Getenv("CATCHBOARD_SCOREBOARD_URL"), "Scoreboard service base URL")
	upstreamToken := flag.String("scoreboard-token", os.Getenv("CATCHBOARD_SCOREBOARD_TOKEN"), "Scoreboard service API token")
	logLevel := flag.String("loglevel", envString("CATCHBOARD_LOGLEVEL", "info"), "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Catchboard - Fishing Tournament Scoring System

Usage:
  catchboard [options]

Options:
  -port int              HTTP server port (default 8081)
  -db string             SQLite database path (default "tournament.db")
  -adminpw str           Admin password (auto-generated if not set)
  -judgepw str           Judge password (auto-generated if not set)
  -scoreboard str        Scoreboard service base URL
  -scoreboard-token str  Scoreboard service API token
  -loglevel str          Log level: debug, info, warn, error (default "info")
  -version               Show version and exit
  -help                  Show this help message

Every flag can also be set through the environment (CATCHBOARD_PORT,
CATCHBOARD_DB, CATCHBOARD_ADMIN_PW, CATCHBOARD_JUDGE_PW,
CATCHBOARD_SCOREBOARD_URL, CATCHBOARD_SCOREBOARD_TOKEN,
CATCHBOARD_LOGLEVEL), including via a .env file in the working
directory.

Examples:
  catchboard                                  # Run on port 8081 with tournament.db
  catchboard -port 8080                       # Run on port 8080
  catchboard -db /data/cup2026.db             # Use custom database path
  catchboard -scoreboard https://live.example.org
  catchboard -adminpw hq-secret -judgepw bank-secret

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("catchboard %s\n", version)
		os.Exit(0)
	}

	adminPassword := *adminPw
	if adminPassword == "" {
		adminPassword = auth.GeneratePassword()
	}
	judgePassword := *judgePw
	if judgePassword == "" {
		judgePassword = auth.GeneratePassword()
	}
	sessionAuth := auth.New(adminPassword, judgePassword)

	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	client := scoreboard.NewHTTPClient(*upstreamURL, appLog)
	if *upstreamToken != "" {
		client.SetToken(*upstreamToken)
	}
	if *upstreamURL == "" {
		appLog.Warn("No scoreboard URL configured, live mirroring stays queued until one is set")
	}

	a, err := app.New(appLog, *dbPath, client, sessionAuth)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	appLog.Info("Admin password", "password", adminPassword)
	appLog.Info("Judge password", "password", judgePassword)

	addr := fmt.Sprintf(":%d", *port)
	if err := a.Run(addr); err != nil {
		log.Fatal(err)
	}
}
