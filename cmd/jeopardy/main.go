package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/abrezinsky/jeopardy/internal/app"
	"github.com/abrezinsky/jeopardy/internal/browser"
	"github.com/abrezinsky/jeopardy/internal/config"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/pkg/oracle"
	"github.com/abrezinsky/jeopardy/web"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	blue      = "\033[34m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	bold      = "\033[1m"
)

var (
	version = "dev"
)

// showBanner prints the logo and, unless skipped, reveals the board values
// row by row
func showBanner(skipReveal bool) {
	width := 62
	border := strings.Repeat("═", width)

	logo := []string{
		"       _                                _       _ ",
		"      | | ___  ___  _ __   __ _ _ __ __| |_   _| |",
		"   _  | |/ _ \\/ _ \\| '_ \\ / _` | '__/ _` | | | | |",
		"  | |_| |  __/ (_) | |_) | (_| | | | (_| | |_| |_|",
		"   \\___/ \\___|\\___/| .__/ \\__,_|_|  \\__,_|\\__, (_)",
		"                   |_|                    |___/   ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", blue, border, reset)
	for _, line := range logo {
		line = "     " + line
		for len(line) < width {
			line += " "
		}
		fmt.Printf("  %s║%s%s%s║%s\n", blue, yellow, line, blue, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n", blue, border, reset)

	if skipReveal {
		fmt.Print("\n")
		return
	}

	fmt.Printf(moveUp, 1)
	fmt.Printf("%s  %s╠%s╣%s\n", clearLine, blue, border, reset)

	// Six columns of $200 through $1,000, lit one row at a time
	for row := 1; row <= 5; row++ {
		cell := fmt.Sprintf("$%d", row*200)
		if row == 5 {
			cell = "$1,000"
		}
		line := ""
		for col := 0; col < 6; col++ {
			line += fmt.Sprintf(" %8s ", cell)
		}
		for len(line) < width {
			line += " "
		}
		fmt.Printf("  %s║%s%s%s%s║%s\n", blue, bold, yellow, line, blue, reset)
		time.Sleep(80 * time.Millisecond)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", blue, border, reset)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	next := logger.NextLevel(appLog.GetLevel())
	appLog.SetLevel(next)
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, strings.ToLower(next.String()), reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %so%s      - Open the game in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

func main() {
	// .env and environment first; flags override
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite clue bank path")
	corpusPath := flag.String("corpus", cfg.CorpusPath, "JSON corpus imported when the clue bank is empty")
	generate := flag.Bool("generate", cfg.Generate, "Generate boards with the question model")
	logLevel := flag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	importPath := flag.String("import", "", "Replace the clue bank with this JSON corpus and exit")
	noAnimate := flag.Bool("noanimate", false, "Show logo only, skip the board reveal")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Jeopardy! - single player trivia with an LLM judge

Usage:
  jeopardy [options]

Options:
  -port int        HTTP server port (default 8080, env PORT)
  -db string       SQLite clue bank path (default "jeopardy.db", env DB_PATH)
  -corpus string   Corpus imported into an empty clue bank (env CORPUS_PATH)
  -generate        Generate boards with the question model (env GENERATE_JEOPARDY_QUESTIONS)
  -loglevel str    Log level: debug, info, warn, error (default "info", env LOG_LEVEL)
  -import string   Replace the clue bank with a JSON corpus and exit
  -noanimate       Show logo only, skip the board reveal
  -nokeyboard      Disable keyboard shortcuts
  -version         Show version and exit
  -help            Show this help message

Environment:
  GOOGLE_API_KEY   Gemini API key (required)
  ANSWER_MODEL     Model that grades responses
  QUESTION_MODEL   Model that writes generated boards
  ORACLE_TIMEOUT   Per-call oracle deadline, e.g. 30s
  DRAFT_CLEAR_DELAY  How long a submitted response stays visible, e.g. 500ms
  BASE_URL         Address encoded in share QR codes

Keyboard Shortcuts (when enabled):
  o                Open the game in browser
  h                Toggle HTTP request logging
  l                Cycle log level (debug → info → warn → error)
  q                Quit server
  ?                Show keyboard help

Examples:
  jeopardy                                   # Run on port 8080 with jeopardy.db
  jeopardy -port 9000 -generate              # Generated boards on port 9000
  jeopardy -import JEOPARDY_QUESTIONS1.json  # Reload the clue bank

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("jeopardy %s\n", version)
		os.Exit(0)
	}

	cfg.Port = *port
	cfg.DBPath = *dbPath
	cfg.CorpusPath = *corpusPath
	cfg.Generate = *generate
	cfg.LogLevel = *logLevel

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	if *importPath != "" {
		if err := runImport(appLog, cfg, *importPath); err != nil {
			log.Fatal("Import failed: ", err)
		}
		return
	}

	showBanner(*noAnimate)

	if cfg.GoogleAPIKey == "" {
		log.Fatalf("%s is not set; the answer oracle needs a Gemini API key", config.EnvGoogleAPIKey)
	}
	grader, err := oracle.NewGeminiClient(context.Background(), cfg.GeminiConfig(), appLog)
	if err != nil {
		log.Fatal("Failed to create oracle client: ", err)
	}
	defer grader.Close()

	a, err := app.New(appLog, cfg, grader, web.GetTemplatesFS(), web.GetStaticFS())
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	// Wait a moment for server to start
	time.Sleep(100 * time.Millisecond)

	gameURL := browser.GameURL(fmt.Sprintf("http://localhost:%d", cfg.Port), "")
	appLog.Info("Game URL", "url", gameURL, "lan_url", browser.GameURL(a.BaseURL(), ""))

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if !*noKeyboard && interactive {
		printKeyboardHelp()
		keys := newShortcuts(gameURL, appLog, a.Close)
		go listenForKeyboard(keys)
	} else if !interactive {
		appLog.Debug("Stdin is not a terminal, keyboard shortcuts off")
	} else {
		fmt.Printf("\n%sKeyboard shortcuts disabled (use -nokeyboard=false to enable)%s\n\n", yellow, reset)
	}

	if err := <-serverErr; err != nil {
		log.Fatal(err)
	}
}
