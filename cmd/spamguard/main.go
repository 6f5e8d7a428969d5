package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/app"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/detect"
)

func main() {
	showVersion := flag.Bool("version", false, "print the build version and exit")
	checkRules := flag.String("check-rules", "", "validate a detector rules file and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(app.BuildVersion)
		return
	}
	if *checkRules != "" {
		n, err := countRules(*checkRules)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %d rules ok\n", *checkRules, n)
		return
	}

	cfg := app.LoadConfig()

	// Refuse to start on a broken rules file rather than fall back silently
	if cfg.DetectorConfig != "" {
		if _, err := countRules(cfg.DetectorConfig); err != nil {
			log.Fatalf("detector rules: %v", err)
		}
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

// countRules loads and compiles a detector rules file.
func countRules(path string) (int, error) {
	cfg, err := detect.LoadRules(path)
	if err != nil {
		return 0, err
	}
	rules, err := cfg.Build()
	if err != nil {
		return 0, err
	}
	return len(rules), nil
}
