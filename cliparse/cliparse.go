package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	CSRFSalt     string

	// Assessment flow
	CatalogPath     string
	SaveURL         string
	RewindURL       string
	NextQuestionURL string
	EvidenceURL     string
	BackHref        string
	BackText        string
}

// ParseFlags loads .env, then validates flags with env fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fset := flag.NewFlagSet("assessment-path", flag.ContinueOnError)

	fset.StringVar(&envFile, "env", ".env", "Dotenv file to load before reading env vars")

	// Network config (can be CLI args or env)
	fset.IntVar(&cfg.Port, "p", 0, "Server port")
	fset.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fset.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fset.StringVar(&cfg.CSRFSalt, "csrf-salt", "", "CSRF token salt (prefer env)")

	fset.StringVar(&cfg.CatalogPath, "catalog", "", "Question catalog JSON file")
	fset.StringVar(&cfg.SaveURL, "save-url", "", "Endpoint that persists finished paths")
	fset.StringVar(&cfg.RewindURL, "rewind-url", "", "Endpoint notified when later answers are invalidated")
	fset.StringVar(&cfg.NextQuestionURL, "next-url", "", "Endpoint serving next-question fragments")
	fset.StringVar(&cfg.EvidenceURL, "evidence-url", "", "Evidence upload URL returned by the save endpoint")
	fset.StringVar(&cfg.BackHref, "back-href", "", "Secondary link shown beside the evidence upload action")
	fset.StringVar(&cfg.BackText, "back-text", "", "Label of the secondary link")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	// Existing environment variables win over the file
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.CSRFSalt == "" {
		cfg.CSRFSalt = os.Getenv("CSRF_SALT")
	}
	if cfg.CSRFSalt == "" {
		return Config{}, errors.New("CSRF_SALT required")
	}

	fallback(&cfg.CatalogPath, "CATALOG_PATH")
	fallback(&cfg.SaveURL, "SAVE_URL")
	fallback(&cfg.RewindURL, "REWIND_URL")
	fallback(&cfg.NextQuestionURL, "NEXT_QUESTION_URL")
	fallback(&cfg.EvidenceURL, "EVIDENCE_URL")
	fallback(&cfg.BackHref, "BACK_HREF")
	fallback(&cfg.BackText, "BACK_TEXT")

	// The service hosts its own save endpoint unless another is configured
	if cfg.SaveURL == "" {
		cfg.SaveURL = fmt.Sprintf("http://localhost:%d/results", cfg.Port)
	}

	return cfg, nil
}

func fallback(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}
