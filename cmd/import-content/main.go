// Package main converts legacy bot data into the current formats: response
// files with "### KEY:" headers become YAML catalogs, and a JSON player file
// is copied into the configured player store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/totorewa/folderbot/internal/config"
	"github.com/totorewa/folderbot/internal/responses"
	"github.com/totorewa/folderbot/internal/storage"
	"github.com/totorewa/folderbot/internal/storage/jsonfile"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	legacyDir := flag.String("responses", "", "directory of legacy .txt response files")
	outputDir := flag.String("output", "content", "directory for the converted YAML catalogs")
	playersPath := flag.String("players", "", "JSON player file to copy into the configured store")
	flag.Parse()

	if *legacyDir == "" && *playersPath == "" {
		fmt.Fprintln(os.Stderr, "usage: import-content [-responses <dir> -output <dir>] [-config <file> -players <file>]")
		os.Exit(1)
	}

	start := time.Now()
	if *legacyDir != "" {
		n, err := convertResponses(*legacyDir, *outputDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("converted %d response files into %s\n", n, *outputDir)
	}
	if *playersPath != "" {
		n, err := copyPlayers(*configPath, *playersPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("copied %d players\n", n)
	}
	fmt.Printf("import complete in %s\n", time.Since(start).Round(time.Millisecond))
}

// convertResponses writes <name>.yaml into out for every <name>.txt in dir.
func convertResponses(dir, out string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return 0, fmt.Errorf("listing %s: %w", dir, err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", out, err)
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("opening %s: %w", path, err)
		}
		catalog, err := responses.ParseLegacy(f)
		f.Close()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		data, err := responses.EncodeCatalog(catalog)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), ".txt") + ".yaml"
		if err := os.WriteFile(filepath.Join(out, name), data, 0o644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return len(paths), nil
}

func copyPlayers(configPath, playersPath string) (int, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return 0, fmt.Errorf("loading config: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	players, err := jsonfile.New(playersPath).LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	opened, err := storage.Open(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer opened.Close()
	if err := opened.Store.SaveAll(ctx, players); err != nil {
		return 0, err
	}
	return len(players), nil
}
