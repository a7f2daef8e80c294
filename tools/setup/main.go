// Command setup provisions the yoSSO data directory: the branding
// configuration and the shared session configuration that applications
// behind the broker rely on. Existing files are merged rather than
// clobbered; values already present win and missing fields get defaults.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atinyakov/yosso/internal/config"
)

func main() {
	dataDir := flag.String("data", "data", "path to the data directory")
	flag.Parse()

	if err := run(*dataDir); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(dataDir string) error {
	fmt.Println("yoSSO Setup")
	fmt.Println("-----------")

	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	fmt.Printf("Data directory %q ready.\n", dataDir)

	if err := provisionBranding(filepath.Join(dataDir, "config.json")); err != nil {
		return err
	}
	if err := provisionSession(filepath.Join(dataDir, "session.json")); err != nil {
		return err
	}

	fmt.Println("Setup complete.")
	return nil
}

// provisionBranding writes the branding config, merging an existing file
// with defaults for any missing field.
func provisionBranding(path string) error {
	existed := fileExists(path)

	branding, err := config.LoadBranding(path)
	if err != nil {
		return err
	}
	if err := writeJSON(path, branding); err != nil {
		return err
	}

	report(path, existed)
	return nil
}

// provisionSession writes the shared session config the same way.
func provisionSession(path string) error {
	existed := fileExists(path)

	sessionCfg, err := config.LoadSession(path)
	if err != nil {
		return err
	}
	if err := writeJSON(path, sessionCfg); err != nil {
		return err
	}

	report(path, existed)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o640)
}

func report(path string, existed bool) {
	if existed {
		fmt.Printf("Merged existing %s.\n", filepath.Base(path))
	} else {
		fmt.Printf("Created %s with defaults.\n", filepath.Base(path))
	}
}
