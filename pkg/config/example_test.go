package config_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/halhen/jsonlite/pkg/config"
)

// ExampleDefault shows the defaults every run starts from.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Format: %s\n", cfg.Output.Format)
	fmt.Printf("Orientation: %s\n", cfg.Output.Orientation)
	fmt.Printf("Max depth: %d\n", cfg.Simplify.MaxDepth)

	// Output:
	// Format: json
	// Orientation: columns
	// Max depth: 64
}

// ExampleConfig_Validate shows how to validate a configuration
// before using it.
func ExampleConfig_Validate() {
	cfg := config.Default()
	cfg.Output.Format = "parquet"
	cfg.Output.Compression = "zstd"

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	fmt.Println("Configuration is valid!")

	cfg.Output.Format = "xml"
	fmt.Println(cfg.Validate() != nil)

	// Output:
	// Configuration is valid!
	// true
}

// ExampleLoad demonstrates loading configuration from a YAML file
// with environment variable substitution.
func ExampleLoad() {
	dir, err := os.MkdirTemp("", "jsonlite-config")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	os.Setenv("EXAMPLE_FORMAT", "avro")
	defer os.Unsetenv("EXAMPLE_FORMAT")

	path := filepath.Join(dir, "jsonlite.yaml")
	content := "output:\n  format: ${EXAMPLE_FORMAT}\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(cfg.Output.Format, cfg.Output.Orientation)

	// Output:
	// avro columns
}
