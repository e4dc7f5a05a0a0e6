package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/squealx"
	_ "modernc.org/sqlite"

	"github.com/oarkflow/permits"
	"github.com/oarkflow/permits/stores"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "convert":
		handleConvert()
	case "validate":
		handleValidate()
	case "stats":
		handleStats()
	case "seed":
		handleSeed()
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("permits-config - Configuration tool for permits")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  permits-config convert <input> <output>  - Convert between formats")
	fmt.Println("  permits-config validate <file>           - Validate configuration")
	fmt.Println("  permits-config stats <file>              - Show configuration statistics")
	fmt.Println("  permits-config seed <file> <sqlite-db>   - Seed a SQLite policy database")
	fmt.Println()
	fmt.Println("Supported formats: .yaml, .yml, .json")
}

func handleConvert() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: permits-config convert <input> <output>")
		os.Exit(1)
	}

	inputFile := os.Args[2]
	outputFile := os.Args[3]

	cfg, err := loadConfig(inputFile)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := saveConfig(cfg, outputFile); err != nil {
		fmt.Printf("Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Converted %s -> %s\n", inputFile, outputFile)
}

func handleValidate() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: permits-config validate <file>")
		os.Exit(1)
	}

	filename := os.Args[2]
	cfg, err := loadConfig(filename)
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	store, _, resolver, err := cfg.Build()
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Configuration is valid\n")
	fmt.Printf("  Version:  %d\n", cfg.Version)
	fmt.Printf("  Policies: %d\n", store.Snapshot().Len())
	fmt.Printf("  Routes:   %d\n", len(resolver.Routes()))
	for _, w := range store.Snapshot().Warnings() {
		fmt.Printf("  Warning: %s\n", w)
	}
}

func handleStats() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: permits-config stats <file>")
		os.Exit(1)
	}

	filename := os.Args[2]
	cfg, err := loadConfig(filename)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	stat, _ := os.Stat(filename)

	fmt.Println("Configuration Statistics")
	fmt.Println("========================")
	if stat != nil {
		fmt.Printf("File size: %d bytes\n", stat.Size())
	}
	fmt.Printf("Version: %d\n", cfg.Version)
	fmt.Println()

	permitCount := 0
	forbidCount := 0
	byResource := make(map[permits.ResourceType]int)
	hierarchical := 0
	for _, p := range cfg.Policies {
		if p.Effect == permits.EffectForbid {
			forbidCount++
		} else {
			permitCount++
		}
		byResource[p.ResourceType]++
		if p.Hierarchy != "" && p.Hierarchy != permits.HierarchyNone {
			hierarchical++
		}
	}

	fmt.Println("Policy Details:")
	fmt.Printf("  Permit policies:       %d\n", permitCount)
	fmt.Printf("  Forbid policies:       %d\n", forbidCount)
	fmt.Printf("  Hierarchy-constrained: %d\n", hierarchical)
	for rt, n := range byResource {
		fmt.Printf("  %-22s %d\n", string(rt)+":", n)
	}
	fmt.Println()

	fmt.Println("Engine Configuration:")
	fmt.Printf("  Decision cache TTL:  %dms\n", cfg.Engine.DecisionCacheTTL)
	fmt.Printf("  Ristretto counters:  %d\n", cfg.Engine.RistrettoNumCounter)
	fmt.Printf("  Ristretto max cost:  %d\n", cfg.Engine.RistrettoMaxCost)
}

func handleSeed() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: permits-config seed <file> <sqlite-db>")
		os.Exit(1)
	}

	filename := os.Args[2]
	dbPath := os.Args[3]

	cfg, err := loadConfig(filename)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	policies := cfg.Policies
	if len(policies) == 0 {
		policies = permits.DefaultPolicies()
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer sqlDB.Close()
	db := squealx.NewDb(sqlDB, "sqlite", "permits")

	if err := stores.Migrate(db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}
	src := stores.NewSQLPolicySource(db)
	if err := src.Seed(context.Background(), policies); err != nil {
		fmt.Printf("Error seeding policies: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d policies into %s\n", len(policies), dbPath)
}

func loadConfig(filename string) (*permits.Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	loader := permits.NewConfigLoader()
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		return loader.LoadYAML(data)
	case ".json":
		return loader.LoadJSON(data)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func saveConfig(cfg *permits.Config, filename string) error {
	var data []byte
	var err error

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		data, err = cfg.ToYAML()
	case ".json":
		data, err = cfg.ToJSON()
	default:
		return fmt.Errorf("unsupported file format: %s", ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
