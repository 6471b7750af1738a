package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"

	"github.com/legistyr/termbench/internal/dataset"
)

// dataDirCandidates are checked in order for dataset files when suggesting
// a default data directory.
var dataDirCandidates = []string{"data", "datasets", "."}

// detectDataDir looks for LegISTyr dataset files in well-known locations.
func detectDataDir() (dir string, found int) {
	for _, dir := range dataDirCandidates {
		matches, _ := filepath.Glob(filepath.Join(dir, dataset.FilePrefix+"*.csv"))
		if len(matches) > 0 {
			return dir, len(matches)
		}
	}
	return "data", 0
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .termbench.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to termbench! Let's configure your benchmark runs.")
	fmt.Println()

	cfg := DefaultConfig()

	// Detect dataset files.
	dataDir, found := detectDataDir()
	if found > 0 {
		fmt.Printf("Detected %d dataset file(s) under %s\n\n", found, dataDir)
	}

	// 1. Default model.
	modelPrompt := promptui.Select{
		Label: "Select default model",
		Items: SuggestedModels,
	}
	_, model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	cfg.Model = model

	// 2. Concurrency ceiling.
	concurrentPrompt := promptui.Prompt{
		Label:    "Maximum concurrent requests",
		Default:  strconv.Itoa(cfg.MaxConcurrent),
		Validate: validatePositiveInt,
	}
	concurrentStr, err := concurrentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("concurrency: %w", err)
	}
	cfg.MaxConcurrent, _ = strconv.Atoi(concurrentStr)

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Dataset directory",
		Default: dataDir,
	}
	cfg.DataDir, err = dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 4. Output directories.
	csvPrompt := promptui.Prompt{
		Label:   "CSV output directory",
		Default: cfg.CSVDir,
	}
	cfg.CSVDir, err = csvPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("csv dir: %w", err)
	}

	txtPrompt := promptui.Prompt{
		Label:   "TXT output directory",
		Default: cfg.TXTDir,
	}
	cfg.TXTDir, err = txtPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("txt dir: %w", err)
	}

	// Check for API key.
	if os.Getenv(APIKeyEnvVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running termbench run.\n", APIKeyEnvVar)
	}

	// Save to .termbench.yml.
	configPath := ".termbench.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// validatePositiveInt rejects wizard input that is not a positive integer.
func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("enter a positive integer")
	}
	return nil
}
