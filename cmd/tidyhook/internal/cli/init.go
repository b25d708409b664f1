package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/detect"
	"github.com/albertocavalcante/tidyhook/pkg/config"
)

var initFlags struct {
	languages []string
	check     bool
	dryRun    bool
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a tidyhook.toml for a project",
	Long: `Creates a tidyhook.toml in the project root, enabling the dialects
found in the tree.

Use --check to verify configuration without making changes (useful for CI).
Use --dry-run to preview the file without writing it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringSliceVarP(&initFlags.languages, "languages", "l", nil,
		"Dialects to enable (auto-detected if not specified)")
	initCmd.Flags().BoolVar(&initFlags.check, "check", false,
		"Check if the project is configured (exit 1 if not)")
	initCmd.Flags().BoolVar(&initFlags.dryRun, "dry-run", false,
		"Show what would be written without applying")

	rootCmd.AddCommand(initCmd)
}

// projectFile is the subset of Config that init writes.
type projectFile struct {
	Languages config.LanguagesConfig `toml:"languages"`
	Strip     config.StripConfig     `toml:"strip"`
	Limits    config.LimitsConfig    `toml:"limits"`
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	languages := initFlags.languages
	if len(languages) == 0 {
		if languages, err = detect.Languages(absPath); err != nil {
			return fmt.Errorf("failed to detect languages: %w", err)
		}
	}
	for _, lang := range languages {
		if !slices.Contains(config.AllLanguages, lang) {
			return fmt.Errorf("unknown dialect %q: must be one of %s", lang, strings.Join(config.AllLanguages, ", "))
		}
	}

	out := cmd.OutOrStdout()
	if len(languages) == 0 {
		fmt.Fprintln(out, "No supported languages detected. Use --languages to specify manually.")
		return nil
	}
	fmt.Fprintf(out, "Languages: %s\n", strings.Join(languages, ", "))

	target := filepath.Join(absPath, config.ConfigFileName)
	existing := existingConfig(absPath)

	if initFlags.check {
		return runInitCheck(out, absPath, existing, languages)
	}

	content, err := generateConfig(languages)
	if err != nil {
		return err
	}

	switch {
	case existing != "":
		fmt.Fprintf(out, "%s already exists (skipping)\n", existing)
	case initFlags.dryRun:
		fmt.Fprintf(out, "Would create %s:\n\n%s", target, content)
	default:
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", config.ConfigFileName, err)
		}
		fmt.Fprintf(out, "Created %s\n", target)
	}
	return nil
}

// existingConfig returns the project config file in dir, if any.
func existingConfig(dir string) string {
	for _, path := range config.GetProjectConfigPaths(dir) {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// generateConfig renders a project file enabling languages.
func generateConfig(languages []string) (string, error) {
	defaults := config.NewConfig()
	file := projectFile{
		Languages: config.LanguagesConfig{
			Enabled:  languages,
			Disabled: []string{},
		},
		Strip:  config.StripConfig{Exclude: []string{}},
		Limits: defaults.Limits,
	}

	var buf bytes.Buffer
	buf.WriteString("# tidyhook configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(file); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.String(), nil
}

func runInitCheck(out io.Writer, dir, existing string, languages []string) error {
	var issues []string

	if existing == "" {
		issues = append(issues, fmt.Sprintf("no %s found in %s", config.ConfigFileName, dir))
	} else {
		cfg := config.LoadFrom(dir)
		for _, lang := range languages {
			if !cfg.IsLanguageEnabled(lang) {
				issues = append(issues, fmt.Sprintf("%s files present but the dialect is not enabled", lang))
			}
		}
	}

	if len(issues) > 0 {
		fmt.Fprintln(out, "Project configuration issues:")
		for _, issue := range issues {
			fmt.Fprintf(out, "  - %s\n", issue)
		}
		return errors.New("project is not configured; run 'tidyhook init' to fix")
	}

	fmt.Fprintln(out, "Project is properly configured")
	return nil
}
