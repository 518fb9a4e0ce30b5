// Package main provides the CLI entrypoint for keyrhythm.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"keyrhythm/internal/analysis"
	"keyrhythm/internal/analysisui"
	"keyrhythm/internal/config"
	"keyrhythm/internal/export"
	"keyrhythm/internal/generator"
	"keyrhythm/internal/model"
	"keyrhythm/internal/store"
	"keyrhythm/internal/tui"
	"keyrhythm/internal/wordlist"
)

const (
	defaultOwner    = "local"
	defaultLang     = "en"
	defaultMode     = "duration"
	defaultDuration = 60
	defaultWords    = 25
	defaultCaps     = 0.15
	defaultPunct    = 0.15
)

const defaultPunctSet = ".,!?;:\"'{}()[]-=/<>`"

var (
	practiceOwner    string
	practiceLang     string
	practiceMode     string
	practiceDuration int
	practiceWords    int
	practiceCaps     float64
	practicePunct    float64
	practicePunctSet string
	practiceWordlist string

	analyzeFile  string
	analyzeJSON  bool
	analyzePlain bool

	sessionsOwner string

	exportOut string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keyrhythm",
		Short:         "Typing trainer with keystroke-timing analytics",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceOwner, "owner", defaultOwner, "owner id recorded on sessions")
	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code")
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "session mode: duration or words")
	rootCmd.Flags().IntVar(&practiceDuration, "duration", defaultDuration, "session length in seconds (duration mode)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per text")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().StringVar(&practiceWordlist, "wordlist", "", "word list file (default: built-in list)")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "owner", &practiceOwner, fileCfg.Practice.Owner)
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyIntConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)

	cfg := model.Config{
		Owner:    practiceOwner,
		Lang:     practiceLang,
		Mode:     model.Mode(practiceMode),
		Duration: practiceDuration,
		Words:    practiceWords,
		CapsPct:  practiceCaps,
		PunctPct: practicePunct,
		PunctSet: practicePunctSet,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	words, err := loadPracticeWords(cfg.Lang, practiceWordlist)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m := tui.NewModel(cfg, st, generator.New(), words)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadPracticeWords(lang, override string) ([]string, error) {
	path := override
	if path == "" {
		path = config.DefaultWordListPath(lang)
		if _, err := os.Stat(path); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to stat word list: %w", err)
			}
			// No downloaded list for this language; use the built-in one.
			return wordlist.Default(), nil
		}
	}
	words, err := wordlist.LoadWords(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list %s: %w", path, err)
	}
	keep := wordlist.FilterForLang(lang)
	filtered := wordlist.Filter(words, keep)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("word list %s has no usable words", path)
	}
	return filtered, nil
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [session-id]",
		Short: "Analyze a stored or exported session",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().StringVar(&analyzeFile, "file", "", "read the session from an exported JSON file")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw analysis report as JSON")
	cmd.Flags().BoolVar(&analyzePlain, "plain", false, "print plain text instead of the interactive browser")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	rec, err := resolveRecord(args)
	if err != nil {
		return err
	}
	report, err := analysis.Run(&rec)
	if err != nil {
		return fmt.Errorf("cannot analyze session %s: %w", rec.SessionID, err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	if analyzePlain {
		return analysisui.RenderReport(cmd.OutOrStdout(), &rec, report, analysisui.TerminalWidth())
	}

	m := analysisui.NewModel(&rec, report)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run analysis TUI: %w", err)
	}
	return nil
}

func resolveRecord(args []string) (model.SessionRecord, error) {
	if analyzeFile != "" {
		return export.ReadRecord(analyzeFile)
	}
	if len(args) == 0 {
		return model.SessionRecord{}, fmt.Errorf("provide a session id or --file")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return st.GetSession(context.Background(), args[0])
}

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCmd,
	}
	cmd.Flags().StringVar(&sessionsOwner, "owner", "", "filter by owner id")
	return cmd
}

func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sessions, err := st.ListSessions(context.Background(), sessionsOwner)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
		return err
	}
	for _, s := range sessions {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s/%d  %.0f CPM  %.1f%%  %s\n",
			s.SessionID,
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.Mode,
			s.ModeValue,
			s.ProductiveCPM,
			s.AccuracyPercent,
			s.OwnerID,
		); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a session record to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOut, "out", "", "output path (default: exports dir)")
	return cmd
}

func runExportCmd(_ *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	rec, err := st.GetSession(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch session: %w", err)
	}
	out := exportOut
	if out == "" {
		out = filepath.Join(config.DefaultExportDir(), rec.SessionID+".json")
	}
	if err := export.WriteRecord(out, rec); err != nil {
		return err
	}
	logErrf("Wrote %s\n", out)
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import an exported session record into the store",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(_ *cobra.Command, args []string) error {
	rec, err := export.ReadRecord(args[0])
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.CreateSession(context.Background(), rec); err != nil {
		return fmt.Errorf("failed to import session: %w", err)
	}
	logErrf("Imported %s\n", rec.SessionID)
	return nil
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a stored session",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteCmd,
	}
}

func runDeleteCmd(_ *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.DeleteSession(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List downloaded word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	wordlistDir := config.DefaultWordListDir()
	entries, err := os.ReadDir(wordlistDir)
	if err != nil {
		if os.IsNotExist(err) {
			_, werr := fmt.Fprintln(cmd.OutOrStdout(), defaultLang+" (built-in)")
			return werr
		}
		return fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	langs := []string{defaultLang + " (built-in)"}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	sort.Strings(langs[1:])
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keyrhythm configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# owner = %q            # Owner id recorded on sessions
# lang = %q             # Language code
# mode = %q             # Session mode: duration or words
# duration = %d         # Session length in seconds (duration mode)
# words = %d            # Words per text
# caps = %.2f           # Probability of capitalized first letter (0-1)
# punct = %.2f          # Punctuation probability per word (0-1)
# punct-set = %q        # Punctuation set
`,
		defaultOwner,
		defaultLang,
		defaultMode,
		defaultDuration,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Mode != model.ModeDuration && cfg.Mode != model.ModeWords {
		return fmt.Errorf("--mode must be %q or %q", model.ModeDuration, model.ModeWords)
	}
	if cfg.Mode == model.ModeDuration && cfg.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
