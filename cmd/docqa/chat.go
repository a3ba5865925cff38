package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docqa/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat <folder>",
	Short: "Index a folder and ask questions in the terminal",
	Long: `Index every PDF and text file in a folder, then open an interactive
terminal chat over it.

Controls:
  Enter       - Ask
  ↑/↓, PgUp   - Scroll the answer
  Ctrl+C      - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

var (
	progress = color.New(color.FgCyan, color.Bold).SprintFunc()
	success  = color.New(color.FgGreen, color.Bold).SprintFunc()
	failure  = color.New(color.FgRed, color.Bold).SprintFunc()
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// the TUI owns the terminal, so logs go to a file unless configured otherwise
	if cfg.Log.Output == "" || cfg.Log.Output == "stderr" || cfg.Log.Output == "stdout" {
		cfg.Log.Output = filepath.Join(os.TempDir(), "docqa.log")
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	comps, err := newComponents(cfg, log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", progress("Indexing"), args[0])
	p, err := comps.builder.Build(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("index %s: %w", args[0], err)
	}
	fmt.Fprintf(out, "%s %d chunks from %d documents\n", success("Indexed"), p.ChunkCount(), len(p.Documents()))

	title := fmt.Sprintf("docqa: %d chunks from %v", p.ChunkCount(), p.Documents())
	m := tui.New(cmd.Context(), p, title, p.Summary())
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
