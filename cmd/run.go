package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizreplay/internal/app"
	"github.com/abhisek/quizreplay/internal/config"
	"github.com/abhisek/quizreplay/internal/explain"
	"github.com/abhisek/quizreplay/internal/extract"
	"github.com/abhisek/quizreplay/internal/llm"
	"github.com/abhisek/quizreplay/internal/parser"
	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/screen"
	"github.com/abhisek/quizreplay/internal/session"
	"github.com/abhisek/quizreplay/internal/store"
	"github.com/abhisek/quizreplay/internal/weakness"
)

// runApp opens the store, builds dependencies, and launches the TUI with
// files queued for an immediate start.
func runApp(cmd *cobra.Command, files []string) error {
	if err := checkReports(files); err != nil {
		return err
	}
	closeLog, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := newServices(cmd.Context(), st, cfg)
	return app.Run(app.Options{Services: svc, InitialFiles: files})
}

// newServices wires the quiz pipeline onto st. Explanations are enabled only
// when cfg allows them and an LLM provider is configured.
func newServices(ctx context.Context, st *store.Store, cfg config.Config) *screen.Services {
	r := quiz.NewRand(cfg.Seed)
	tracker := weakness.NewTracker(st.KV(), cfg.WeaknessKey)
	events := st.EventRepo()

	svc := &screen.Services{
		Parser:       parser.New(extract.New(extract.DefaultLayout, r)),
		Tracker:      tracker,
		Reducer:      session.NewReducer(tracker),
		Rand:         r,
		Events:       events,
		HistoryLimit: cfg.HistoryLimit,
	}

	if !cfg.Explain {
		return svc
	}
	llmCfg := llm.ConfigFromEnv()
	if !llmCfg.Enabled() {
		return svc
	}
	if ctx == nil {
		ctx = context.Background()
	}
	provider, err := llm.NewProvider(ctx, llmCfg, events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Answer explanations will be unavailable.")
		return svc
	}
	svc.Explainer = explain.New(provider, explain.DefaultConfig())
	return svc
}

// setupLogging sends the standard logger to the --debug file. Without it
// log output is discarded so it cannot corrupt the TUI.
func setupLogging(cmd *cobra.Command) (func(), error) {
	path, _ := cmd.Flags().GetString("debug")
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "quizreplay")
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return func() { f.Close() }, nil
}

// checkReports rejects any argument that is not an .xlsx file before the
// store or the TUI is touched.
func checkReports(args []string) error {
	for _, a := range args {
		if err := parser.CheckFileType(a); err != nil {
			return err
		}
	}
	return nil
}
