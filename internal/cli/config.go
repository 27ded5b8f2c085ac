package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mcoot/festivalboard/internal/config"
)

// Flags are the global CLI flags. A flag only overrides the environment
// when it is set explicitly.
type Flags struct {
	Backend    string
	APIBaseURL string
	SlotStore  string
	Profile    string
	Output     string
	Verbose    bool
}

func (f *Flags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.Backend, "backend", "", "Player backend: local, remote (env: FESTIVAL_BACKEND)")
	pf.StringVar(&f.APIBaseURL, "api", "", "Players service URL (env: FESTIVAL_API_BASE_URL)")
	pf.StringVar(&f.SlotStore, "store", "", "Profile store: memory, sqlite, redis (env: FESTIVAL_SLOT_STORE)")
	pf.StringVar(&f.Profile, "profile", "", "SQLite profile path (env: FESTIVAL_PROFILE)")
	pf.StringVarP(&f.Output, "output", "o", "", "Output format: text, json (env: FESTIVAL_OUTPUT)")
	pf.BoolVarP(&f.Verbose, "verbose", "v", false, "Verbose output")
}

// settings loads the environment and applies explicitly set flags on top
func (f *Flags) settings(cmd *cobra.Command) (config.Client, error) {
	s, err := config.LoadClient()
	if err != nil {
		return config.Client{}, err
	}

	pf := cmd.Flags()
	if pf.Changed("backend") {
		s.Backend = f.Backend
	}
	if pf.Changed("api") {
		s.APIBaseURL = f.APIBaseURL
	}
	if pf.Changed("store") {
		s.SlotStore = f.SlotStore
	}
	if pf.Changed("profile") {
		s.ProfilePath = f.Profile
	}
	if pf.Changed("output") {
		s.Output = f.Output
	}
	if pf.Changed("verbose") {
		s.Verbose = f.Verbose
	}
	return s, s.Validate()
}

// newLogger writes human-readable logs to w. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
