package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"draftui/config"
	"draftui/editor"
	"draftui/field"
	"draftui/plugin"
	"draftui/repository"
	"draftui/storage"
	"draftui/ui"
	"draftui/view"
)

const (
	Version = "v0.01.00"

	pingTimeout = 10 * time.Second
)

var languageFlag string

func main() {
	root := &cobra.Command{
		Use:           "draftui",
		Short:         "Edit content drafts of a content repository in the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&languageFlag, "lang", "", "Language code of the edited translation (default from config)")

	root.AddCommand(newEditCmd(), newCreateCmd(), newSeedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <contentId>...",
		Short: "Edit the current version of one or more contents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := make([]editor.Target, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid content id %q", arg)
				}
				targets = append(targets, editor.Target{ContentID: id})
			}
			return runEditor(targets)
		},
	}
}

func newCreateCmd() *cobra.Command {
	var (
		contentType string
		parent      int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a content and save it as a draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor([]editor.Target{{ContentTypeIdentifier: contentType, ParentLocationID: parent}})
		},
	}

	cmd.Flags().StringVar(&contentType, "type", "", "Content type identifier (default from config)")
	cmd.Flags().IntVar(&parent, "parent", 0, "Parent location id (default from config)")

	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill the local repository with sample content types and contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Backend != config.BackendLocal {
				return fmt.Errorf("seeding needs the %s backend, not %s", config.BackendLocal, cfg.Backend)
			}
			repo, err := storage.NewLocalRepository(cfg.DataDir())
			if err != nil {
				return fmt.Errorf("failed to open local repository: %w", err)
			}
			defer repo.Close()
			if err := repo.Seed(cmd.Context(), cfg.LanguageCode); err != nil {
				return err
			}
			fmt.Printf("Local repository ready in %s\n", cfg.DataDir())
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if languageFlag != "" {
		cfg.LanguageCode = languageFlag
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())
	return cfg, nil
}

// openClient connects to the configured repository. The local backend is
// seeded on first use.
func openClient(ctx context.Context, cfg *config.Config) (repository.Client, func() error, error) {
	var (
		client repository.Client
		closer = func() error { return nil }
	)

	switch cfg.Backend {
	case config.BackendREST:
		rest, err := repository.NewRESTClient(cfg.BaseURL, cfg.Username, cfg.Password)
		if err != nil {
			return nil, nil, err
		}
		client = rest
	default:
		local, err := storage.NewLocalRepository(cfg.DataDir())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local repository: %w", err)
		}
		if err := local.Seed(ctx, cfg.LanguageCode); err != nil {
			local.Close()
			return nil, nil, err
		}
		client, closer = local, local.Close
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		closer()
		return nil, nil, fmt.Errorf("failed to reach the repository: %w", err)
	}
	return client, closer, nil
}

func runEditor(targets []editor.Target) error {
	cfg, err := loadConfig()
	if err != nil {
		return showError("Configuration Error", err)
	}

	kb, err := config.LoadKeybindings(cfg.DataDir())
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Warn().Err(err).Msg("falling back to default keybindings")
		}
		kb = config.DefaultKeybindings()
	}
	if ok, warning := kb.Validate(); !ok {
		if config.DebugLog != nil {
			config.DebugLog.Warn().Str("reason", warning).Msg("invalid keybindings, using defaults")
		}
		kb = config.DefaultKeybindings()
	} else if warning != "" && config.DebugLog != nil {
		config.DebugLog.Warn().Msg(warning)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, closeClient, err := openClient(ctx, cfg)
	if err != nil {
		return showError("Repository Error", err)
	}
	defer closeClient()

	for i := range targets {
		if targets[i].LanguageCode == "" {
			targets[i].LanguageCode = cfg.LanguageCode
		}
		if targets[i].ContentID == 0 {
			if targets[i].ContentTypeIdentifier == "" {
				targets[i].ContentTypeIdentifier = cfg.ContentTypeIdentifier
			}
			if targets[i].ParentLocationID == 0 {
				targets[i].ParentLocationID = cfg.ParentLocationID
			}
		}
	}

	loop := view.NewLoop(ctx)
	plugins := view.NewPluginRegistry()
	plugin.Register(plugins, plugin.Options{SavedTimeout: cfg.NotificationTimeout})
	animator := ui.NewFadeAnimator(loop)
	defer animator.Stop()

	app := ui.NewAppView(ui.Options{
		Keys:    kb,
		Env:     &view.Env{Loop: loop, Plugins: plugins, Animator: animator},
		Client:  client,
		Fields:  field.NewDefaultRegistry(),
		Targets: targets,
		Backend: cfg.Backend,
	})

	if config.DebugLog != nil {
		config.DebugLog.Info().Str("backend", cfg.Backend).Str("language", cfg.LanguageCode).
			Int("targets", len(targets)).Msg("starting editor")
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}

// showError displays err in a modal, then returns it.
func showError(title string, err error) error {
	p := tea.NewProgram(ui.NewErrorModal(title, err), tea.WithAltScreen())
	if _, runErr := p.Run(); runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
	}
	return err
}
