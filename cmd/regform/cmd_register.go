package main

import (
	"context"
	"errors"
	"fmt"

	"regform/cmd/regform/ui"
	"regform/internal/config"
	"regform/internal/geo"
	"regform/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var noWatch bool

// registerCmd runs the interactive form
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Fill in a registration interactively",
	Long: `Opens the registration form in the terminal.

Keys:
  tab / shift+tab   move between fields (leaving the phone field looks it up)
  left / right      change the gender selection
  ctrl+l            fill latitude and longitude from the host
  enter / ctrl+s    submit
  esc               quit

The config file is watched while the form is open; a new base_url takes
effect for the next request.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the config file while running")
	rootCmd.Flags().AddFlagSet(registerCmd.Flags())
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sess, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}

	theme := ui.ThemeFor(cfg.UI.Theme)
	renderer, err := ui.NewMarkdownRenderer(theme, 72)
	if err != nil {
		logging.Get(logging.CategoryUI).Warn("Markdown renderer unavailable", zap.Error(err))
		renderer = nil
	}

	page := ui.NewFormPage(ctx, sess.initialState(cfg), sess.runner, ui.FormPageOptions{
		Styles:   ui.NewStyles(theme),
		Preview:  geo.MapPreview{EmbedURL: cfg.Map.EmbedURL, Zoom: cfg.Map.Zoom},
		Renderer: renderer,
	})
	prog := tea.NewProgram(page, tea.WithContext(ctx), tea.WithAltScreen())

	g, gctx := errgroup.WithContext(ctx)
	if !noWatch {
		watcher, err := config.NewWatcher(cfgPath, func(c *config.Config) {
			sess.client.SetBaseURL(c.Client.BaseURL)
			opts := formOptions(c)
			prog.Send(ui.ConfigReloadedMsg{Note: "config reloaded", Options: &opts})
		})
		if err != nil {
			logging.Get(logging.CategoryConfig).Warn("Config watcher disabled", zap.Error(err))
		} else {
			g.Go(func() error {
				if err := watcher.Run(gctx); err != nil {
					// Losing hot reload is not worth ending the form.
					logging.Get(logging.CategoryConfig).Warn("Config watcher stopped", zap.Error(err))
				}
				return nil
			})
		}
	}
	g.Go(func() error {
		// Leaving the form stops the watcher.
		defer cancel()
		_, err := prog.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	err = g.Wait()
	submitted := page.State().Submitted
	sess.close(submitted)
	if err != nil {
		return fmt.Errorf("form: %w", err)
	}
	return nil
}
