package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/newton/internal/viz"
	"github.com/spf13/cobra"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	st, err := buildSetup(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(st.bundle.Name, st.bundle.Func, st.solver, st.start, cfg.NewtonConfig(st.bundle))

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
