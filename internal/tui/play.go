package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"selecquest/internal/play"
	"selecquest/internal/storage"
)

// RunPlay runs the idle screen for rec until the player quits.
func RunPlay(ctx context.Context, svc *play.Service, rec *storage.HeroRecord, out io.Writer) error {
	m, err := newPlayModel(ctx, svc, *rec)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(playModel); ok {
		*rec = fm.rec
	}
	return err
}
