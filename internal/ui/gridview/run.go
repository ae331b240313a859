package gridview

import (
	"context"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dealflow/dealgrid/internal/grid"
)

// DebugEnv names a file that receives the viewer's debug log.
const DebugEnv = "DEALGRID_DEBUG"

// Run opens the interactive grid on the alternate screen and blocks until
// the user quits. The controller keeps its state afterwards.
func Run(ctx context.Context, ctl *grid.Controller, src grid.DataSource, opts Options) error {
	if path := os.Getenv(DebugEnv); path != "" {
		f, err := tea.LogToFile(path, "dealgrid")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(New(ctx, ctl, src, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
