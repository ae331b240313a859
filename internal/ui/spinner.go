// Package ui holds the small terminal widgets the CLI commands share.
package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"golang.org/x/term"
)

// Spinner shows a one-line animation while a data source call is in flight
type Spinner struct {
	message string
	done    chan struct{}
	stopped sync.WaitGroup
	once    sync.Once
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		done:    make(chan struct{}),
	}
}

func interactive() bool {
	return !styles.IsAccessible() && term.IsTerminal(int(os.Stdout.Fd()))
}

// Start begins the spinner animation in the background
func (s *Spinner) Start() {
	// Accessible mode or non-TTY: just print static message
	if !interactive() {
		fmt.Println(s.message + "...")
		return
	}

	s.stopped.Add(1)
	go func() {
		defer s.stopped.Done()
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		style := lipgloss.NewStyle().Foreground(styles.Accent)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.done:
				fmt.Print("\r\033[K")
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", styles.Render(style, frames[i%len(frames)]), s.message)
			}
		}
	}()
}

// Stop stops the spinner and waits for the line to be cleared
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	s.stopped.Wait()
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(msg string) {
	s.Stop()
	fmt.Println(styles.SuccessMsg(msg))
}

// Error stops the spinner and shows an error message
func (s *Spinner) Error(msg string) {
	s.Stop()
	fmt.Println(styles.ErrorMsg(msg))
}

// Run wraps fn in a spinner. The spinner is cleared before Run returns.
func Run(message string, fn func() error) error {
	s := NewSpinner(message)
	s.Start()
	err := fn()
	s.Stop()
	return err
}

// Progress is a bar for batched work such as seeding rows
type Progress struct {
	total   int
	current int
	label   string
	width   int
}

// NewProgress creates a new progress bar
func NewProgress(label string, total int) *Progress {
	return &Progress{
		label: label,
		total: max(total, 1),
		width: 30,
	}
}

// Add advances the bar by n and renders
func (p *Progress) Add(n int) {
	p.current = min(p.current+n, p.total)
	p.render()
}

func (p *Progress) render() {
	if !interactive() {
		fmt.Printf("%s: %d of %d\n", p.label, p.current, p.total)
		return
	}

	pct := float64(p.current) / float64(p.total)
	filled := int(pct * float64(p.width))

	bar := styles.Render(lipgloss.NewStyle().Foreground(styles.Success), strings.Repeat("█", filled)) +
		styles.Render(lipgloss.NewStyle().Foreground(styles.Muted), strings.Repeat("░", p.width-filled))

	fmt.Printf("\r%s %s %3d%% [%d/%d]", p.label, bar, int(pct*100), p.current, p.total)
}

// Done finishes the progress bar
func (p *Progress) Done() {
	p.current = p.total
	p.render()
	if interactive() {
		fmt.Println()
	}
}
