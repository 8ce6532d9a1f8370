package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

// ConsoleResultReporterRepository prints one line per outcome:
//
//	<symbol> <name>: <path>[:<branch>][: <error>]
//
// Colours are applied only when the writer is a terminal.
type ConsoleResultReporterRepository struct {
	mu     sync.Mutex
	writer io.Writer
	styles map[entities.SyncStatus]lipgloss.Style
}

var _ repositories.ResultReporterRepository = (*ConsoleResultReporterRepository)(nil)

//nolint:gochecknoglobals // read-only lookup table
var symbols = map[entities.SyncStatus]string{
	entities.StatusCloned:   "+",
	entities.StatusUpToDate: "=",
	entities.StatusUpdated:  "^",
	entities.StatusError:    "X",
}

// NewConsoleResultReporterRepository creates a reporter writing to stdout.
func NewConsoleResultReporterRepository() *ConsoleResultReporterRepository {
	return NewConsoleResultReporterRepositoryWithWriter(os.Stdout)
}

// NewConsoleResultReporterRepositoryWithWriter creates a reporter writing to w.
func NewConsoleResultReporterRepositoryWithWriter(w io.Writer) *ConsoleResultReporterRepository {
	renderer := lipgloss.NewRenderer(w)
	return &ConsoleResultReporterRepository{
		writer: w,
		styles: map[entities.SyncStatus]lipgloss.Style{
			entities.StatusCloned:   renderer.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
			entities.StatusUpToDate: renderer.NewStyle().Foreground(lipgloss.Color("241")),
			entities.StatusUpdated:  renderer.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
			entities.StatusError:    renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

func (r *ConsoleResultReporterRepository) Report(outcome entities.SyncOutcome) {
	line := FormatOutcome(outcome)
	symbol, rest, _ := strings.Cut(line, " ")

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.writer, "%s %s\n", r.styles[outcome.Status].Render(symbol), rest)
}

// FormatOutcome renders an outcome without colours.
func FormatOutcome(outcome entities.SyncOutcome) string {
	symbol, ok := symbols[outcome.Status]
	if !ok {
		symbol = "?"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s: %s", symbol, outcome.Repository.Name, outcome.Repository.LocalPath)
	if outcome.Branch != "" {
		fmt.Fprintf(&sb, ":%s", outcome.Branch)
	}
	if outcome.IsError() && outcome.Err != nil {
		fmt.Fprintf(&sb, ": %v", outcome.Err)
	}
	return sb.String()
}
