package output

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

// Outcome is the result of trying to save an export
type Outcome string

const (
	// OutcomeSuccess means the file was written
	OutcomeSuccess Outcome = "success"

	// OutcomeCancelled means the user declined to save
	OutcomeCancelled Outcome = "cancelled"

	// OutcomeFailed means the write failed
	OutcomeFailed Outcome = "failed"

	// OutcomeDisabled means saving is turned off in the configuration
	OutcomeDisabled Outcome = "disabled"
)

// Message returns the user-facing text for o.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return "Export successful"
	case OutcomeCancelled:
		return "Export cancelled"
	case OutcomeFailed:
		return "Export failed"
	case OutcomeDisabled:
		return "File save disabled by options"
	default:
		return string(o)
	}
}

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1D7F3A", Dark: "#5FD787"})
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#FFD75F"})
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#B42318", Dark: "#FF5F5F"})
	detailStyle  = lipgloss.NewStyle().Faint(true)
)

// Render styles the outcome message for the terminal. detail is appended on
// its own line when not empty.
func (o Outcome) Render(detail string) string {
	var style lipgloss.Style
	switch o {
	case OutcomeSuccess:
		style = successStyle
	case OutcomeFailed:
		style = failStyle
	default:
		style = warnStyle
	}

	msg := style.Render(o.Message())
	if detail != "" {
		msg = lipgloss.JoinVertical(lipgloss.Left, msg, detailStyle.Render(detail))
	}
	return msg
}

// Saver confirms and writes an export
type Saver struct {
	writer    FileWriter
	confirmer Confirmer
	enabled   bool
}

// NewSaver creates a Saver. With enabled false nothing is ever written.
func NewSaver(writer FileWriter, confirmer Confirmer, enabled bool) *Saver {
	return &Saver{writer: writer, confirmer: confirmer, enabled: enabled}
}

// Save writes data to path after confirmation. The returned error is only
// set for OutcomeFailed.
func (s *Saver) Save(path string, data []byte) (Outcome, error) {
	if !s.enabled {
		return OutcomeDisabled, nil
	}

	ok, err := s.confirmer.Confirm(path)
	if err != nil {
		slog.Error("Confirmation failed", "path", path, "error", err)
		return OutcomeFailed, err
	}
	if !ok {
		slog.Info("Save declined", "path", path)
		return OutcomeCancelled, nil
	}

	if err := s.writer.Write(path, data); err != nil {
		slog.Error("Failed to save export", "path", path, "error", err)
		return OutcomeFailed, err
	}

	slog.Info("Export saved", "path", path, "bytes", len(data))
	return OutcomeSuccess, nil
}
