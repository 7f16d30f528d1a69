package ui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/gennadis/pdfchatui/internal/chat"
	"github.com/gennadis/pdfchatui/internal/session"
	"github.com/gennadis/pdfchatui/internal/status"
	"github.com/gennadis/pdfchatui/internal/upload"
)

const (
	helpText     = "enter send • tab browse files • ctrl+u upload • pgup/pgdn scroll • esc cancel • ctrl+c quit"
	emptyChat    = "No messages yet\nUpload a PDF and start asking questions!"
	noDocument   = "No PDF loaded"
	noSelection  = "No file selected (tab to browse)"
	thinkingText = "Thinking..."
)

func (m Model) View() string {
	st := m.styles
	var b strings.Builder

	b.WriteString(st.Title.Render("PDF Chat Assistant") + "\n")
	b.WriteString(st.Subtitle.Render("Upload your PDF and start asking questions") + "\n\n")

	b.WriteString(st.Section.Render("Upload PDF") + "\n")
	if m.focus == focusPicker {
		b.WriteString(m.picker.View() + "\n")
	}
	b.WriteString(pendingLine(m.uploads.Pending()) + "\n")
	if m.uploads.Busy() {
		b.WriteString(m.spinner.View() + " Uploading...\n")
	} else if m.uploads.Pending() == nil {
		b.WriteString(st.Disabled.Render("[ctrl+u] Upload PDF") + "\n")
	} else {
		b.WriteString(st.Button.Render("[ctrl+u] Upload PDF") + "\n")
	}
	if banner := renderStatus(m.banner.Current(), st); banner != "" {
		b.WriteString(banner + "\n")
	}
	b.WriteString("\n")

	b.WriteString(st.Section.Render("Chat") + "  " + st.Session.Render(sessionIndicator(m.session.Current())) + "\n")
	b.WriteString(m.viewport.View() + "\n")
	if m.chats.Busy() {
		b.WriteString(m.spinner.View() + " " + thinkingText + "\n")
	}
	b.WriteString(m.input.View() + "\n")
	b.WriteString(st.Muted.Render(helpText))

	return b.String()
}

func sessionIndicator(s session.Session) string {
	if !s.Active() {
		return noDocument
	}
	return "ID: " + s.Short()
}

func pendingLine(p *upload.PendingFile) string {
	if p == nil {
		return noSelection
	}
	return fmt.Sprintf("Selected: %s (%s)", p.Name, formatSize(p.Size))
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func renderStatus(s *status.Status, st Styles) string {
	if s == nil {
		return ""
	}
	if s.Kind == status.KindSuccess {
		return st.Success.Render("✔ " + s.Message)
	}
	return st.Error.Render("✖ " + s.Message)
}

// renderTranscript is a pure function of msgs; rendering the same slice
// twice yields the same text.
func renderTranscript(msgs []chat.Message, st Styles, r *glamour.TermRenderer) string {
	if len(msgs) == 0 {
		return st.Muted.Render(emptyChat)
	}

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		switch msg.Sender {
		case chat.SenderUser:
			b.WriteString(st.UserLabel.Render("You") + "\n")
			b.WriteString(st.UserText.Render(msg.Text) + "\n")
		default:
			b.WriteString(st.BotLabel.Render("Assistant") + "\n")
			b.WriteString(renderMarkdown(r, msg.Text) + "\n")
		}
	}
	return b.String()
}

func renderMarkdown(r *glamour.TermRenderer, text string) string {
	if r == nil {
		return "  " + text
	}
	out, err := r.Render(text)
	if err != nil {
		slog.Warn("failed to render markdown", "error", err)
		return "  " + text
	}
	return strings.TrimRight(out, "\n")
}

// resolveGlamourStyle picks the markdown style once, before the program
// owns the terminal. Background detection queries the tty, which must not
// happen inside Update.
func resolveGlamourStyle(style string, tty bool, hasDarkBackground func() bool) string {
	switch {
	case style != "":
		return style
	case !tty:
		return styles.NoTTYStyle
	case hasDarkBackground():
		return styles.DarkStyle
	default:
		return styles.LightStyle
	}
}

func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func newRenderer(style string, width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		slog.Error("Failed to create markdown renderer", "style", style, "error", err)
		return nil
	}
	return r
}
