// Package ui is the terminal front end: a file picker for choosing the PDF,
// an upload status banner, and the chat transcript with its input line.
//
// Update is the single event loop. Controllers are only asked to Begin and
// Finish operations from here; the network work runs inside tea.Cmds.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/gennadis/pdfchatui/internal/chat"
	"github.com/gennadis/pdfchatui/internal/session"
	"github.com/gennadis/pdfchatui/internal/status"
	"github.com/gennadis/pdfchatui/internal/upload"
)

const (
	defaultWidth     = 80
	defaultHeight    = 30
	pickerHeight     = 8
	chromeHeight     = 14 // header, upload section, chat header, input and help
	minVPHeight      = 4
	inputCharLimit   = 4000
	inputPlaceholder = "Ask about the PDF, or say 'calculate 2+2'..."
)

type Options struct {
	// Context bounds every request started from the UI.
	Context   context.Context
	PickerDir string
	// GlamourStyle names a glamour standard style; empty picks dark or
	// light from the terminal background once, in New.
	GlamourStyle string
}

type focusArea int

const (
	focusChat focusArea = iota
	focusPicker
)

type (
	uploadDoneMsg struct {
		op  *upload.Operation
		res upload.Result
	}
	chatDoneMsg struct {
		ex    *chat.Exchange
		reply chat.Reply
	}
)

type Model struct {
	ctx     context.Context
	uploads *upload.Controller
	chats   *chat.Controller
	session *session.Holder
	banner  *status.Banner

	picker   filepicker.Model
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   Styles

	glamourStyle string
	content      string
	focus        focusArea
	width        int
	height       int
}

func New(uploads *upload.Controller, chats *chat.Controller, holder *session.Holder, banner *status.Banner, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	dir := opts.PickerDir
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.CurrentDirectory = dir
	fp.AutoHeight = false
	fp.Height = pickerHeight

	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.CharLimit = inputCharLimit
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(defaultWidth, defaultHeight-chromeHeight)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}

	m := Model{
		ctx:          ctx,
		uploads:      uploads,
		chats:        chats,
		session:      holder,
		banner:       banner,
		picker:       fp,
		input:        ti,
		viewport:     vp,
		spinner:      sp,
		styles:       DefaultStyles(),
		glamourStyle: resolveGlamourStyle(opts.GlamourStyle, stdoutIsTerminal(), lipgloss.HasDarkBackground),
		width:        defaultWidth,
		height:       defaultHeight,
	}
	m.renderer = newRenderer(m.glamourStyle, m.width-6)
	m.layout()
	m.refreshTranscript()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.picker.Init(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderer = newRenderer(m.glamourStyle, m.width-6)
		m.layout()
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyTab:
			m.toggleFocus()
			return m, nil

		case tea.KeyCtrlU:
			return m.startUpload()

		case tea.KeyEsc:
			if m.chats.Cancel() {
				slog.Info("chat request cancelled")
			}
			if m.uploads.Cancel() {
				slog.Info("upload cancelled")
			}
			if m.focus == focusPicker {
				m.toggleFocus()
			}
			return m, nil

		case tea.KeyEnter:
			if m.focus == focusChat {
				return m.startChat()
			}
		}

		if m.focus == focusPicker {
			return m.updatePicker(msg)
		}

		// input is disabled while a reply is pending, the transcript still scrolls
		if !m.chats.Busy() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.uploads.Busy() || m.chats.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case uploadDoneMsg:
		if err := m.uploads.Finish(m.ctx, msg.op, msg.res); err == nil {
			m.picker.Path = ""
		}
		return m, nil

	case chatDoneMsg:
		// a stale reply appends nothing, the refresh is then a no-op
		m.chats.Finish(msg.ex, msg.reply)
		m.refreshTranscript()
		return m, nil
	}

	// directory listings, cursor blinks and mouse events
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		if err := m.uploads.Select(path); err != nil {
			m.banner.Error(err.Error())
		} else {
			m.toggleFocus()
		}
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.banner.Error(fmt.Sprintf("%s is not a PDF file", filepath.Base(path)))
	}
	return m, cmd
}

func (m Model) startUpload() (tea.Model, tea.Cmd) {
	op, err := m.uploads.Begin(m.ctx)
	if err != nil {
		return m, nil
	}

	uploads := m.uploads
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return uploadDoneMsg{op: op, res: uploads.Run(op)}
		},
	)
}

func (m Model) startChat() (tea.Model, tea.Cmd) {
	ex, err := m.chats.Begin(m.ctx, m.input.Value())
	if err != nil {
		return m, nil
	}

	m.input.Reset()
	m.refreshTranscript()

	chats := m.chats
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return chatDoneMsg{ex: ex, reply: chats.Run(ex)}
		},
	)
}

func (m *Model) toggleFocus() {
	if m.focus == focusChat {
		m.focus = focusPicker
		m.input.Blur()
	} else {
		m.focus = focusChat
		m.input.Focus()
	}
	m.layout()
}

func (m *Model) layout() {
	vpHeight := m.height - chromeHeight
	if m.focus == focusPicker {
		vpHeight -= pickerHeight
	}
	if vpHeight < minVPHeight {
		vpHeight = minVPHeight
	}
	m.viewport.Width = m.width - 2
	m.viewport.Height = vpHeight
	m.input.Width = m.width - 6
}

// refreshTranscript re-renders the whole transcript and scrolls to the
// newest message.
func (m *Model) refreshTranscript() {
	m.content = renderTranscript(m.chats.Messages(), m.styles, m.renderer)
	m.viewport.SetContent(m.content)
	m.viewport.GotoBottom()
}

// Run starts the full-screen program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run ui: %w", err)
	}
	return nil
}
