package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/theirongolddev/cxdash/internal/chat"
	"github.com/theirongolddev/cxdash/internal/remote"
	"github.com/theirongolddev/cxdash/internal/tui/components"
	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// chatReplyMsg carries the outcome of one chat request.
type chatReplyMsg struct {
	answer string
	err    error
}

// chatState holds the chat tab state. The session owns the log; the
// viewport only displays it.
type chatState struct {
	session  *chat.Session
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
}

func newChatState() chatState {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return chatState{
		session:  chat.NewSession(),
		input:    ti,
		viewport: viewport.New(60, 10),
		spinner:  sp,
	}
}

// chatBoxWidth is the chat card width used for viewport layout.
func (a App) chatBoxWidth() int {
	return components.CardInnerWidth(a.contentWidth())
}

// syncChatViewport resizes the log viewport to the window and refreshes its
// content. The view follows new messages when it was already at the bottom
// or when follow is set.
func (a *App) syncChatViewport(follow bool) {
	w := a.chatBoxWidth()
	// header 2, tab card title 1, borders 2, input 2, hint 1, status 1
	h := max(a.contentHeight()-7, 3)

	atBottom := a.chat.viewport.AtBottom()
	a.chat.viewport.Width = w
	a.chat.viewport.Height = h
	a.chat.input.Width = max(w-4, 10)
	a.chat.viewport.SetContent(a.renderChatLog(w))
	if follow || atBottom {
		a.chat.viewport.GotoBottom()
	}
}

func (a App) updateChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return a.switchTab(tabSettings)
	case "shift+tab":
		return a.switchTab(tabProjects)
	case "esc":
		return a.switchTab(tabOverview)
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		a.chat.viewport, cmd = a.chat.viewport.Update(msg)
		return a, cmd
	case "enter":
		return a.submitChat()
	}

	var cmd tea.Cmd
	a.chat.input, cmd = a.chat.input.Update(msg)
	return a, cmd
}

// submitChat sends the input as a question. Blank input and input while a
// reply is outstanding are ignored and leave the text in place.
func (a App) submitChat() (tea.Model, tea.Cmd) {
	q, err := a.chat.session.SubmitErr(a.chat.input.Value())
	if err != nil {
		if errors.Is(err, chat.ErrBusy) {
			a.log.Debug("chat submit ignored while awaiting reply")
		}
		return a, nil
	}
	a.chat.input.Reset()
	a.syncChatViewport(true)
	return a, tea.Batch(askCmd(a.remote, q), a.chat.spinner.Tick)
}

func (a App) resolveChat(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.log.Warn("chat request failed", "err", msg.err)
	}
	a.chat.session.Resolve(msg.answer, msg.err)
	a.syncChatViewport(true)
	return a, nil
}

// askCmd relays a question. The client bounds the request with its timeout,
// so the reply message always arrives.
func askCmd(c *remote.Client, question string) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return chatReplyMsg{err: remote.ErrNotConfigured}
		}
		answer, err := c.Ask(context.Background(), question)
		return chatReplyMsg{answer: answer, err: err}
	}
}

func (a App) renderChatLog(w int) string {
	t := theme.Active
	userLabel := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	botLabel := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(w)
	failStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Width(w)
	timeStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	msgs := a.chat.session.Messages()
	if len(msgs) == 0 && !a.chat.session.Busy() {
		return mutedStyle.Render("Ask about your projects. Questions go to the configured chat endpoint.")
	}

	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := botLabel.Render("Assistant")
		style := textStyle
		if m.Sender == chat.User {
			label = userLabel.Render("You")
		}
		if m.Failed {
			style = failStyle
		}
		b.WriteString(label + timeStyle.Render("  "+m.At.Format("15:04")))
		b.WriteString("\n")
		b.WriteString(style.Render(m.Text))
	}

	if a.chat.session.Busy() {
		b.WriteString("\n\n")
		b.WriteString(botLabel.Render("Assistant"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(a.chat.spinner.View() + " Typing..."))
	}
	return b.String()
}

func (a App) renderChatTab(cw int) string {
	t := theme.Active
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	innerW := components.CardInnerWidth(cw)

	var body strings.Builder
	body.WriteString(a.chat.viewport.View())
	body.WriteString("\n")
	body.WriteString(sepStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")
	body.WriteString(a.chat.input.View())
	body.WriteString("\n")

	hint := "[Enter] send  [PgUp/PgDn] scroll  [Tab/Esc] leave chat"
	if a.chat.session.Busy() {
		hint = "waiting for reply...  " + hint
	}
	if a.cfg.Remote.ChatURL == "" {
		hint = "chat endpoint not configured (see Settings)  " + hint
	}
	body.WriteString(hintStyle.Render(hint))

	return components.ContentCard("Chat", body.String(), cw)
}
