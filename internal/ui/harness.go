package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness drives the UI model programmatically for integration tests.
// Commands run inline; sink traffic is drained after every step instead of
// being awaited, and no backend watcher is started.
type Harness struct {
	model *Model
	quit  bool
}

// NewHarness creates a harness for the provided model. Start runs Init.
func NewHarness(model *Model) *Harness {
	if model != nil {
		model.synchronous = true
	}
	return &Harness{model: model}
}

// Start runs the model's Init command.
func (h *Harness) Start() {
	if h.model == nil {
		return
	}
	h.processCmd(h.model.Init())
	h.drain()
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	h.deliver(msg)
	h.drain()
}

// Type sends each rune of text as a key press.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Submit types line and presses enter.
func (h *Harness) Submit(line string) {
	h.Type(line)
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

func (h *Harness) deliver(msg tea.Msg) {
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
	case tea.QuitMsg:
		h.quit = true
	case tea.BatchMsg:
		for _, c := range msg {
			h.processCmd(c)
		}
	default:
		h.deliver(msg)
	}
}

// drain applies everything posted to the sink until it is empty.
func (h *Harness) drain() {
	for {
		select {
		case msg := <-h.model.sink:
			h.deliver(sinkMsg{msg: msg})
		default:
			return
		}
	}
}

// Flush applies messages posted from outside the harness, such as a
// disconnect callback fired by a fake client.
func (h *Harness) Flush() {
	h.drain()
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
