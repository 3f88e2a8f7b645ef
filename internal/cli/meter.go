package cli

import (
	"fmt"
	"pwmeter/internal/pipeline"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	meterTitle    = "Password strength"
	strengthLabel = "Strength:"
	tipsHeading   = "Tips for a stronger password:"
	loadingLabel  = "Loading"
	meterHelp     = "tab/shift+tab to move between fields, esc to quit"
	meterWidth    = 48
)

const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

// MeterStore is the state the meter renders and the setters its inputs
// drive; *pipeline.Store satisfies it
type MeterStore interface {
	SetName(name string) error
	SetEmail(email string) error
	UpdatePassword(password string) error
	Subscribe() (<-chan pipeline.State, func())
}

type MeterOpts struct {
	Store MeterStore

	// Title overrides the heading displayed above the fields
	Title string

	// Name and Email prefill the context fields
	Name  string
	Email string
}

type stateMsg pipeline.State

type storeClosedMsg struct{}

type MeterModel struct {
	store       MeterStore
	states      <-chan pipeline.State
	unsubscribe func()

	title   string
	labels  []string
	inputs  []textinput.Model
	focused int
	state   pipeline.State
	err     error
	width   int

	isExitting bool
}

func NewMeter(opts MeterOpts) *MeterModel {
	title := opts.Title
	if title == "" {
		title = meterTitle
	}
	model := &MeterModel{
		store:  opts.Store,
		title:  title,
		labels: []string{"Name", "Email", "Password"},
	}
	for i, placeholder := range []string{"Jane Doe", "jane@example.com", "type a password"} {
		input := textinput.New()
		input.Width = meterWidth
		input.Placeholder = placeholder
		input.PlaceholderStyle = stylePlaceholder
		input.Prompt = ""
		if i == fieldPassword {
			input.EchoMode = textinput.EchoPassword
			input.EchoCharacter = '*'
		}
		model.inputs = append(model.inputs, input)
	}
	model.setInitialValue(fieldName, opts.Name)
	model.setInitialValue(fieldEmail, opts.Email)
	model.states, model.unsubscribe = opts.Store.Subscribe()
	model.focused = fieldPassword
	if opts.Name == "" {
		model.focused = fieldName
	}
	model.inputs[model.focused].Focus()
	return model
}

func (m *MeterModel) setInitialValue(field int, value string) {
	if value == "" {
		return
	}
	m.inputs[field].SetValue(value)
	m.setStoreValue(field, value)
}

func (m *MeterModel) setStoreValue(field int, value string) {
	var err error
	switch field {
	case fieldName:
		err = m.store.SetName(value)
	case fieldEmail:
		err = m.store.SetEmail(value)
	case fieldPassword:
		err = m.store.UpdatePassword(value)
	}
	if err != nil {
		m.err = fmt.Errorf("failed to update %s: %w", strings.ToLower(m.labels[field]), err)
	}
}

// GetState returns the last state received from the store
func (m *MeterModel) GetState() pipeline.State {
	return m.state
}

func waitForState(states <-chan pipeline.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return storeClosedMsg{}
		}
		return stateMsg(state)
	}
}

func (m *MeterModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForState(m.states))
}

func (m *MeterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = pipeline.State(msg)
		return m, waitForState(m.states)

	case storeClosedMsg:
		m.isExitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.isExitting = true
			m.unsubscribe()
			return m, tea.Quit
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.focus(m.focused - 1)
		case tea.KeyTab, tea.KeyDown, tea.KeyEnter:
			return m, m.focus(m.focused + 1)
		}
	}

	previous := m.inputs[m.focused].Value()
	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	if current := m.inputs[m.focused].Value(); current != previous {
		m.setStoreValue(m.focused, current)
	}
	return m, cmd
}

func (m *MeterModel) focus(index int) tea.Cmd {
	if index < 0 {
		index = len(m.inputs) - 1
	} else if index >= len(m.inputs) {
		index = 0
	}
	m.inputs[m.focused].Blur()
	m.focused = index
	return m.inputs[m.focused].Focus()
}

func (m *MeterModel) getFieldsView() string {
	var view strings.Builder
	labelWidth := 0
	for _, label := range m.labels {
		labelWidth = max(labelWidth, len(label)+1)
	}
	for i, input := range m.inputs {
		label := fmt.Sprintf("%-*s", labelWidth, m.labels[i]+":")
		inputDisplay := styleInput.Render(input.View())
		if i == m.focused {
			label = styleInputLabelFocused.Render(label)
			inputDisplay = styleInputFocused.Render(inputDisplay)
		} else {
			label = styleInputLabel.Render(label)
		}
		fmt.Fprintf(&view, "%s %s\n", label, inputDisplay)
	}
	return view.String()
}

func (m *MeterModel) getResultView() string {
	var view strings.Builder
	score := 0
	warning := ""
	var suggestions []string
	if m.state.Result != nil {
		score = m.state.Result.Score
		warning = m.state.Result.Feedback.Warning
		suggestions = m.state.Result.Feedback.Suggestions
	}
	fmt.Fprintf(&view, "%s %s", strengthLabel, getScoreStyle(score).Render(fmt.Sprintf("%v", score)))
	if m.state.Validating {
		fmt.Fprintf(&view, " %s", styleFaded.Render(loadingLabel+"..."))
	}
	view.WriteString("\n")
	if warning != "" {
		fmt.Fprintf(&view, "%s\n", styleWarning.Render(warning))
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(&view, "\n%s\n", tipsHeading)
		for _, suggestion := range suggestions {
			fmt.Fprintf(&view, "  • %s\n", suggestion)
		}
	}
	if m.state.Err != nil {
		fmt.Fprintf(&view, "\n%s\n", styleError.Render(fmt.Sprintf("❗️ failed to score password: %s", m.state.Err)))
	}
	if m.err != nil {
		fmt.Fprintf(&view, "\n%s\n", styleError.Render(fmt.Sprintf("❗️ %s", m.err)))
	}
	return view.String()
}

func (m *MeterModel) View() string {
	var view strings.Builder
	fmt.Fprintf(&view, "🔐 %s\n\n", styleTitle.Render(m.title))
	view.WriteString(m.getFieldsView())
	view.WriteString("\n")
	view.WriteString(m.getResultView())
	if !m.isExitting {
		fmt.Fprintf(&view, "\n%s\n", styleFaded.Render(meterHelp))
	}
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(view.String())
	}
	return view.String()
}

// RunMeter runs the meter until the user quits
func RunMeter(opts MeterOpts, programOpts ...tea.ProgramOption) error {
	model := NewMeter(opts)
	defer model.unsubscribe()
	if _, err := tea.NewProgram(model, programOpts...).Run(); err != nil {
		return fmt.Errorf("failed to run meter: %w", err)
	}
	return nil
}
