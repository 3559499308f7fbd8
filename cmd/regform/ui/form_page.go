package ui

import (
	"context"
	"fmt"
	"strings"

	"regform/internal/form"
	"regform/internal/geo"
	"regform/internal/logging"
	"regform/internal/registration"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// effectDoneMsg carries the completion event of an effect back into Update.
type effectDoneMsg struct {
	ev form.Event
}

// ConfigReloadedMsg tells the page the config file was reloaded. Options
// of the running form never change; a non-nil Options applies from the next
// registration on. The note is shown in the footer.
type ConfigReloadedMsg struct {
	Note    string
	Options *form.Options
}

// inputFields are the fields edited with a text input, in focus order.
// Gender is a selector and the coordinates are filled by the locator.
var inputFields = []registration.Field{
	registration.FieldFullName,
	registration.FieldEmail,
	registration.FieldPhone,
	registration.FieldDateOfBirth,
	registration.FieldAddress,
	registration.FieldPassword,
	registration.FieldConfirmPassword,
}

// focusOrder is the tab order of the form.
var focusOrder = []registration.Field{
	registration.FieldFullName,
	registration.FieldEmail,
	registration.FieldPhone,
	registration.FieldGender,
	registration.FieldDateOfBirth,
	registration.FieldAddress,
	registration.FieldPassword,
	registration.FieldConfirmPassword,
}

var fieldLabels = map[registration.Field]string{
	registration.FieldFullName:        "Full name",
	registration.FieldEmail:           "Email",
	registration.FieldPhone:           "Phone",
	registration.FieldGender:          "Gender",
	registration.FieldDateOfBirth:     "Date of birth",
	registration.FieldAddress:         "Address",
	registration.FieldPassword:        "Password",
	registration.FieldConfirmPassword: "Confirm password",
}

var fieldPlaceholders = map[registration.Field]string{
	registration.FieldFullName:    "Jane Doe",
	registration.FieldEmail:       "jane@example.com",
	registration.FieldPhone:       "10 digits",
	registration.FieldDateOfBirth: "YYYY-MM-DD",
	registration.FieldAddress:     "Street, city",
}

// FormPage is the bubbletea model of the registration form.
type FormPage struct {
	ctx      context.Context
	runner   *form.Runner
	state    form.State
	initial  form.State
	preview  geo.MapPreview
	styles   Styles
	renderer *glamour.TermRenderer

	inputs  map[registration.Field]*textinput.Model
	focus   int
	spinner spinner.Model
	width   int
	note    string
}

// FormPageOptions configures NewFormPage.
type FormPageOptions struct {
	Styles   Styles
	Preview  geo.MapPreview
	Renderer *glamour.TermRenderer // nil renders the success message unstyled
}

// NewFormPage builds the page around an initial state. Effects are executed
// with runner under ctx.
func NewFormPage(ctx context.Context, initial form.State, runner *form.Runner, opts FormPageOptions) *FormPage {
	p := &FormPage{
		ctx:      ctx,
		runner:   runner,
		state:    initial,
		initial:  initial,
		preview:  opts.Preview,
		styles:   opts.Styles,
		renderer: opts.Renderer,
		inputs:   make(map[registration.Field]*textinput.Model, len(inputFields)),
		width:    80,
	}

	for _, f := range inputFields {
		ti := textinput.New()
		ti.Prompt = "│ "
		ti.Placeholder = fieldPlaceholders[f]
		ti.CharLimit = 256
		ti.Width = 40
		ti.PromptStyle = p.styles.Prompt
		ti.TextStyle = p.styles.Input
		// Static cursor: a blinking one would redraw the whole form twice a second.
		ti.Cursor.SetMode(cursor.CursorStatic)
		if f == registration.FieldPassword || f == registration.FieldConfirmPassword {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		if f == registration.FieldPhone {
			ti.CharLimit = 16
		}
		p.inputs[f] = &ti
	}
	p.inputs[focusOrder[0]].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = p.styles.Spinner
	p.spinner = sp

	p.syncInputs()
	return p
}

// State returns the current form state.
func (p *FormPage) State() form.State {
	return p.state
}

// Focused returns the field that currently has focus.
func (p *FormPage) Focused() registration.Field {
	return focusOrder[p.focus]
}

// Init implements tea.Model.
func (p *FormPage) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *FormPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case effectDoneMsg:
		return p, p.dispatch(msg.ev)

	case ConfigReloadedMsg:
		p.note = msg.Note
		if msg.Options != nil {
			p.initial.Options = *msg.Options
		}
		return p, nil

	case spinner.TickMsg:
		if p.state.Phase != form.PhaseSubmitting {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *FormPage) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return p, tea.Quit
	}

	if p.state.Blocked() {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			return p, p.dispatch(form.NoticeDismissed{})
		}
		return p, nil
	}

	if p.state.Submitted {
		switch msg.String() {
		case "n":
			p.restart()
			return p, nil
		case "q", "esc", "enter":
			return p, tea.Quit
		}
		return p, nil
	}

	switch msg.String() {
	case "esc":
		return p, tea.Quit
	case "tab", "down":
		return p, p.moveFocus(1)
	case "shift+tab", "up":
		return p, p.moveFocus(-1)
	case "ctrl+l":
		return p, p.dispatch(form.LocateRequested{})
	case "ctrl+s", "enter":
		return p, p.dispatch(form.SubmitRequested{})
	}

	field := p.Focused()
	if field == registration.FieldGender {
		switch msg.String() {
		case "left", "h":
			return p, p.cycleGender(-1)
		case "right", "l", " ":
			return p, p.cycleGender(1)
		}
		return p, nil
	}

	ti := p.inputs[field]
	before := ti.Value()
	updated, cmd := ti.Update(msg)
	*ti = updated
	if ti.Value() == before {
		return p, cmd
	}
	return p, tea.Batch(cmd, p.dispatch(form.FieldChanged{Field: field, Value: ti.Value()}))
}

// moveFocus blurs the focused field and focuses its neighbour.
func (p *FormPage) moveFocus(delta int) tea.Cmd {
	leaving := p.Focused()
	if ti, ok := p.inputs[leaving]; ok {
		ti.Blur()
	}
	p.focus = (p.focus + delta + len(focusOrder)) % len(focusOrder)
	var focusCmd tea.Cmd
	if ti, ok := p.inputs[p.Focused()]; ok {
		focusCmd = ti.Focus()
	}
	return tea.Batch(focusCmd, p.dispatch(form.FieldBlurred{Field: leaving}))
}

func (p *FormPage) cycleGender(delta int) tea.Cmd {
	idx := 0
	for i, g := range registration.Genders {
		if g == p.state.Draft.Gender {
			idx = i
		}
	}
	n := len(registration.Genders)
	next := registration.Genders[(idx+delta+n)%n]
	return p.dispatch(form.FieldChanged{Field: registration.FieldGender, Value: string(next)})
}

// restart begins a new registration with the same descriptor and the
// latest options.
func (p *FormPage) restart() {
	p.state = form.New(p.initial.DeviceDescriptor, p.initial.Options)
	if ti, ok := p.inputs[p.Focused()]; ok {
		ti.Blur()
	}
	p.focus = 0
	p.inputs[focusOrder[0]].Focus()
	p.syncInputs()
}

// dispatch runs ev through the reducer and turns the effects into commands.
func (p *FormPage) dispatch(ev form.Event) tea.Cmd {
	prev := p.state
	next, effects := form.Reduce(prev, ev)
	if p.runner != nil {
		p.runner.Observe(prev, next, ev)
	}
	p.state = next
	p.syncInputs()

	var cmds []tea.Cmd
	for _, eff := range effects {
		cmds = append(cmds, p.runEffect(eff))
	}
	if prev.Phase != form.PhaseSubmitting && next.Phase == form.PhaseSubmitting {
		cmds = append(cmds, p.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (p *FormPage) runEffect(eff form.Effect) tea.Cmd {
	runner, ctx := p.runner, p.ctx
	return func() tea.Msg {
		if runner == nil {
			logging.Get(logging.CategoryUI).Warn("No runner configured, dropping effect", zap.String("effect", fmt.Sprintf("%T", eff)))
			return nil
		}
		return effectDoneMsg{ev: runner.Run(ctx, eff)}
	}
}

// syncInputs copies draft values into the text inputs. Lookups and resets
// change the draft behind the inputs' back, and rejected keystrokes must be
// undone.
func (p *FormPage) syncInputs() {
	for _, f := range inputFields {
		ti := p.inputs[f]
		if v := p.state.Draft.Get(f); ti.Value() != v {
			ti.SetValue(v)
		}
	}
}

// View implements tea.Model.
func (p *FormPage) View() string {
	var b strings.Builder
	b.WriteString(p.styles.Title.Render("Customer Registration"))
	b.WriteString("\n")

	if p.state.Submitted {
		b.WriteString(p.successView())
		b.WriteString(p.styles.Footer.Render("n: new registration • q: quit"))
		return b.String()
	}

	if p.state.Blocked() {
		b.WriteString(p.styles.Notice.Render(p.state.Notice + "\n\nenter: dismiss"))
		b.WriteString("\n")
		return b.String()
	}

	for i, f := range focusOrder {
		b.WriteString(p.fieldView(f, i == p.focus))
	}
	b.WriteString(p.locationView())

	switch {
	case p.state.Phase == form.PhaseSubmitting:
		b.WriteString("\n" + p.spinner.View() + " Submitting...\n")
	case p.state.SubmitError != "":
		b.WriteString("\n" + p.styles.Warning.Render(p.state.SubmitError) + "\n")
	}

	help := "tab/shift+tab: move • ctrl+l: use my location • enter: submit • esc: quit"
	if p.note != "" {
		help = p.note + " • " + help
	}
	b.WriteString(p.styles.Footer.Render(help))
	return b.String()
}

func (p *FormPage) fieldView(f registration.Field, focused bool) string {
	label := p.styles.Label
	if focused {
		label = p.styles.FocusedLabel
	}

	var b strings.Builder
	b.WriteString(label.Render(fieldLabels[f]))
	if f == registration.FieldGender {
		g := string(p.state.Draft.Gender)
		if g == "" {
			g = "not specified"
		}
		b.WriteString(p.styles.Prompt.Render("‹ ") + p.styles.Input.Render(g) + p.styles.Prompt.Render(" ›"))
	} else {
		b.WriteString(p.inputs[f].View())
	}
	b.WriteString("\n")

	switch f {
	case registration.FieldAddress:
		b.WriteString(p.styles.Hint.Render(fmt.Sprintf("%d characters", p.state.AddressCharCount)) + "\n")
	case registration.FieldPassword:
		if p.state.PasswordStrength != registration.StrengthNone {
			b.WriteString(p.styles.Hint.Render("Strength: ") + p.styles.StrengthLabel(p.state.PasswordStrength) + "\n")
		}
	}
	if msg, ok := p.state.Errors[f]; ok {
		b.WriteString(p.styles.Error.Render(msg) + "\n")
	}
	return b.String()
}

func (p *FormPage) locationView() string {
	d := p.state.Draft
	var b strings.Builder
	b.WriteString(p.styles.Label.Render("Location"))
	if !d.HasLocation() {
		b.WriteString(p.styles.Subtitle.Render("press ctrl+l to use your location") + "\n")
		return b.String()
	}
	b.WriteString("\n")
	card := p.styles.Input.Render(d.Latitude + ", " + d.Longitude)
	if u, ok := p.preview.URL(d.Latitude, d.Longitude); ok {
		card += "\nMap: " + p.styles.Info.Render(u)
	}
	b.WriteString(p.styles.Card.Render(card) + "\n")
	return b.String()
}

func (p *FormPage) successView() string {
	if p.renderer != nil {
		out, err := p.renderer.Render("## " + form.MessageSubmitted)
		if err == nil {
			return out
		}
		logging.Get(logging.CategoryUI).Debug("Markdown render failed", zap.Error(err))
	}
	return p.styles.Success.Render(form.MessageSubmitted) + "\n"
}
