package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/wgadmin/wgadmin/internal/console"
)

// Form validation errors
var (
	errPublicKeyRequired = errors.New("Public key is required")
	errInvalidPublicKey  = errors.New("Invalid WireGuard public key")
)

var formValidate = validator.New()

type formField int

const (
	fieldName formField = iota
	fieldCustomKey
	fieldPublicKey
)

type clientFormKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func (k clientFormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Submit, k.Cancel}
}

func (k clientFormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Toggle}, {k.Submit, k.Cancel}}
}

// ClientForm captures a new client's name and, optionally, a public key the
// operator generated themselves
type ClientForm struct {
	NameInput    textinput.Model
	KeyInput     textinput.Model
	UseCustomKey bool
	Submitting   bool
	Err          string

	focus formField
	keys  clientFormKeyMap
}

// NewClientForm creates an empty form with the name field focused
func NewClientForm() ClientForm {
	name := textinput.New()
	name.Placeholder = "laptop-alice"
	name.CharLimit = 0 // the server decides what names it accepts
	name.Width = 40
	name.Focus()

	pub := textinput.New()
	pub.Placeholder = "base64 public key (44 characters)"
	pub.CharLimit = 64
	pub.Width = 46

	return ClientForm{
		NameInput: name,
		KeyInput:  pub,
		focus:     fieldName,
		keys: clientFormKeyMap{
			Next: key.NewBinding(
				key.WithKeys("tab", "down"),
				key.WithHelp("tab", "next field"),
			),
			Prev: key.NewBinding(
				key.WithKeys("shift+tab", "up"),
				key.WithHelp("shift+tab", "previous field"),
			),
			Toggle: key.NewBinding(
				key.WithKeys(" ", "x"),
				key.WithHelp("space", "toggle custom key"),
			),
			Submit: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "create"),
			),
			Cancel: closeModalKey,
		},
	}
}

// CanSubmit reports whether the submit action is enabled
func (f ClientForm) CanSubmit() bool {
	return !f.Submitting && strings.TrimSpace(f.NameInput.Value()) != ""
}

// Request validates the form and returns the create request
func (f ClientForm) Request() (console.ClientRequest, error) {
	name := strings.TrimSpace(f.NameInput.Value())
	if err := formValidate.Var(name, "required"); err != nil {
		return console.ClientRequest{}, console.ErrNameRequired
	}

	req := console.ClientRequest{Name: name}
	if !f.UseCustomKey {
		return req, nil
	}

	publicKey := strings.TrimSpace(f.KeyInput.Value())
	if err := ValidatePublicKey(publicKey); err != nil {
		return console.ClientRequest{}, err
	}
	req.PublicKey = publicKey
	return req, nil
}

// ValidatePublicKey checks that s is a base64 Curve25519 key
func ValidatePublicKey(s string) error {
	if err := formValidate.Var(s, "required"); err != nil {
		return errPublicKeyRequired
	}
	if err := formValidate.Var(s, "base64"); err != nil {
		return errInvalidPublicKey
	}
	if _, err := wgtypes.ParseKey(s); err != nil {
		return errInvalidPublicKey
	}
	return nil
}

// Update handles focus movement, the custom-key toggle and typing. Submit
// and cancel belong to the owning screen.
func (f ClientForm) Update(msg tea.Msg) (ClientForm, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, f.keys.Next):
			f.setFocus(f.nextField(1))
			return f, textinput.Blink
		case key.Matches(keyMsg, f.keys.Prev):
			f.setFocus(f.nextField(-1))
			return f, textinput.Blink
		case f.focus == fieldCustomKey && key.Matches(keyMsg, f.keys.Toggle):
			f.UseCustomKey = !f.UseCustomKey
			f.Err = ""
			return f, nil
		}
		f.Err = ""
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldName:
		f.NameInput, cmd = f.NameInput.Update(msg)
	case fieldPublicKey:
		f.KeyInput, cmd = f.KeyInput.Update(msg)
	}
	return f, cmd
}

// nextField cycles focus, skipping the key input while the toggle is off
func (f ClientForm) nextField(step int) formField {
	fields := []formField{fieldName, fieldCustomKey}
	if f.UseCustomKey {
		fields = append(fields, fieldPublicKey)
	}
	idx := 0
	for i, field := range fields {
		if field == f.focus {
			idx = i
		}
	}
	idx = (idx + step + len(fields)) % len(fields)
	return fields[idx]
}

func (f *ClientForm) setFocus(field formField) {
	f.focus = field
	f.NameInput.Blur()
	f.KeyInput.Blur()
	switch field {
	case fieldName:
		f.NameInput.Focus()
	case fieldPublicKey:
		f.KeyInput.Focus()
	}
}

func (f ClientForm) label(text string, field formField) string {
	if f.focus == field {
		return FocusedInputStyle.Render(text)
	}
	return BlurredInputStyle.Render(text)
}

// View renders the form fields
func (f ClientForm) View() string {
	check := "[ ]"
	if f.UseCustomKey {
		check = "[x]"
	}

	lines := []string{
		f.label("Name", fieldName),
		f.NameInput.View(),
		"",
		f.label(check+" Use custom public key", fieldCustomKey),
	}
	if f.UseCustomKey {
		lines = append(lines,
			"",
			f.label("Public key", fieldPublicKey),
			f.KeyInput.View(),
		)
	}

	button := lipgloss.NewStyle().Padding(0, 2).Bold(true)
	switch {
	case f.Submitting:
		button = button.Foreground(SubtleColor)
		lines = append(lines, "", button.Render("Creating..."))
	case f.CanSubmit():
		button = button.Foreground(TextColor).Background(PrimaryColor)
		lines = append(lines, "", button.Render("Create"))
	default:
		button = button.Foreground(SubtleColor)
		lines = append(lines, "", button.Render("Create"))
	}

	if f.Err != "" {
		lines = append(lines, "", ErrorBannerStyle.Render(f.Err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
