package launcher

import "strings"

// CommandBar is the text entry the manager shows on demand. While it is
// active the manager holds the keyboard and feeds it every key press.
type CommandBar interface {
	// Toggle opens or closes the bar and reports whether it is now open.
	Toggle() bool
	Active() bool
	// HandleKey consumes one keysym name. When submit is true the bar
	// has closed and command holds the entered line.
	HandleKey(sym string) (command string, submit bool)
	// Text is the current line, for drawing.
	Text() string
}

// namedChars are the keysyms whose names are longer than the character
// they type.
var namedChars = map[string]byte{
	"space":      ' ',
	"period":     '.',
	"minus":      '-',
	"underscore": '_',
	"slash":      '/',
}

// Prompt is a single-line editor: printable characters append,
// BackSpace deletes, Return submits and Escape cancels.
type Prompt struct {
	active bool
	text   []byte
}

var _ CommandBar = (*Prompt)(nil)

func NewPrompt() *Prompt { return &Prompt{} }

func (p *Prompt) Toggle() bool {
	p.active = !p.active
	p.text = p.text[:0]
	return p.active
}

func (p *Prompt) Active() bool { return p.active }

func (p *Prompt) Text() string { return string(p.text) }

func (p *Prompt) HandleKey(sym string) (string, bool) {
	if !p.active {
		return "", false
	}
	switch sym {
	case "Escape":
		p.Toggle()
		return "", false
	case "Return", "KP_Enter":
		line := strings.TrimSpace(string(p.text))
		p.Toggle()
		return line, true
	case "BackSpace":
		if len(p.text) > 0 {
			p.text = p.text[:len(p.text)-1]
		}
		return "", false
	}

	if len(sym) == 1 && sym[0] >= 0x20 && sym[0] < 0x7f {
		p.text = append(p.text, sym[0])
	} else if c, ok := namedChars[sym]; ok {
		p.text = append(p.text, c)
	}
	return "", false
}
