package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// imageCommand prefixes a composer line that sends an image reference
// instead of text, e.g. "/image vacation.png".
const imageCommand = "/image "

// Composer is the text input for sending messages.
type Composer struct {
	*tview.InputField
	onSend  func(text string)
	onImage func(ref string)
}

// NewComposer creates a new message composer.
func NewComposer() *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)

	c := &Composer{InputField: input}

	input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := c.GetText()
		if text == "" {
			return
		}
		if ref, ok := strings.CutPrefix(text, imageCommand); ok {
			if c.onImage != nil {
				c.onImage(ref)
			}
		} else if c.onSend != nil {
			c.onSend(text)
		}
		c.SetText("")
	})

	return c
}

// SetOnSend sets the callback for a text send.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}

// SetOnImage sets the callback for an image send.
func (c *Composer) SetOnImage(fn func(ref string)) {
	c.onImage = fn
}
