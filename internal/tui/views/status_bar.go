package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// StatusBar displays the profile, logged-in user, and call status.
type StatusBar struct {
	*tview.TextView
	profile  string
	username string
	call     string
	flash    string
	flashErr bool
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv}
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetUsername updates the logged-in user display.
func (sb *StatusBar) SetUsername(name string) {
	sb.username = name
	sb.render()
}

// SetCall updates the call indicator, e.g. "📹 01:24". Empty hides it.
func (sb *StatusBar) SetCall(status string) {
	sb.call = status
	sb.render()
}

// SetFlash sets a temporary message. Errors render red, notices yellow.
func (sb *StatusBar) SetFlash(msg string, isError bool) {
	sb.flash = msg
	sb.flashErr = isError
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	who := sb.username
	if who == "" {
		who = "not logged in"
	}

	clock := time.Now().Format("15:04")

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s", sb.profile, who, clock)
	if sb.call != "" {
		line += fmt.Sprintf(" | [green]%s[-]", sb.call)
	}
	if sb.flash != "" {
		color := "yellow"
		if sb.flashErr {
			color = "red"
		}
		line += fmt.Sprintf(" | [%s]%s[-]", color, sb.flash)
	}

	_, _ = fmt.Fprint(sb, line)
}
