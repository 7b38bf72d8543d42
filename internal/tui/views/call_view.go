package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// CallView is the in-call overlay: local preview placeholder, elapsed
// timer, and mute/camera indicators.
type CallView struct {
	*tview.TextView
}

// NewCallView creates the call overlay.
func NewCallView() *CallView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true).SetTitle(" Video Call ")

	return &CallView{TextView: tv}
}

// ShowRequesting renders the pre-grant state.
func (cv *CallView) ShowRequesting() {
	cv.Clear()
	_, _ = fmt.Fprint(cv, "\n\nRequesting camera and microphone...\n")
}

// ShowError renders a media failure.
func (cv *CallView) ShowError(msg string) {
	cv.Clear()
	_, _ = fmt.Fprintf(cv, "\n\n[red]%s[-]\n\n[::d]Esc to close[-:-:-]\n", msg)
}

// Update renders the active call.
func (cv *CallView) Update(elapsed time.Duration, muted, videoOff bool) {
	cv.Clear()

	mic := "🎙 on"
	if muted {
		mic = "[red]🎙 muted[-]"
	}
	cam := "📹 on"
	if videoOff {
		cam = "[red]📹 off[-]"
	}

	_, _ = fmt.Fprintf(cv,
		"\n\n[::b]%s[-:-:-]\n\n%s   %s\n\n[::d]m:mute  v:camera  Esc:hang up[-:-:-]\n",
		FormatCallElapsed(elapsed), mic, cam)
}

// FormatCallElapsed renders a duration as MM:SS, or H:MM:SS past an
// hour. Shared with the status bar indicator.
func FormatCallElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
