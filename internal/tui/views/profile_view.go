package views

import (
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/rivo/tview"

	"github.com/cosmoschat/cosmoschat/internal/store"
)

// ProfileView shows the account's details and the cosmic id as a QR
// code, so another explorer can scan it and add you.
type ProfileView struct {
	*tview.TextView
}

// NewProfileView creates the profile view.
func NewProfileView() *ProfileView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true).SetTitle(" Profile ")

	return &ProfileView{TextView: tv}
}

// Update renders the account.
func (pv *ProfileView) Update(a *store.Account) {
	pv.Clear()
	if a == nil {
		return
	}

	joined := time.UnixMilli(a.JoinDate).Format("Jan 2, 2006")
	name := a.Username
	if a.Avatar != "" {
		name = sanitizeForTerminal(a.Avatar) + " " + name
	}
	_, _ = fmt.Fprintf(pv,
		"\n[::b]%s[-:-:-]\n%s\n\n%s\n\nJoined %s\n\n%s\n[::d]%s[-:-:-]\n",
		name, a.Email, sanitizeForTerminal(a.Bio), joined,
		renderQR(a.ID), a.ID)
}

// renderQR converts a string to a compact ASCII QR code using Unicode
// half-block characters.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder

	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('\u2588') // █
			case top && !bot:
				sb.WriteRune('\u2580') // ▀
			case !top && bot:
				sb.WriteRune('\u2584') // ▄
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}

	return sb.String()
}
