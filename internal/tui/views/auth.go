package views

import (
	"fmt"

	"github.com/rivo/tview"
)

// Landing is the unauthenticated start page.
type Landing struct {
	*tview.TextView
}

// NewLanding creates the landing page.
func NewLanding() *Landing {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true).SetTitle(" CosmosChat ")

	_, _ = fmt.Fprint(tv,
		"\n\n[::b]✦ CosmosChat ✦[-:-:-]\n\n"+
			"Chat across the cosmos\n\n\n"+
			"[::d]l:login  s:signup  q:quit[-:-:-]")

	return &Landing{TextView: tv}
}

// LoginForm collects email and password.
type LoginForm struct {
	*tview.Form
	onSubmit func(email, password string)
}

// NewLoginForm creates the login form.
func NewLoginForm() *LoginForm {
	f := &LoginForm{Form: tview.NewForm()}
	f.SetBorder(true)
	f.SetTitle(" Login ")

	f.AddInputField("Email", "", 40, nil, nil)
	f.AddPasswordField("Password", "", 40, '*', nil)
	f.AddButton("Login", func() {
		email := f.GetFormItemByLabel("Email").(*tview.InputField).GetText()
		password := f.GetFormItemByLabel("Password").(*tview.InputField).GetText()
		if f.onSubmit != nil {
			f.onSubmit(email, password)
		}
	})

	return f
}

// SetOnSubmit sets the login callback.
func (f *LoginForm) SetOnSubmit(fn func(email, password string)) {
	f.onSubmit = fn
}

// Reset clears all fields.
func (f *LoginForm) Reset() {
	f.GetFormItemByLabel("Email").(*tview.InputField).SetText("")
	f.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
}

// SignupForm collects the new-account fields.
type SignupForm struct {
	*tview.Form
	onSubmit func(username, email, password, confirm string)
}

// NewSignupForm creates the signup form.
func NewSignupForm() *SignupForm {
	f := &SignupForm{Form: tview.NewForm()}
	f.SetBorder(true)
	f.SetTitle(" Sign Up ")

	f.AddInputField("Username", "", 40, nil, nil)
	f.AddInputField("Email", "", 40, nil, nil)
	f.AddPasswordField("Password", "", 40, '*', nil)
	f.AddPasswordField("Confirm Password", "", 40, '*', nil)
	f.AddButton("Create Account", func() {
		username := f.GetFormItemByLabel("Username").(*tview.InputField).GetText()
		email := f.GetFormItemByLabel("Email").(*tview.InputField).GetText()
		password := f.GetFormItemByLabel("Password").(*tview.InputField).GetText()
		confirm := f.GetFormItemByLabel("Confirm Password").(*tview.InputField).GetText()
		if f.onSubmit != nil {
			f.onSubmit(username, email, password, confirm)
		}
	})

	return f
}

// SetOnSubmit sets the signup callback.
func (f *SignupForm) SetOnSubmit(fn func(username, email, password, confirm string)) {
	f.onSubmit = fn
}

// Reset clears all fields.
func (f *SignupForm) Reset() {
	for _, label := range []string{"Username", "Email", "Password", "Confirm Password"} {
		f.GetFormItemByLabel(label).(*tview.InputField).SetText("")
	}
}
