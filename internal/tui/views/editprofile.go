package views

import (
	"github.com/rivo/tview"

	"github.com/cosmoschat/cosmoschat/internal/store"
)

// EditProfileForm edits the account's username, bio, and avatar
// reference.
type EditProfileForm struct {
	*tview.Form
	onSubmit func(username, bio, avatar string)
	onCancel func()
}

// NewEditProfileForm creates the edit-profile form.
func NewEditProfileForm() *EditProfileForm {
	f := &EditProfileForm{Form: tview.NewForm()}
	f.SetBorder(true)
	f.SetTitle(" Edit Profile ")

	f.AddInputField("Username", "", 40, nil, nil)
	f.AddInputField("Bio", "", 40, nil, nil)
	f.AddInputField("Avatar", "", 40, nil, nil)
	f.AddButton("Save", func() {
		username := f.GetFormItemByLabel("Username").(*tview.InputField).GetText()
		bio := f.GetFormItemByLabel("Bio").(*tview.InputField).GetText()
		avatar := f.GetFormItemByLabel("Avatar").(*tview.InputField).GetText()
		if f.onSubmit != nil {
			f.onSubmit(username, bio, avatar)
		}
	})
	f.AddButton("Cancel", func() {
		if f.onCancel != nil {
			f.onCancel()
		}
	})

	return f
}

// SetOnSubmit sets the save callback.
func (f *EditProfileForm) SetOnSubmit(fn func(username, bio, avatar string)) {
	f.onSubmit = fn
}

// SetOnCancel sets the cancel callback.
func (f *EditProfileForm) SetOnCancel(fn func()) {
	f.onCancel = fn
}

// Load fills the fields from the current account.
func (f *EditProfileForm) Load(a *store.Account) {
	if a == nil {
		return
	}
	f.GetFormItemByLabel("Username").(*tview.InputField).SetText(a.Username)
	f.GetFormItemByLabel("Bio").(*tview.InputField).SetText(a.Bio)
	f.GetFormItemByLabel("Avatar").(*tview.InputField).SetText(a.Avatar)
}
