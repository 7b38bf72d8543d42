package views

import "github.com/rivo/tview"

// AddFriendForm asks for a username or cosmic id.
type AddFriendForm struct {
	*tview.Form
	onSubmit func(identifier string)
	onCancel func()
}

// NewAddFriendForm creates the add-friend form.
func NewAddFriendForm() *AddFriendForm {
	f := &AddFriendForm{Form: tview.NewForm()}
	f.SetBorder(true)
	f.SetTitle(" Add Friend ")

	f.AddInputField("Username or cosmic id", "", 40, nil, nil)
	f.AddButton("Add", func() {
		id := f.GetFormItemByLabel("Username or cosmic id").(*tview.InputField).GetText()
		if f.onSubmit != nil {
			f.onSubmit(id)
		}
	})
	f.AddButton("Cancel", func() {
		if f.onCancel != nil {
			f.onCancel()
		}
	})

	return f
}

// SetOnSubmit sets the submit callback.
func (f *AddFriendForm) SetOnSubmit(fn func(identifier string)) {
	f.onSubmit = fn
}

// SetOnCancel sets the cancel callback.
func (f *AddFriendForm) SetOnCancel(fn func()) {
	f.onCancel = fn
}

// Reset clears the input.
func (f *AddFriendForm) Reset() {
	f.GetFormItemByLabel("Username or cosmic id").(*tview.InputField).SetText("")
}
