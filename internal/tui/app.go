// Package tui is the terminal front end: landing and auth pages, the
// friend dashboard, the conversation page, and the call overlay, all
// driven by bus events.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/cosmoschat/cosmoschat/internal/bus"
	"github.com/cosmoschat/cosmoschat/internal/call"
	"github.com/cosmoschat/cosmoschat/internal/responder"
	"github.com/cosmoschat/cosmoschat/internal/store"
	"github.com/cosmoschat/cosmoschat/internal/tui/keys"
	"github.com/cosmoschat/cosmoschat/internal/tui/model"
	"github.com/cosmoschat/cosmoschat/internal/tui/views"
)

const flashDuration = 5 * time.Second

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	vm       *model.ViewModel
	bus      *bus.Bus
	registry *keys.Registry

	statusBar  *views.StatusBar
	landing    *views.Landing
	loginForm  *views.LoginForm
	signupForm *views.SignupForm
	friendList *views.FriendList
	thread     *views.MessageThread
	composer   *views.Composer
	profileV   *views.ProfileView
	editProfF  *views.EditProfileForm
	addFriendF *views.AddFriendForm
	callV      *views.CallView

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(vm *model.ViewModel, b *bus.Bus, profileName string) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:        tview.NewApplication(),
		pages:      tview.NewPages(),
		vm:         vm,
		bus:        b,
		registry:   keys.NewRegistry(),
		statusBar:  views.NewStatusBar(),
		landing:    views.NewLanding(),
		loginForm:  views.NewLoginForm(),
		signupForm: views.NewSignupForm(),
		friendList: views.NewFriendList(),
		thread:     views.NewMessageThread(),
		composer:   views.NewComposer(),
		profileV:   views.NewProfileView(),
		editProfF:  views.NewEditProfileForm(),
		addFriendF: views.NewAddFriendForm(),
		callV:      views.NewCallView(),
		ctx:        ctx,
		cancel:     cancel,
	}

	a.statusBar.SetProfile(profileName)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddPage("landing", "login", &keys.Action{
		Rune: 'l', Key: tcell.KeyRune,
		Description: "l:login", Visible: true,
		Handler: func() { a.switchTo("login", a.loginForm) },
	})
	a.registry.AddPage("landing", "signup", &keys.Action{
		Rune: 's', Key: tcell.KeyRune,
		Description: "s:signup", Visible: true,
		Handler: func() { a.switchTo("signup", a.signupForm) },
	})
	a.registry.AddPage("landing", "quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})

	a.registry.AddPage("dashboard", "addfriend", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Description: "a:add friend", Visible: true,
		Handler: func() { a.showAddFriend() },
	})
	a.registry.AddPage("dashboard", "profile", &keys.Action{
		Rune: 'p', Key: tcell.KeyRune,
		Description: "p:profile", Visible: true,
		Handler: func() { a.showProfile() },
	})
	a.registry.AddPage("dashboard", "logout", &keys.Action{
		Rune: 'x', Key: tcell.KeyRune,
		Description: "x:logout", Visible: true,
		Handler: func() { a.logout() },
	})
	a.registry.AddPage("dashboard", "quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})

	a.registry.AddPage("chat", "call", &keys.Action{
		Rune: 'v', Key: tcell.KeyRune,
		Description: "v:video call", Visible: true,
		Handler: func() { a.startCall() },
	})
	a.registry.AddPage("chat", "voice", &keys.Action{
		Rune: 'c', Key: tcell.KeyRune,
		Description: "c:voice call", Visible: true,
		Handler: func() { a.notify("Voice calls are coming soon") },
	})

	a.registry.AddPage("profile", "edit", &keys.Action{
		Rune: 'e', Key: tcell.KeyRune,
		Description: "e:edit", Visible: true,
		Handler: func() { a.showEditProfile() },
	})

	a.registry.AddPage("call", "mute", &keys.Action{
		Rune: 'm', Key: tcell.KeyRune,
		Description: "m:mute", Visible: true,
		Handler: func() { a.vm.ToggleMute(); a.refreshCall() },
	})
	a.registry.AddPage("call", "camera", &keys.Action{
		Rune: 'v', Key: tcell.KeyRune,
		Description: "v:camera", Visible: true,
		Handler: func() { a.vm.ToggleVideo(); a.refreshCall() },
	})
}

func (a *App) setupCallbacks() {
	a.loginForm.SetOnSubmit(func(email, password string) {
		if err := a.vm.Login(email, password); err != nil {
			a.flash("Login failed: " + err.Error())
			return
		}
		a.enterDashboard()
	})

	a.signupForm.SetOnSubmit(func(username, email, password, confirm string) {
		if err := a.vm.Signup(username, email, password, confirm); err != nil {
			a.flash(err.Error())
			return
		}
		a.enterDashboard()
	})

	a.friendList.SetSelectedFunc(func(row, col int) {
		if id := a.friendList.SelectedFriend(); id != "" {
			a.openChat(id)
		}
	})

	a.composer.SetOnSend(func(text string) {
		if err := a.vm.SendText(text); err != nil {
			a.flash(err.Error())
			return
		}
		a.thread.Update(a.vm.GetMessages(), a.vm.GetTyping())
	})
	a.composer.SetOnImage(func(ref string) {
		if err := a.vm.SendImage(ref); err != nil {
			a.flash(err.Error())
			return
		}
		a.thread.Update(a.vm.GetMessages(), a.vm.GetTyping())
	})

	a.addFriendF.SetOnSubmit(func(identifier string) {
		if err := a.vm.AddFriend(identifier); err != nil {
			a.flash(err.Error())
			return
		}
		a.addFriendF.Reset()
		a.enterDashboard()
	})
	a.addFriendF.SetOnCancel(func() {
		a.enterDashboard()
	})

	a.editProfF.SetOnSubmit(func(username, bio, avatar string) {
		if err := a.vm.UpdateProfile(username, bio); err != nil {
			a.flash(err.Error())
			return
		}
		if err := a.vm.SetAvatar(avatar); err != nil {
			a.flash(err.Error())
			return
		}
		if acct := a.vm.GetAccount(); acct != nil {
			a.statusBar.SetUsername(acct.Username)
		}
		a.showProfile()
	})
	a.editProfF.SetOnCancel(func() {
		a.showProfile()
	})
}

func (a *App) setupLayout() {
	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.thread, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	a.pages.AddPage("landing", a.landing, true, true)
	a.pages.AddPage("login", a.loginForm, true, false)
	a.pages.AddPage("signup", a.signupForm, true, false)
	a.pages.AddPage("dashboard", a.friendList, true, false)
	a.pages.AddPage("chat", chatFlex, true, false)
	a.pages.AddPage("profile", a.profileV, true, false)
	a.pages.AddPage("editprofile", a.editProfF, true, false)
	a.pages.AddPage("addfriend", a.addFriendF, true, false)
	a.pages.AddPage("call", a.callV, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case "login", "signup":
				a.switchTo("landing", a.landing)
				return nil
			case "chat":
				a.vm.CloseChat()
				a.enterDashboard()
				return nil
			case "profile", "addfriend":
				a.enterDashboard()
				return nil
			case "editprofile":
				a.showProfile()
				return nil
			case "call":
				a.endCall()
				return nil
			}
		}

		// Let text input widgets handle all keys normally.
		focused := a.app.GetFocus()
		switch focused.(type) {
		case *tview.InputField, *tview.Button:
			return event
		}

		// 'i' focuses the composer (only when not already in an input field).
		if currentPage == "chat" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			a.app.SetFocus(a.composer.InputField)
			return nil
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}

		return event
	})
}

func (a *App) switchTo(page string, focus tview.Primitive) {
	a.pages.SwitchToPage(page)
	a.app.SetFocus(focus)
}

func (a *App) enterDashboard() {
	if err := a.vm.LoadFriends(); err != nil {
		a.flash(err.Error())
	}
	a.friendList.Update(a.vm.GetFriends())
	if acct := a.vm.GetAccount(); acct != nil {
		a.statusBar.SetUsername(acct.Username)
	}
	a.switchTo("dashboard", a.friendList)
}

func (a *App) openChat(friendID string) {
	if err := a.vm.OpenChat(friendID); err != nil {
		a.flash(err.Error())
		return
	}
	if f := a.vm.ActiveFriend(); f != nil {
		a.thread.SetFriendName(f.Username)
	}
	a.thread.Update(a.vm.GetMessages(), false)
	a.switchTo("chat", a.composer.InputField)
}

func (a *App) showProfile() {
	a.profileV.Update(a.vm.GetAccount())
	a.switchTo("profile", a.profileV)
}

func (a *App) showEditProfile() {
	a.editProfF.Load(a.vm.GetAccount())
	a.switchTo("editprofile", a.editProfF)
}

func (a *App) showAddFriend() {
	a.addFriendF.Reset()
	a.switchTo("addfriend", a.addFriendF)
}

func (a *App) logout() {
	if err := a.vm.Logout(); err != nil {
		a.flash(err.Error())
		return
	}
	a.statusBar.SetUsername("")
	a.switchTo("landing", a.landing)
}

func (a *App) startCall() {
	a.callV.ShowRequesting()
	a.switchTo("call", a.callV)
	go func() {
		err := a.vm.StartCall(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.callV.ShowError(err.Error())
				return
			}
			a.refreshCall()
		})
	}()
}

func (a *App) endCall() {
	a.vm.EndCall()
	a.statusBar.SetCall("")
	a.switchTo("chat", a.composer.InputField)
}

func (a *App) refreshCall() {
	a.callV.Update(a.vm.GetCallElapsed(), a.vm.CallMuted(), a.vm.CallVideoOff())
}

// flash surfaces a recoverable error; notify surfaces an informational
// notice.
func (a *App) flash(msg string)  { a.setFlash(msg, model.LevelError) }
func (a *App) notify(msg string) { a.setFlash(msg, model.LevelInfo) }

func (a *App) setFlash(msg string, level model.Level) {
	a.vm.Flash.Set(msg, level, flashDuration)
	a.statusBar.SetFlash(msg, level == model.LevelError)
}

// Run starts the TUI application, restoring any persisted session first.
func (a *App) Run() error {
	if err := a.vm.Restore(); err == nil && a.vm.GetAccount() != nil {
		a.enterDashboard()
	}

	go a.eventLoop()

	return a.app.Run()
}

// eventLoop applies bus events to the UI. Everything the core publishes
// funnels through here so background work never touches tview directly.
func (a *App) eventLoop() {
	events, unsubscribe := a.bus.Subscribe("", 64)
	defer unsubscribe()

	for {
		select {
		case evt := <-events:
			a.handleEvent(evt)
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindMessageAppended:
		msg, ok := evt.Payload.(*store.Message)
		if !ok {
			return
		}
		a.app.QueueUpdateDraw(func() {
			active := a.vm.ActiveFriend()
			if active != nil && msg.FriendID == active.ID {
				if err := a.vm.ReloadMessages(); err == nil {
					a.thread.Update(a.vm.GetMessages(), a.vm.GetTyping())
				}
			}
			_ = a.vm.LoadFriends()
			a.friendList.Update(a.vm.GetFriends())
			msg, level := a.vm.Flash.Get()
			a.statusBar.SetFlash(msg, level == model.LevelError)
		})

	case bus.KindTyping:
		te, ok := evt.Payload.(responder.TypingEvent)
		if !ok {
			return
		}
		a.app.QueueUpdateDraw(func() {
			active := a.vm.ActiveFriend()
			if active != nil && te.FriendID == active.ID {
				a.vm.SetTyping(te.Typing)
				a.thread.Update(a.vm.GetMessages(), te.Typing)
			}
		})

	case bus.KindFriendAdded, bus.KindMessageRead:
		a.app.QueueUpdateDraw(func() {
			_ = a.vm.LoadFriends()
			a.friendList.Update(a.vm.GetFriends())
		})

	case bus.KindCallTick:
		te, ok := evt.Payload.(call.TickEvent)
		if !ok {
			return
		}
		a.vm.SetCallElapsed(te.Elapsed)
		a.app.QueueUpdateDraw(func() {
			a.refreshCall()
			a.statusBar.SetCall("📹 " + views.FormatCallElapsed(te.Elapsed))
		})

	case bus.KindCallStateChange:
		sc, ok := evt.Payload.(call.StateChange)
		if !ok {
			return
		}
		a.app.QueueUpdateDraw(func() {
			if sc.To == call.Idle {
				a.statusBar.SetCall("")
			}
		})
	}
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
