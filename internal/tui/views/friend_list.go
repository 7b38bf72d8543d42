package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/cosmoschat/cosmoschat/internal/store"
)

// FriendList is the dashboard's friend table.
type FriendList struct {
	*tview.Table
	friends    []store.Friend
	selectedFn func() (int, int)
}

// NewFriendList creates the friend list table.
func NewFriendList() *FriendList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Friends ")

	fl := &FriendList{Table: table}
	fl.selectedFn = table.GetSelection
	return fl
}

// Update refreshes the table with new data.
func (fl *FriendList) Update(friends []store.Friend) {
	fl.friends = friends
	fl.Clear()

	unread := 0
	for _, f := range friends {
		unread += f.UnreadCount
	}
	if unread > 0 {
		fl.SetTitle(fmt.Sprintf(" Friends (%d, %d unread) ", len(friends), unread))
	} else {
		fl.SetTitle(fmt.Sprintf(" Friends (%d) ", len(friends)))
	}

	fl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	fl.SetCell(0, 1, tview.NewTableCell(" Status").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	fl.SetCell(0, 2, tview.NewTableCell(" Last Message").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	fl.SetCell(0, 3, tview.NewTableCell(" Added").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, f := range friends {
		row := i + 1
		name := f.Username
		if f.UnreadCount > 0 {
			name = fmt.Sprintf("* %s (%d)", name, f.UnreadCount)
		}

		fl.SetCell(row, 0, tview.NewTableCell(" "+name).SetMaxWidth(30).SetExpansion(1))
		fl.SetCell(row, 1, tview.NewTableCell(" "+presenceLabel(f.Status)).SetMaxWidth(10))
		fl.SetCell(row, 2, tview.NewTableCell(" "+sanitizeForTerminal(f.LastMessage)).SetMaxWidth(40).SetExpansion(2))
		fl.SetCell(row, 3, tview.NewTableCell(" "+formatTimestamp(f.AddedDate)).SetMaxWidth(12))
	}
}

// SelectedFriend returns the id of the currently selected friend.
func (fl *FriendList) SelectedFriend() string {
	row, _ := fl.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(fl.friends) {
		return fl.friends[idx].ID
	}
	return ""
}

func presenceLabel(status string) string {
	if status == store.StatusOnline {
		return "[green]●[-] online"
	}
	return "[gray]○[-] offline"
}

func formatTimestamp(ms int64) string {
	if ms == 0 {
		return ""
	}
	t := time.UnixMilli(ms)
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}
