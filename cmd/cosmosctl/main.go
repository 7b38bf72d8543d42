package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cosmoschat/cosmoschat/internal/profile"
	"github.com/cosmoschat/cosmoschat/internal/store"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// WAL mode lets us read the profile database while the client runs.
	db, err := store.Open(profile.DBPath(profileName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot open profile %q: %v\n", profileName, err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	if _, err := db.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	switch args[0] {
	case "status":
		cmdStatus(db, profileName, *jsonFlag)
	case "friends":
		cmdFriends(db, *jsonFlag)
	case "unread":
		cmdUnread(db, *jsonFlag)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: cosmosctl [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  status     Show account and profile summary")
	fmt.Fprintln(os.Stderr, "  friends    List friends with unread counts")
	fmt.Fprintln(os.Stderr, "  unread     Show total unread message count")
}

func cmdStatus(db *store.DB, profileName string, jsonOut bool) {
	acct, err := db.GetAccount()
	if err != nil {
		fail(err)
	}
	friends, err := db.FriendCount()
	if err != nil {
		fail(err)
	}
	conversations, err := db.ConversationCount()
	if err != nil {
		fail(err)
	}

	if jsonOut {
		outputJSON(map[string]any{
			"profile":       profileName,
			"account":       acct,
			"friends":       friends,
			"conversations": conversations,
		})
		return
	}

	fmt.Printf("Profile:  %s\n", profileName)
	if acct == nil {
		fmt.Println("Account:  (not logged in)")
	} else {
		fmt.Printf("Account:  %s <%s>\n", acct.Username, acct.Email)
		fmt.Printf("ID:       %s\n", acct.ID)
		fmt.Printf("Joined:   %s\n", time.UnixMilli(acct.JoinDate).Format("2006-01-02"))
	}
	fmt.Printf("Friends:  %d\n", friends)
	fmt.Printf("Chats:    %d\n", conversations)
}

func cmdFriends(db *store.DB, jsonOut bool) {
	friends, err := db.ListFriends()
	if err != nil {
		fail(err)
	}

	if jsonOut {
		outputJSON(friends)
		return
	}

	for _, f := range friends {
		badge := ""
		if f.UnreadCount > 0 {
			badge = fmt.Sprintf(" (%d unread)", f.UnreadCount)
		}
		fmt.Printf("%-20s %-8s %s%s\n", f.Username, f.Status, f.ID, badge)
	}
}

func cmdUnread(db *store.DB, jsonOut bool) {
	friends, err := db.ListFriends()
	if err != nil {
		fail(err)
	}
	total := 0
	for _, f := range friends {
		total += f.UnreadCount
	}

	if jsonOut {
		outputJSON(map[string]int{"unread": total})
		return
	}
	fmt.Printf("%d\n", total)
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
