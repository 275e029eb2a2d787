package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context) error
	Guides(ctx context.Context, args []string) error
	Guide(ctx context.Context, args []string) error
	MyGuides(ctx context.Context, args []string) error
	NewGuide(ctx context.Context) error
	Matches(ctx context.Context) error
	Like(ctx context.Context, args []string) error
	Dislike(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: signup, login, exit"
	helpLoggedIn  = "Available commands: whoami, profile, guides [name=value...], guide <id>, " +
		"myguides [username], newguide, matches, like <guideID>, dislike <matchID>, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the UrGuide CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Errors returned by handlers are printed and
// the loop continues. The loop exits on EOF, when ctx is done, or when the
// user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "urguide %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}
		case "signup":
			cmdErr = a.Signup(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.Whoami(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "guides":
			cmdErr = a.Guides(ctx, args)
		case "guide":
			cmdErr = a.Guide(ctx, args)
		case "myguides":
			cmdErr = a.MyGuides(ctx, args)
		case "newguide":
			cmdErr = a.NewGuide(ctx)
		case "matches":
			cmdErr = a.Matches(ctx)
		case "like":
			cmdErr = a.Like(ctx, args)
		case "dislike":
			cmdErr = a.Dislike(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
