package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/client"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/session"
	"github.com/dmitrijs2005/dropanalyzer/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Fprintln

var errUnknownCommand = errors.New("unknown command")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	isAdmin(ctx context.Context) bool
	takeNavigation() string
	Login(ctx context.Context, username, password string) error
	dispatch(ctx context.Context, cmd string, args []string) error
	describeError(err error) string
}

const (
	helpLoggedOut = "Available commands: login, register, health, exit"
	helpLoggedIn  = `Available commands:
  domains [page] [per_page]      list analyzed domains
  domain <name>                  show one domain
  analyze [domain...]            score domains
  llm [domain...]                LLM analysis of domains
  reports [page] [per_page]      list your reports
  delreport <id>                 delete a report
  export <json|csv> <id...>      export reports
  whoami, health, logout, exit`
	helpAdmin = `Admin commands:
  settings                       show settings
  set [name=value...]            update settings
  users [page] [per_page] [q]    list users
  adduser [username] [email] [role]
  updateuser <id> name=value...  update a user
  deluser <id>                   delete a user`
)

// runREPL starts a simple read–eval–print loop for the dropctl shell.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches it. The loop exits on EOF or when the user types "exit" or
// "quit". When a command hits a 401 the client redirects to the login
// route; the loop then reports the expired session and runs the login
// prompt before showing the next prompt.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(w, fmt.Sprintf("drop> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if errors.Is(err, io.EOF) {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(w, helpLoggedIn)
				if a.isAdmin(ctx) {
					printlnFn(w, helpAdmin)
				}
			} else {
				printlnFn(w, helpLoggedOut)
			}

		case "exit", "quit":
			printlnFn(w, "Bye!")
			return

		default:
			if err := a.dispatch(ctx, cmd, args); err != nil {
				if errors.Is(err, errUnknownCommand) {
					printlnFn(w, "Unknown command:", cmd)
				} else {
					printlnFn(w, "Error:", a.describeError(err))
				}
			}
		}

		if a.takeNavigation() == common.LoginRoute {
			printlnFn(w, "Session expired, please log in again.")
			if err := a.Login(ctx, "", ""); err != nil {
				printlnFn(w, "Error:", a.describeError(err))
			}
		}
	}
}

func requireArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

// dispatch runs one shell command.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		var user string
		if len(args) > 0 {
			user = args[0]
		}
		return a.Login(ctx, user, "")

	case "register":
		var user, email string
		if len(args) > 0 {
			user = args[0]
		}
		if len(args) > 1 {
			email = args[1]
		}
		return a.Register(ctx, user, "", email)

	case "logout":
		return a.Logout(ctx)

	case "whoami":
		return a.Whoami(ctx)

	case "health":
		return a.Health(ctx)

	case "domains", "l", "list":
		page, perPage, err := parsePaging(args)
		if err != nil {
			return err
		}
		return a.ListDomains(ctx, page, perPage)

	case "domain", "show":
		var name string
		if len(args) > 0 {
			name = args[0]
		}
		return a.ShowDomain(ctx, name)

	case "analyze":
		return a.AnalyzeDomains(ctx, args)

	case "llm":
		return a.LLMAnalyzeDomains(ctx, args)

	case "reports":
		page, perPage, err := parsePaging(args)
		if err != nil {
			return err
		}
		return a.ListReports(ctx, page, perPage)

	case "delreport":
		if err := requireArgs(args, 1, "delreport <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return a.DeleteReport(ctx, id)

	case "export":
		if err := requireArgs(args, 2, "export <json|csv> <id...>"); err != nil {
			return err
		}
		ids, err := parseIDs(args[1:])
		if err != nil {
			return err
		}
		return a.ExportReports(ctx, args[0], ids)

	case "settings":
		return a.GetSettings(ctx)

	case "set":
		return a.UpdateSettings(ctx, args)

	case "users":
		page, perPage, err := parsePaging(args)
		if err != nil {
			return err
		}
		search := client.DefaultSearch
		if len(args) > 2 {
			search = args[2]
		}
		return a.ListUsers(ctx, page, perPage, search)

	case "adduser":
		in := client.UserInput{}
		if len(args) > 0 {
			in.Username = args[0]
		}
		if len(args) > 1 {
			in.Email = args[1]
		}
		if len(args) > 2 {
			in.Role = args[2]
		}
		return a.CreateUser(ctx, in)

	case "updateuser":
		if err := requireArgs(args, 2, "updateuser <id> name=value..."); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return a.UpdateUser(ctx, id, args[1:])

	case "deluser":
		if err := requireArgs(args, 1, "deluser <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return a.DeleteUser(ctx, id)

	default:
		return errUnknownCommand
	}
}

// status renders the prompt state from the stored token.
func (a *App) status(ctx context.Context) string {
	tok, err := a.store.Get(ctx)
	if err != nil || tok == "" {
		return "not logged in"
	}
	c, err := session.ParseClaims(tok)
	if err != nil {
		return "logged in"
	}
	if c.Expired(now()) {
		return c.Username + " (expired)"
	}
	return fmt.Sprintf("%s (%s)", c.Username, c.Role)
}

// isAdmin reports whether the stored token carries the admin role.
func (a *App) isAdmin(ctx context.Context) bool {
	tok, err := a.store.Get(ctx)
	if err != nil || tok == "" {
		return false
	}
	c, err := session.ParseClaims(tok)
	return err == nil && c.IsAdmin()
}

// Shell runs the interactive loop until the user exits or ctx is done.
func (a *App) Shell(ctx context.Context) {
	printlnFn(a.out, fmt.Sprintf("dropctl shell, API %s. Type help for commands.", a.config.APIBaseURL))
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader, a.out)
}
