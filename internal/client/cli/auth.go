package cli

import (
	"context"
	"fmt"
	"os"
	"time"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// now is a test seam for whoami expiry output.
var now = time.Now

func (a *App) promptMissing(value *string, prompt string) error {
	if *value != "" {
		return nil
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func (a *App) promptPassword(value *string) error {
	if *value != "" {
		return nil
	}
	if a.ttyInput {
		// prompts go to the terminal even when stdout is redirected
		v, err := getPassword(a.reader, os.Stderr, true)
		*value = v
		return err
	}
	v, err := getPassword(a.reader, a.out, false)
	*value = v
	return err
}

// Login authenticates and stores the session. Missing arguments are prompted for.
func (a *App) Login(ctx context.Context, username, password string) error {
	if err := a.promptMissing(&username, "Enter username"); err != nil {
		return err
	}
	if err := a.promptPassword(&password); err != nil {
		return err
	}

	resp, err := a.authService.Login(ctx, username, password)
	// a rejected login is not a logout; drop the redirect it caused
	a.nav.take()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
	return nil
}

// Register creates an account and logs in with it. The optional email is
// only prompted for when the username is too.
func (a *App) Register(ctx context.Context, username, password, email string) error {
	if username == "" {
		if err := a.promptMissing(&username, "Enter username"); err != nil {
			return err
		}
		if err := a.promptMissing(&email, "Enter email (optional)"); err != nil {
			return err
		}
	}
	if err := a.promptPassword(&password); err != nil {
		return err
	}

	resp, err := a.authService.Register(ctx, username, password, email)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered and logged in as %s\n", resp.User.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Whoami prints the identity stored in the local session.
func (a *App) Whoami(ctx context.Context) error {
	c, err := a.authService.Whoami(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (id %d, role %s)\n", c.Username, c.UserID, c.Role)
	if c.ExpiresAt != nil {
		state := "valid until"
		if c.Expired(now()) {
			state = "expired at"
		}
		fmt.Fprintf(a.out, "token %s %s\n", state, c.ExpiresAt.Time.Local().Format(time.RFC1123))
	}
	return nil
}

func (a *App) Health(ctx context.Context) error {
	h, err := a.authService.Ping(ctx)
	if err != nil {
		return err
	}
	msg := h.Message
	if msg == "" {
		msg = "healthy"
	}
	fmt.Fprintf(a.out, "%s: %s\n", a.config.APIBaseURL, msg)
	if h.Timestamp != "" {
		fmt.Fprintf(a.out, "server time %s\n", h.Timestamp)
	}
	return nil
}
