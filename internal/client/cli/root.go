package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/dropanalyzer/internal/buildinfo"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/client"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/config"
	"github.com/dmitrijs2005/dropanalyzer/internal/common"
	"github.com/spf13/cobra"
)

// reportedError marks errors already shown to the user.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// IsReported reports whether err was already printed by a command.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

type rootState struct {
	app    *App
	output string
	logOut io.Writer
}

// NewRootCmd creates the dropctl command tree. Input and output follow the
// command's In/Out/Err streams so tests can capture them.
func NewRootCmd() *cobra.Command {
	st := &rootState{}

	cmd := &cobra.Command{
		Use:   "dropctl",
		Short: "Command-line client for the drop analyzer API",
		Long: `dropctl logs in to a drop analyzer backend, submits domains for scoring
and LLM analysis, manages reports and exports, and administers settings
and users. Run "dropctl shell" for an interactive session.`,
		Version:       buildinfo.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.open(cmd)
		},
	}

	config.BindFlags(cmd.PersistentFlags())
	cmd.PersistentFlags().StringVarP(&st.output, "output", "o", "table", "output format: table or json")

	cmd.AddCommand(
		newLoginCmd(st),
		newRegisterCmd(st),
		newLogoutCmd(st),
		newWhoamiCmd(st),
		newHealthCmd(st),
		newShellCmd(st),
		newDomainsCmd(st),
		newReportsCmd(st),
		newSettingsCmd(st),
		newUsersCmd(st),
		newVersionCmd(),
	)
	return cmd
}

func (st *rootState) open(cmd *cobra.Command) error {
	if st.output != "table" && st.output != "json" {
		return fmt.Errorf("unknown output format %q", st.output)
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logOut := st.logOut
	if logOut == nil {
		logOut = cmd.ErrOrStderr()
	}

	ctx := cmd.Context()
	app, err := NewApp(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logOut)
	if err != nil {
		return err
	}
	app.SetRawJSON(st.output == "json")

	if err := app.WaitForAPI(ctx, cfg.Wait); err != nil {
		_ = app.Close()
		return err
	}

	st.app = app
	return nil
}

// run wraps a command body: it reports errors in user terms, prints a login
// hint when the server rejected the session and closes the app.
func (st *rootState) run(fn func(ctx context.Context, a *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a := st.app
		defer func() {
			_ = a.Close()
		}()

		err := fn(cmd.Context(), a, args)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", a.describeError(err))
		}
		if a.takeNavigation() == common.LoginRoute {
			fmt.Fprintln(cmd.ErrOrStderr(), "Your session is no longer valid. Run `dropctl login` to sign in again.")
		}
		if err != nil {
			return reportedError{err}
		}
		return nil
	}
}

func newLoginCmd(st *rootState) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when empty)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		return a.Login(ctx, username, password)
	})
	return cmd
}

func newRegisterCmd(st *rootState) *cobra.Command {
	var username, password, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when empty)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		return a.Register(ctx, username, password, email)
	})
	return cmd
}

func newLogoutCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			return a.Logout(ctx)
		}),
	}
}

func newWhoamiCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the stored session",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			return a.Whoami(ctx)
		}),
	}
}

func newHealthCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			return a.Health(ctx)
		}),
	}
}

// newVersionCmd overrides the persistent hook so it works without an API.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print build information",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

func newShellCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			a.Shell(ctx)
			return nil
		}),
	}
}

func newDomainsCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Analyze and browse domains",
	}

	analyze := &cobra.Command{
		Use:   "analyze [domain...]",
		Short: "Score domains (reads them from input when none are given)",
	}
	analyze.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		return a.AnalyzeDomains(ctx, args)
	})

	llm := &cobra.Command{
		Use:   "llm-analyze [domain...]",
		Short: "Run LLM analysis on domains",
	}
	llm.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		return a.LLMAnalyzeDomains(ctx, args)
	})

	var page, perPage int
	list := &cobra.Command{
		Use:   "list",
		Short: "List analyzed domains",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			return a.ListDomains(ctx, page, perPage)
		}),
	}
	pagingFlags(list, &page, &perPage)

	show := &cobra.Command{
		Use:   "show <domain>",
		Short: "Show the stored record of a domain",
		Args:  cobra.ExactArgs(1),
	}
	show.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		return a.ShowDomain(ctx, args[0])
	})

	cmd.AddCommand(analyze, llm, list, show)
	return cmd
}

func newReportsCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Browse, delete and export your reports",
	}

	var page, perPage int
	list := &cobra.Command{
		Use:   "list",
		Short: "List your reports",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			return a.ListReports(ctx, page, perPage)
		}),
	}
	pagingFlags(list, &page, &perPage)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a report",
		Args:  idArgs(1, 1),
	}
	del.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		id, _ := parseID(args[0])
		return a.DeleteReport(ctx, id)
	})

	var format string
	export := &cobra.Command{
		Use:   "export <id>...",
		Short: "Export reports to the export directory or S3",
		Args:  idsArgs,
	}
	export.Flags().StringVarP(&format, "format", "f", "csv", "export format: json or csv")
	export.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		ids, _ := parseIDs(args)
		return a.ExportReports(ctx, format, ids)
	})

	cmd.AddCommand(list, del, export)
	return cmd
}

func newSettingsCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change backend settings (admin)",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show settings",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			return a.GetSettings(ctx)
		}),
	}

	set := &cobra.Command{
		Use:   "set name=value...",
		Short: "Update settings",
		Args:  cobra.MinimumNArgs(1),
	}
	set.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		return a.UpdateSettings(ctx, args)
	})

	cmd.AddCommand(get, set)
	return cmd
}

func newUsersCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer users (admin)",
	}

	var page, perPage int
	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			return a.ListUsers(ctx, page, perPage, search)
		}),
	}
	pagingFlags(list, &page, &perPage)
	list.Flags().StringVarP(&search, "search", "s", client.DefaultSearch, "filter by username or email")

	var in client.UserInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			return a.CreateUser(ctx, in)
		}),
	}
	create.Flags().StringVarP(&in.Username, "username", "u", "", "username (prompted when empty)")
	create.Flags().StringVarP(&in.Password, "password", "p", "", "password (prompted when empty)")
	create.Flags().StringVarP(&in.Email, "email", "e", "", "email address")
	create.Flags().StringVarP(&in.Role, "role", "r", "", "role: user or admin")

	update := &cobra.Command{
		Use:   "update <id> name=value...",
		Short: "Update fields of a user (email, role, is_active, password)",
		Args:  idArgs(2, -1),
	}
	update.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		id, _ := parseID(args[0])
		return a.UpdateUser(ctx, id, args[1:])
	})

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  idArgs(1, 1),
	}
	del.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		id, _ := parseID(args[0])
		return a.DeleteUser(ctx, id)
	})

	cmd.AddCommand(list, create, update, del)
	return cmd
}

func pagingFlags(cmd *cobra.Command, page, perPage *int) {
	cmd.Flags().IntVar(page, "page", client.DefaultPage, "page number")
	cmd.Flags().IntVar(perPage, "per-page", client.DefaultPerPage, "items per page")
}

// idArgs checks the argument count (max < 0 means unbounded) and that the
// first argument is a valid id. Cobra runs it before the app is opened.
func idArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min || (max >= 0 && len(args) > max) {
			return fmt.Errorf("%s: wrong number of arguments", cmd.UseLine())
		}
		_, err := parseID(args[0])
		return err
	}
}

func idsArgs(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%s: at least one report id is required", cmd.UseLine())
	}
	return nil
}
