package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/client"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/models"
)

func (a *App) GetSettings(ctx context.Context) error {
	raw, err := a.api.GetSettings(ctx)
	if err != nil {
		return err
	}
	if a.rawJSON {
		a.printRaw(raw)
		return nil
	}

	s, err := models.Decode[map[string]any](raw)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(*s))
	for k := range *s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := newTable(a.out)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, k := range keys {
		v := fmt.Sprint((*s)[k])
		if k == "openrouter_api_key" && v != "" {
			v = "********"
		}
		fmt.Fprintf(w, "%s\t%s\n", k, v)
	}
	return w.Flush()
}

// UpdateSettings sends name=value pairs. Values are sent as strings, which
// is how the backend stores settings. With no pairs the user is prompted.
func (a *App) UpdateSettings(ctx context.Context, pairs []string) error {
	if len(pairs) == 0 {
		lines, err := GetMultiline(a.reader, "Enter settings in the format name=value", a.out)
		if err != nil {
			return err
		}
		pairs = lines
	}

	items, err := models.ParseAssignments(pairs)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("nothing to update")
	}

	settings := make(map[string]any, len(items))
	for _, it := range items {
		settings[it.Name] = it.Value
	}

	raw, err := a.api.UpdateSettings(ctx, settings)
	if err != nil {
		return err
	}
	a.printMessage(raw)
	return nil
}

func (a *App) ListUsers(ctx context.Context, page, perPage int, search string) error {
	raw, err := a.api.GetUsers(ctx, page, perPage, search)
	if err != nil {
		return err
	}
	if a.rawJSON {
		a.printRaw(raw)
		return nil
	}

	p, err := models.Decode[models.UserPage](raw)
	if err != nil {
		return err
	}
	if len(p.Users) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tACTIVE\tLAST LOGIN")
	for _, u := range p.Users {
		active := "-"
		if u.IsActive != nil {
			active = yesNo(*u.IsActive)
		}
		last := "-"
		if u.LastLogin != nil {
			last = *u.LastLogin
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Username, orDash(u.Email), u.Role, active, last)
	}
	_ = w.Flush()
	a.printPage(p.Page)
	return nil
}

func (a *App) CreateUser(ctx context.Context, in client.UserInput) error {
	if err := a.promptMissing(&in.Username, "Enter username"); err != nil {
		return err
	}
	if err := a.promptPassword(&in.Password); err != nil {
		return err
	}
	if in.Role != "" && !models.Role(in.Role).Valid() {
		return fmt.Errorf("invalid role %q (use user or admin)", in.Role)
	}

	raw, err := a.api.CreateUser(ctx, in)
	if err != nil {
		return err
	}
	a.printMessage(raw)
	return nil
}

// UpdateUser sends a partial update built from name=value pairs; booleans
// and numbers keep their JSON type (is_active=false).
func (a *App) UpdateUser(ctx context.Context, id int64, pairs []string) error {
	items, err := models.ParseAssignments(pairs)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("nothing to update")
	}

	raw, err := a.api.UpdateUser(ctx, id, models.AssignmentsToMap(items))
	if err != nil {
		return err
	}
	a.printMessage(raw)
	return nil
}

func (a *App) DeleteUser(ctx context.Context, id int64) error {
	raw, err := a.api.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	a.printMessage(raw)
	return nil
}
