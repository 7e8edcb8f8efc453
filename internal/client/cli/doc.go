// Package cli implements dropctl, the command-line client of the drop
// analyzer API.
//
// NewRootCmd builds the cobra command tree. Each command loads the
// configuration, opens the session store (SQLite, or memory with
// --no-persist) and calls the API through an App. "dropctl shell" starts an
// interactive loop that keeps the session between commands and asks for
// credentials again when the server rejects the token.
package cli
