// Package cli implements the interactive terminal front end of the
// ReceitaSecreta client: a small REPL dispatching to the session,
// ingredient, and image services.
package cli
