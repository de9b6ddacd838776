package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	sess := a.session.Session()
	if sess.User != nil {
		return fmt.Sprintf("(%s)", sess.User.Username)
	}
	return ""
}

// Root runs the interactive loop on stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Println("ReceitaSecreta CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
