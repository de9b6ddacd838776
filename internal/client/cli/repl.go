package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Recipes(ctx context.Context) error
	AddRecipe(ctx context.Context) error
	Ingredients(ctx context.Context, recipeID string) error
	Images(ctx context.Context, recipeID string) error
	Upload(ctx context.Context, recipeID string, paths []string) error
	SetPrincipal(ctx context.Context, recipeID, imageID string) error
	DescribeImage(ctx context.Context, recipeID, imageID, text string) error
	RemoveImage(ctx context.Context, recipeID, imageID string) error
	Reorder(ctx context.Context, recipeID, imageID string, position int) error
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on a. Unknown commands are reported back to the
// user. The loop exits on scanner EOF or when the user types "exit"/"quit".
// Handler errors are printed and the loop keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("receita %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: recipes, addrecipe, ingredients <id>, images <id>, upload <id> <files...>, principal <id> <imageId>, describe <id> <imageId> <text>, reorder <id> <imageId> <pos>, rmimage <id> <imageId>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)

		case "recipes":
			err = a.Recipes(ctx)
		case "addrecipe":
			err = a.AddRecipe(ctx)

		case "ingredients":
			err = a.Ingredients(ctx, argAt(args, 0))
		case "images":
			if len(args) < 1 {
				printlnFn("usage: images <recipeId>")
				continue
			}
			err = a.Images(ctx, args[0])
		case "upload":
			if len(args) < 2 {
				printlnFn("usage: upload <recipeId> <files...>")
				continue
			}
			err = a.Upload(ctx, args[0], args[1:])
		case "principal":
			if len(args) < 2 {
				printlnFn("usage: principal <recipeId> <imageId>")
				continue
			}
			err = a.SetPrincipal(ctx, args[0], args[1])
		case "describe":
			if len(args) < 3 {
				printlnFn("usage: describe <recipeId> <imageId> <text>")
				continue
			}
			err = a.DescribeImage(ctx, args[0], args[1], strings.Join(args[2:], " "))
		case "reorder":
			if len(args) < 3 {
				printlnFn("usage: reorder <recipeId> <imageId> <position>")
				continue
			}
			pos, convErr := strconv.Atoi(args[2])
			if convErr != nil {
				printlnFn("position must be a number")
				continue
			}
			err = a.Reorder(ctx, args[0], args[1], pos)
		case "rmimage":
			if len(args) < 2 {
				printlnFn("usage: rmimage <recipeId> <imageId>")
				continue
			}
			err = a.RemoveImage(ctx, args[0], args[1])

		case "exit", "quit":
			return
		default:
			printlnFn("Unknown command. Type 'help' for commands.")
		}

		if err != nil {
			printlnFn(fmt.Sprintf("error: %v", err))
		}
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
