package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to ReceiptVault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(a.out, "rvault> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: add, list, show, delete, export, import, info, reset, exit")
		case "add":
			a.add(ctx)
		case "list":
			a.list(ctx)
		case "show":
			a.show(ctx)
		case "delete":
			a.delete(ctx)
		case "export":
			a.export(ctx)
		case "import":
			a.importArchive(ctx)
		case "info":
			a.info(ctx)
		case "reset":
			a.reset(ctx)
		case "exit", "quit":
			return
		default:
			fmt.Fprintf(a.out, "Unknown command %q, type 'help'\n", cmd)
		}
	}
}
