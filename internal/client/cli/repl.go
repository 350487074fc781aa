package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Sync(ctx context.Context) error
	Stats(ctx context.Context, period string) error
	Export(ctx context.Context, format string, upload bool) error
	SetUser(ctx context.Context, name string) error
	SetAlerts(ctx context.Context, on bool) error
	Status(ctx context.Context) error
	Logout(ctx context.Context) error
}

const helpText = `Available commands:
  add                               record a reading
  list                              list readings of the current user
  show <id>                         show one reading
  delete <id>                       delete a local reading
  clear                             delete all local readings
  sync                              push pending readings and pull from the server
  stats [day|week|month|quarter|year]
  export <csv|json|txt> [upload]
  user <name>                       switch the current user
  alerts on|off                     toggle critical-level alerts
  status                            show connection and sync state
  logout                            forget the stored credential
  exit | quit`

// runREPL reads commands line by line from reader and dispatches them to a.
// Handler errors are printed and the loop continues. The loop exits on EOF
// or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("glucosync %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "add":
			report(a.Add(ctx))

		case "l", "list":
			report(a.List(ctx))

		case "show", "delete":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			if cmd == "show" {
				report(a.Show(ctx, args[0]))
			} else {
				report(a.Delete(ctx, args[0]))
			}

		case "clear":
			report(a.Clear(ctx))

		case "sync":
			report(a.Sync(ctx))

		case "stats":
			period := ""
			if len(args) > 0 {
				period = args[0]
			}
			report(a.Stats(ctx, period))

		case "export":
			if len(args) == 0 || len(args) > 2 || (len(args) == 2 && args[1] != "upload") {
				printlnFn("Usage: export <csv|json|txt> [upload]")
				continue
			}
			report(a.Export(ctx, args[0], len(args) == 2))

		case "user":
			if len(args) == 0 {
				printlnFn("Usage: user <name>")
				continue
			}
			report(a.SetUser(ctx, strings.Join(args, " ")))

		case "alerts":
			if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
				printlnFn("Usage: alerts on|off")
				continue
			}
			report(a.SetAlerts(ctx, args[0] == "on"))

		case "status":
			report(a.Status(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}
