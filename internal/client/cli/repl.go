package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Devices(ctx context.Context) error
	Device(ctx context.Context) error
	AddDevice(ctx context.Context) error
	EditDevice(ctx context.Context) error
	DeleteDevice(ctx context.Context) error
	Fetch(ctx context.Context) error
	Products(ctx context.Context) error
	EditProduct(ctx context.Context) error
	Push(ctx context.Context) error
	AutoUpdate(ctx context.Context) error
	SetAutoUpdate(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ScaleHub CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - devices | d    — list registered devices
//	  - device         — show a single device (interactive id prompt)
//	  - adddevice      — register a new device
//	  - editdevice     — change a device's settings
//	  - deldevice      — remove a device
//	  - fetch          — read the product catalog off a scale
//	  - products       — browse a device's cached catalog
//	  - editproduct    — edit one cached product
//	  - push           — write the cached catalog to the scale
//	  - autoupdate     — show a device's auto-update settings
//	  - setautoupdate  — change a device's auto-update settings
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("hub> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (d)evices, device, adddevice, editdevice, deldevice, logout, exit")
				printlnFn("                    fetch, products, editproduct, push, autoupdate, setautoupdate")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "d", "devices":
			_ = a.Devices(ctx)

		case "device":
			_ = a.Device(ctx)

		case "adddevice":
			_ = a.AddDevice(ctx)

		case "editdevice":
			_ = a.EditDevice(ctx)

		case "deldevice":
			_ = a.DeleteDevice(ctx)

		case "fetch":
			_ = a.Fetch(ctx)

		case "products":
			_ = a.Products(ctx)

		case "editproduct":
			_ = a.EditProduct(ctx)

		case "push":
			_ = a.Push(ctx)

		case "autoupdate":
			_ = a.AutoUpdate(ctx)

		case "setautoupdate":
			_ = a.SetAutoUpdate(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
