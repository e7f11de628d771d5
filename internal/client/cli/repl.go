package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	SendOTP(ctx context.Context) error
	Login(ctx context.Context) error
	Verify(ctx context.Context) error
	Me(ctx context.Context) error
	Logout(ctx context.Context) error
	Forgot(ctx context.Context) error
	VerifyForgot(ctx context.Context) error
	Reset(ctx context.Context) error
	UploadAvatar(ctx context.Context) error
	UploadDocument(ctx context.Context) error
	Documents(ctx context.Context) error
	Download(ctx context.Context) error
}

const (
	guestHelp  = "Available commands: register, send-otp, login, verify, forgot, verify-forgot, reset, help, exit"
	signedHelp = "Available commands: me, upload-avatar, upload-document, documents, download, logout, help, exit"
)

// runREPL reads commands from reader until EOF or exit. Commands prompt
// through the same reader, so it must not be wrapped in another buffer.
// Command errors are reported by the commands themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("poshtyar %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(signedHelp)
			} else {
				printlnFn(guestHelp)
			}
		case "register":
			_ = a.Register(ctx)
		case "send-otp":
			_ = a.SendOTP(ctx)
		case "login":
			_ = a.Login(ctx)
		case "verify":
			_ = a.Verify(ctx)
		case "me":
			_ = a.Me(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "forgot":
			_ = a.Forgot(ctx)
		case "verify-forgot":
			_ = a.VerifyForgot(ctx)
		case "reset":
			_ = a.Reset(ctx)
		case "upload-avatar":
			_ = a.UploadAvatar(ctx)
		case "upload-document":
			_ = a.UploadDocument(ctx)
		case "documents", "ls":
			_ = a.Documents(ctx)
		case "download":
			_ = a.Download(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
