package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool                     { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error       { return f.record("register") }
func (f *fakeExec) SendOTP(context.Context) error        { return f.record("send-otp") }
func (f *fakeExec) Login(context.Context) error          { return f.record("login") }
func (f *fakeExec) Me(context.Context) error             { return f.record("me") }
func (f *fakeExec) Forgot(context.Context) error         { return f.record("forgot") }
func (f *fakeExec) VerifyForgot(context.Context) error   { return f.record("verify-forgot") }
func (f *fakeExec) Reset(context.Context) error          { return f.record("reset") }
func (f *fakeExec) UploadAvatar(context.Context) error   { return f.record("upload-avatar") }
func (f *fakeExec) UploadDocument(context.Context) error { return f.record("upload-document") }
func (f *fakeExec) Documents(context.Context) error      { return f.record("documents") }
func (f *fakeExec) Download(context.Context) error       { return f.record("download") }
func (f *fakeExec) Verify(context.Context) error         { f.loggedIn = true; return f.record("verify") }
func (f *fakeExec) Logout(context.Context) error         { f.loggedIn = false; return f.record("logout") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"register",
		"send-otp",
		"login",
		"",
		"verify",
		"help",
		"me",
		"upload-avatar",
		"upload-document",
		"ls",
		"download",
		"logout",
		"forgot",
		"verify-forgot",
		"reset",
		"frobnicate",
		"exit",
		"me",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "guest" }, rdr(input))

	assert.Equal(t, []string{
		"register", "send-otp", "login", "verify", "me", "upload-avatar",
		"upload-document", "documents", "download", "logout", "forgot",
		"verify-forgot", "reset",
	}, exec.calls)

	assert.Contains(t, *out, guestHelp)
	assert.Contains(t, *out, signedHelp)
	assert.Contains(t, *out, "Unknown command: frobnicate")
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("me"))
	assert.Equal(t, []string{"me"}, exec.calls)
}
