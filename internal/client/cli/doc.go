// Package cli is the interactive Poshtyar command-line client.
//
// It talks to the account API over HTTP and keeps the session cookie for
// the lifetime of the process. Typical flow: register or login, enter the
// mailed code with verify, then use me, uploads and downloads. Password
// recovery is forgot, verify-forgot, reset.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
