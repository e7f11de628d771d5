package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/poshtyar/internal/client/api"
)

// getSimpleText and getPassword are indirections swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var errEmpty = errors.New("value is required")

func (a *App) ask(prompt string) (string, error) {
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", errEmpty
	}
	return v, nil
}

// askEmail reuses the address of the current flow when there is one.
func (a *App) askEmail() (string, error) {
	if a.email != "" {
		v, err := getSimpleText(a.reader, fmt.Sprintf("Company email [%s]", a.email), a.out)
		if err != nil {
			return "", err
		}
		if v == "" {
			return a.email, nil
		}
		a.email = strings.ToLower(v)
		return a.email, nil
	}
	v, err := a.ask("Company email")
	if err != nil {
		return "", err
	}
	a.email = strings.ToLower(v)
	return a.email, nil
}

func (a *App) report(err error) error {
	fmt.Fprintf(a.out, "error: %v\n", err)
	return err
}

func (a *App) say(msg string) {
	fmt.Fprintln(a.out, msg)
}

func (a *App) Register(ctx context.Context) error {
	name, err := a.ask("Company name")
	if err != nil {
		return a.report(err)
	}
	email, err := a.askEmail()
	if err != nil {
		return a.report(err)
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return a.report(err)
	}
	phone, err := a.ask("Voice phone number")
	if err != nil {
		return a.report(err)
	}
	website, err := getSimpleText(a.reader, "Website (optional)", a.out)
	if err != nil {
		return a.report(err)
	}
	role, err := a.ask("Organizational role (manager, technical, operator, public-relations)")
	if err != nil {
		return a.report(err)
	}

	msg, err := a.api.Register(ctx, api.RegisterRequest{
		CompanyName:        name,
		CompanyEmail:       email,
		Password:           password,
		VoicePhoneNumber:   phone,
		Website:            website,
		OrganizationalRole: role,
	})
	if err != nil {
		return a.report(err)
	}
	a.say(msg + ". Run verify to enter the code.")
	return nil
}

func (a *App) SendOTP(ctx context.Context) error {
	email, err := a.askEmail()
	if err != nil {
		return a.report(err)
	}
	msg, err := a.api.SendOTP(ctx, email)
	if err != nil {
		return a.report(err)
	}
	a.say(msg)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.askEmail()
	if err != nil {
		return a.report(err)
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return a.report(err)
	}
	msg, err := a.api.Login(ctx, email, password)
	if err != nil {
		return a.report(err)
	}
	a.say(msg + ". Run verify to enter the code.")
	return nil
}

func (a *App) Verify(ctx context.Context) error {
	email, err := a.askEmail()
	if err != nil {
		return a.report(err)
	}
	code, err := a.ask("Verification code")
	if err != nil {
		return a.report(err)
	}
	p, err := a.api.VerifyOTP(ctx, email, code)
	if err != nil {
		return a.report(err)
	}
	a.say(fmt.Sprintf("Signed in as %s (verified: %t)", p.CompanyEmail, p.IsVerified))
	return nil
}

func (a *App) Me(ctx context.Context) error {
	p, err := a.api.Me(ctx)
	if err != nil {
		return a.report(err)
	}
	a.say(fmt.Sprintf("id: %s\ncompany: %s\nemail: %s\nrole: %s\nverified: %t",
		p.ID, p.CompanyName, p.CompanyEmail, p.Role, p.IsVerified))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		return a.report(err)
	}
	a.email = ""
	a.say("Logged out")
	return nil
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := a.askEmail()
	if err != nil {
		return a.report(err)
	}
	msg, err := a.api.ForgotPassword(ctx, email)
	if err != nil {
		return a.report(err)
	}
	a.say(msg + ". Run verify-forgot to enter the code.")
	return nil
}

func (a *App) VerifyForgot(ctx context.Context) error {
	email, err := a.askEmail()
	if err != nil {
		return a.report(err)
	}
	code, err := a.ask("Verification code")
	if err != nil {
		return a.report(err)
	}
	token, err := a.api.VerifyForgotPasswordOTP(ctx, email, code)
	if err != nil {
		return a.report(err)
	}
	a.resetToken = token
	a.say("Code accepted. Run reset to choose a new password.")
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	if a.resetToken == "" {
		return a.report(errors.New("no reset in progress, run forgot first"))
	}
	password, err := getPassword("New password", a.out)
	if err != nil {
		return a.report(err)
	}
	msg, err := a.api.ResetPassword(ctx, a.resetToken, password)
	if err != nil {
		return a.report(err)
	}
	a.resetToken = ""
	a.say(msg)
	return nil
}

func (a *App) UploadAvatar(ctx context.Context) error {
	path, err := a.ask("Path to a jpeg or png image")
	if err != nil {
		return a.report(err)
	}
	url, err := a.api.UploadAvatar(ctx, path)
	if err != nil {
		return a.report(err)
	}
	a.say("Avatar uploaded: " + url)
	return nil
}

func (a *App) UploadDocument(ctx context.Context) error {
	path, err := a.ask("Path to a pdf, doc or docx file")
	if err != nil {
		return a.report(err)
	}
	doc, err := a.api.UploadDocument(ctx, path)
	if err != nil {
		return a.report(err)
	}
	a.say(fmt.Sprintf("Document stored encrypted, id %s", doc.ID))
	return nil
}

func (a *App) Documents(ctx context.Context) error {
	docs, err := a.api.ListDocuments(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(docs) == 0 {
		a.say("No documents")
		return nil
	}
	for _, d := range docs {
		a.say(fmt.Sprintf("%s  %-30s %8d bytes  %s", d.ID, d.Name, d.Size, d.CreatedAt.Format("2006-01-02 15:04")))
	}
	return nil
}

func (a *App) Download(ctx context.Context) error {
	id, err := a.ask("Document id")
	if err != nil {
		return a.report(err)
	}
	dir, err := getSimpleText(a.reader, "Save to directory (default: current)", a.out)
	if err != nil {
		return a.report(err)
	}
	if dir == "" {
		dir = "."
	}

	data, name, err := a.api.DownloadDocument(ctx, id)
	if err != nil {
		return a.report(err)
	}

	target := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return a.report(err)
	}
	a.say(fmt.Sprintf("Saved %d bytes to %s", len(data), target))
	return nil
}
