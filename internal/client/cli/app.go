package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/poshtyar/internal/client/api"
	"github.com/dmitrijs2005/poshtyar/internal/client/config"
)

// apiClient is the part of *api.Client the commands use.
type apiClient interface {
	HasSession() bool
	Ping(ctx context.Context) error
	Register(ctx context.Context, req api.RegisterRequest) (string, error)
	SendOTP(ctx context.Context, email string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyOTP(ctx context.Context, email, code string) (*api.Profile, error)
	Me(ctx context.Context) (*api.Profile, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	VerifyForgotPasswordOTP(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) (string, error)
	UploadAvatar(ctx context.Context, localPath string) (string, error)
	UploadDocument(ctx context.Context, localPath string) (*api.UploadedDocument, error)
	ListDocuments(ctx context.Context) ([]api.DocumentInfo, error)
	DownloadDocument(ctx context.Context, id string) ([]byte, string, error)
}

type App struct {
	config *config.Config
	api    apiClient
	reader *bufio.Reader
	out    io.Writer

	// email is the address of the flow in progress.
	email      string
	resetToken string
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.NewClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, api: client, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.HasSession()
}

func (a *App) status() string {
	switch {
	case a.isLoggedIn():
		return a.email + " (signed in)"
	case a.email != "":
		return a.email
	default:
		return "guest"
	}
}

func (a *App) Run(ctx context.Context) {
	if err := a.api.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "warning: %s is not reachable: %v\n", a.config.ServerURL, err)
	}
	runREPL(ctx, a, a.status, a.reader)
}
