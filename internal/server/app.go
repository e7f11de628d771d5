// Package server wires the Poshtyar backend together: configuration,
// Postgres, blob storage, mail delivery, the HTTP API and the gRPC health
// endpoint. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/poshtyar/internal/cryptox"
	"github.com/dmitrijs2005/poshtyar/internal/logging"
	"github.com/dmitrijs2005/poshtyar/internal/server/auth"
	"github.com/dmitrijs2005/poshtyar/internal/server/config"
	gs "github.com/dmitrijs2005/poshtyar/internal/server/grpc"
	hs "github.com/dmitrijs2005/poshtyar/internal/server/http"
	"github.com/dmitrijs2005/poshtyar/internal/server/notifications"
	"github.com/dmitrijs2005/poshtyar/internal/server/otp"
	"github.com/dmitrijs2005/poshtyar/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/poshtyar/internal/server/services"
	"github.com/dmitrijs2005/poshtyar/internal/server/storage"
)

// multipart framing allowance on top of the largest accepted file
const uploadBodySlack = 1 << 20

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *hs.Server
	grpcServer *gs.GRPCServer
}

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, db, repomanager.NewPostgresRepositoryManager(), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) (*App, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	cipher, err := cryptox.NewFileCipher(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	tokens, err := auth.NewIssuer([]byte(c.SecretKey), c.SessionTTL, c.ResetTokenTTL)
	if err != nil {
		return nil, err
	}

	passwords, err := auth.NewPasswordHasher(c.BcryptCost)
	if err != nil {
		return nil, err
	}

	sender, err := notifications.New(notifications.Config{
		Provider:     c.MailProvider,
		From:         notifications.Address{Name: c.MailFromName, Email: c.MailFromAddress},
		BrevoAPIKey:  c.BrevoAPIKey,
		BrevoURL:     c.BrevoURL,
		SMTPHost:     c.SMTPHost,
		SMTPPort:     c.SMTPPort,
		SMTPUser:     c.SMTPUser,
		SMTPPassword: c.SMTPPassword,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}

	store, avatarDir, err := newBlobStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	engine := otp.NewEngine(db, rm, c.OTPTTL)
	authService := services.NewAuthService(db, rm, engine, tokens, passwords, sender, logger)
	uploadService := services.NewUploadService(db, rm, store, cipher, services.UploadLimits{
		MaxAvatarSize:   c.MaxAvatarSize,
		MaxDocumentSize: c.MaxDocumentSize,
	}, logger)

	maxFile := max(c.MaxAvatarSize, c.MaxDocumentSize)
	handler := hs.NewHandler(authService, uploadService, c.IsProduction(), logger)
	router := hs.NewRouter(hs.RouterConfig{
		CORSOrigin:    c.CORSOrigin,
		AvatarDir:     avatarDir,
		MaxUploadBody: maxFile + uploadBodySlack,
	}, handler)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		httpServer: hs.NewServer(c.HTTPAddr, router, logger),
		grpcServer: gs.NewGRPCServer(c.GRPCAddr, db, logger),
	}, nil
}

// newBlobStore returns the configured store and, for the disk backend, the
// directory to serve avatars from.
func newBlobStore(ctx context.Context, c *config.Config) (storage.BlobStore, string, error) {
	switch c.StorageBackend {
	case storage.BackendDisk:
		ds, err := storage.NewDiskStore(c.UploadDir, c.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return ds, filepath.Join(ds.Root(), storage.AvatarsPrefix), nil
	case storage.BackendS3:
		s3s, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
		if err != nil {
			return nil, "", err
		}
		return s3s, "", nil
	default:
		return nil, "", fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts both servers and blocks until a signal arrives or one of
// them fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server", "error", err)
			cancelFunc()
		}
	}()
	go func() {
		defer wg.Done()
		if err := app.grpcServer.Run(ctx); err != nil {
			app.logger.Error(ctx, "grpc server", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
