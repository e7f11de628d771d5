package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/poshtyar/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-s", "-k", "-e", "-b", "-u", "-m", "-l", "-t"}

// parseFlags overlays command-line flags onto cfg.
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-g string   gRPC health bind address
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret
//	-k string   document encryption key, 64 hex characters
//	-e string   environment: development | production
//	-b string   storage backend: disk | s3
//	-u string   upload directory for the disk backend
//	-m string   mail provider: brevo | smtp | log
//	-l string   log level
//	-t int      session lifetime, minutes
//
// Only the flags above are taken from os.Args; the rest are left to other
// layers.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "HTTP address and port")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC health address and port")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "JWT secret")
	fs.StringVar(&cfg.EncryptionKey, "k", cfg.EncryptionKey, "document encryption key (hex)")
	fs.StringVar(&cfg.Environment, "e", cfg.Environment, "environment")
	fs.StringVar(&cfg.StorageBackend, "b", cfg.StorageBackend, "storage backend")
	fs.StringVar(&cfg.UploadDir, "u", cfg.UploadDir, "upload directory")
	fs.StringVar(&cfg.MailProvider, "m", cfg.MailProvider, "mail provider")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	sessionMinutes := fs.Int("t", int(cfg.SessionTTL.Minutes()), "session lifetime (in minutes)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.SessionTTL = time.Duration(*sessionMinutes) * time.Minute
	return nil
}
