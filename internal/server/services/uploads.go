package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/cryptox"
	"github.com/dmitrijs2005/poshtyar/internal/logging"
	"github.com/dmitrijs2005/poshtyar/internal/server/models"
	"github.com/dmitrijs2005/poshtyar/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/poshtyar/internal/server/storage"
	"github.com/google/uuid"
)

const (
	DefaultMaxAvatarSize   = 5 << 20
	DefaultMaxDocumentSize = 10 << 20
)

// Accepted extensions and the content types each may be declared with.
var (
	avatarTypes = map[string][]string{
		".jpg":  {"image/jpeg", "image/jpg"},
		".jpeg": {"image/jpeg", "image/jpg"},
		".png":  {"image/png"},
	}
	documentTypes = map[string][]string{
		".pdf":  {"application/pdf"},
		".doc":  {"application/msword"},
		".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}
)

// FileUpload is one multipart file as received from the client.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadLimits caps upload sizes in bytes. Zero means the default.
type UploadLimits struct {
	MaxAvatarSize   int64
	MaxDocumentSize int64
}

// UploadService stores avatars in the clear and documents encrypted.
type UploadService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.BlobStore
	cipher      *cryptox.FileCipher
	limits      UploadLimits
	logger      logging.Logger
	now         func() time.Time
}

func NewUploadService(db *sql.DB, m repomanager.RepositoryManager, store storage.BlobStore,
	cipher *cryptox.FileCipher, limits UploadLimits, logger logging.Logger) *UploadService {
	if limits.MaxAvatarSize <= 0 {
		limits.MaxAvatarSize = DefaultMaxAvatarSize
	}
	if limits.MaxDocumentSize <= 0 {
		limits.MaxDocumentSize = DefaultMaxDocumentSize
	}
	return &UploadService{
		db:          db,
		repomanager: m,
		store:       store,
		cipher:      cipher,
		limits:      limits,
		logger:      logger.With("module", "uploads"),
		now:         time.Now,
	}
}

// UploadAvatar replaces the user's avatar and returns a URL for it.
func (s *UploadService) UploadAvatar(ctx context.Context, userID string, f FileUpload) (string, error) {
	ext, err := checkType(f, avatarTypes)
	if err != nil {
		return "", err
	}
	data, err := readLimited(f, s.limits.MaxAvatarSize)
	if err != nil {
		return "", err
	}

	users := s.repomanager.Users(s.db)
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/avatar-%d-%s%s", storage.AvatarsPrefix, s.now().UnixMilli(), uuid.NewString(), ext)
	if err := s.store.Put(ctx, key, data, f.ContentType); err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	if err := users.UpdateAvatar(ctx, userID, key); err != nil {
		s.discard(ctx, key)
		return "", err
	}
	if user.Avatar != "" && user.Avatar != key {
		s.discard(ctx, user.Avatar)
	}

	s.logger.Info(ctx, "avatar uploaded", "user_id", userID, "key", key, "size", len(data))
	return s.store.URL(ctx, key)
}

// UploadDocument encrypts and stores a document and records its metadata.
func (s *UploadService) UploadDocument(ctx context.Context, userID string, f FileUpload) (*models.Document, error) {
	ext, err := checkType(f, documentTypes)
	if err != nil {
		return nil, err
	}
	data, err := readLimited(f, s.limits.MaxDocumentSize)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(data)

	blob, err := s.cipher.Encrypt(data)
	if err != nil {
		if errors.Is(err, cryptox.ErrInvalidInput) {
			return nil, common.ErrNoFile
		}
		return nil, fmt.Errorf("%w: encrypt document: %v", common.ErrorInternal, err)
	}

	key := fmt.Sprintf("%s/file-%d-%s%s.enc", storage.DocumentsPrefix, s.now().UnixMilli(), uuid.NewString(), ext)
	if err := s.store.Put(ctx, key, blob, "application/octet-stream"); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	doc, err := s.repomanager.Documents(s.db).Create(ctx, &models.Document{
		UserID:       userID,
		StorageKey:   key,
		OriginalName: filepath.Base(f.Filename),
		ContentType:  f.ContentType,
		Size:         int64(len(data)),
	})
	if err != nil {
		s.discard(ctx, key)
		return nil, err
	}

	s.logger.Info(ctx, "document uploaded", "user_id", userID, "document_id", doc.ID, "size", doc.Size)
	return doc, nil
}

// DownloadDocument returns the decrypted document. Documents of other users
// are reported as not found.
func (s *UploadService) DownloadDocument(ctx context.Context, userID, documentID string) (*models.Document, []byte, error) {
	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc.UserID != userID {
		return nil, nil, common.ErrorNotFound
	}

	blob, err := s.store.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := s.cipher.Decrypt(blob)
	if err != nil {
		s.logger.Error(ctx, "document failed integrity check", "document_id", doc.ID, "user_id", userID, "error", err)
		return nil, nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return doc, plaintext, nil
}

// ListDocuments returns the user's documents, newest first.
func (s *UploadService) ListDocuments(ctx context.Context, userID string) ([]*models.Document, error) {
	return s.repomanager.Documents(s.db).ListByUser(ctx, userID)
}

func (s *UploadService) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "failed to remove stored file", "key", key, "error", err)
	}
}

func checkType(f FileUpload, allowed map[string][]string) (string, error) {
	if f.Body == nil || f.Filename == "" {
		return "", common.ErrNoFile
	}
	ext := strings.ToLower(filepath.Ext(f.Filename))
	types, ok := allowed[ext]
	if !ok {
		return "", common.ErrUnsupportedFileType
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
	for _, t := range types {
		if ct == t {
			return ext, nil
		}
	}
	return "", common.ErrUnsupportedFileType
}

// readLimited reads the body, failing once it exceeds max regardless of the
// declared size.
func readLimited(f FileUpload, max int64) ([]byte, error) {
	if f.Size > max {
		return nil, common.ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(f.Body, max+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > max {
		return nil, common.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, common.ErrNoFile
	}
	return data, nil
}
