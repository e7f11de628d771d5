// Package memory holds map-backed repositories with the same contracts as
// the Postgres ones. Service and transport tests run against it.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/dbx"
	"github.com/dmitrijs2005/poshtyar/internal/server/models"
	"github.com/dmitrijs2005/poshtyar/internal/server/repositories/documents"
	"github.com/dmitrijs2005/poshtyar/internal/server/repositories/users"
)

// Manager implements repomanager.RepositoryManager. The DBTX handed to the
// factories is ignored; every handle sees the same maps.
type Manager struct {
	UsersRepo     *UsersRepository
	DocumentsRepo *DocumentsRepository
}

func NewManager() *Manager {
	return &Manager{UsersRepo: NewUsersRepository(), DocumentsRepo: NewDocumentsRepository()}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *Manager) Users(dbx.DBTX) users.Repository             { return m.UsersRepo }
func (m *Manager) Documents(dbx.DBTX) documents.Repository     { return m.DocumentsRepo }

// UsersRepository is safe for concurrent use. Errors in Fail are returned by
// the method of the same name instead of doing any work.
type UsersRepository struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	nextID int
	Fail   map[string]error
}

func NewUsersRepository() *UsersRepository {
	return &UsersRepository{byID: map[string]*models.User{}, Fail: map[string]error{}}
}

func (r *UsersRepository) failure(method string) error {
	return r.Fail[method]
}

func clone(u *models.User) *models.User {
	c := *u
	if u.Challenge != nil {
		ch := *u.Challenge
		c.Challenge = &ch
	}
	return &c
}

func (r *UsersRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("Create"); err != nil {
		return nil, err
	}
	for _, u := range r.byID {
		if u.CompanyEmail == user.CompanyEmail {
			return nil, common.ErrorAlreadyExists
		}
	}
	r.nextID++
	user.ID = "user-" + strconv.Itoa(r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Role == "" {
		user.Role = common.RoleUser
	}
	r.byID[user.ID] = clone(user)
	return user, nil
}

func (r *UsersRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *UsersRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("GetByEmail"); err != nil {
		return nil, err
	}
	return r.byEmailLocked(email)
}

func (r *UsersRepository) GetByEmailForUpdate(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("GetByEmailForUpdate"); err != nil {
		return nil, err
	}
	return r.byEmailLocked(email)
}

func (r *UsersRepository) byEmailLocked(email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.CompanyEmail == email {
			return clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UsersRepository) SetChallenge(_ context.Context, userID string, c models.OTPChallenge) error {
	return r.update("SetChallenge", userID, func(u *models.User) { u.Challenge = &c })
}

func (r *UsersRepository) ConsumeChallenge(_ context.Context, userID string) error {
	return r.update("ConsumeChallenge", userID, func(u *models.User) {
		u.Challenge = nil
		u.IsVerified = true
	})
}

func (r *UsersRepository) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	return r.update("UpdatePassword", userID, func(u *models.User) { u.PasswordHash = passwordHash })
}

func (r *UsersRepository) UpdateAvatar(_ context.Context, userID, avatar string) error {
	return r.update("UpdateAvatar", userID, func(u *models.User) { u.Avatar = avatar })
}

func (r *UsersRepository) update(method, userID string, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure(method); err != nil {
		return err
	}
	u, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

// DocumentsRepository is safe for concurrent use.
type DocumentsRepository struct {
	mu     sync.Mutex
	byID   map[string]*models.Document
	nextID int
	Fail   map[string]error
}

func NewDocumentsRepository() *DocumentsRepository {
	return &DocumentsRepository{byID: map[string]*models.Document{}, Fail: map[string]error{}}
}

func (r *DocumentsRepository) Create(_ context.Context, doc *models.Document) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.Fail["Create"]; err != nil {
		return nil, err
	}
	r.nextID++
	doc.ID = "doc-" + strconv.Itoa(r.nextID)
	doc.CreatedAt = time.Now()
	c := *doc
	r.byID[doc.ID] = &c
	return doc, nil
}

func (r *DocumentsRepository) GetByID(_ context.Context, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.Fail["GetByID"]; err != nil {
		return nil, err
	}
	d, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *d
	return &c, nil
}

func (r *DocumentsRepository) ListByUser(_ context.Context, userID string) ([]*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.Fail["ListByUser"]; err != nil {
		return nil, err
	}
	var out []*models.Document
	for _, d := range r.byID {
		if d.UserID == userID {
			c := *d
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
