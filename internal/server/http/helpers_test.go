package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/cryptox"
	"github.com/dmitrijs2005/poshtyar/internal/logging"
	"github.com/dmitrijs2005/poshtyar/internal/server/auth"
	"github.com/dmitrijs2005/poshtyar/internal/server/models"
	"github.com/dmitrijs2005/poshtyar/internal/server/otp"
	"github.com/dmitrijs2005/poshtyar/internal/server/repositories/memory"
	"github.com/dmitrijs2005/poshtyar/internal/server/services"
	"github.com/dmitrijs2005/poshtyar/internal/server/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type outbox struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (o *outbox) SendOTPEmail(_ context.Context, to, _, code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.codes[to] = code
	return nil
}

func (o *outbox) code(t *testing.T, to string) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	c, ok := o.codes[to]
	require.True(t, ok, "no code sent to %s", to)
	return c
}

type apiFixture struct {
	router *gin.Engine
	repos  *memory.Manager
	mail   *outbox
	tokens *auth.Issuer
	store  *storage.DiskStore
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	return newAPIFixtureWithCookies(t, false)
}

func newAPIFixtureWithCookies(t *testing.T, secureCookies bool) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := memory.NewManager()
	tokens, err := auth.NewIssuer([]byte("http-test-secret"), 24*time.Hour, 10*time.Minute)
	require.NoError(t, err)
	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	mail := &outbox{codes: map[string]string{}}

	store, err := storage.NewDiskStore(t.TempDir(), "http://localhost:5000")
	require.NoError(t, err)
	cipher, err := cryptox.NewFileCipher(testKey)
	require.NoError(t, err)

	authSvc := services.NewAuthService(db, repos, otp.NewEngine(db, repos, 10*time.Minute), tokens, hasher, mail, logging.Nop{})
	uploadSvc := services.NewUploadService(db, repos, store, cipher, services.UploadLimits{MaxAvatarSize: 1024, MaxDocumentSize: 64 << 10}, logging.Nop{})

	h := NewHandler(authSvc, uploadSvc, secureCookies, logging.Nop{})
	router := NewRouter(RouterConfig{
		CORSOrigin:    "https://demo.poshtyar.com",
		AvatarDir:     filepath.Join(store.Root(), storage.AvatarsPrefix),
		MaxUploadBody: 128 << 10,
	}, h)

	return &apiFixture{router: router, repos: repos, mail: mail, tokens: tokens, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) upload(t *testing.T, path, filename, contentType string, data []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// sessionFor creates a verified user directly in the store and returns a
// cookie carrying a valid session for it.
func (f *apiFixture) sessionFor(t *testing.T, email string) (*models.User, *http.Cookie) {
	t.Helper()
	u, err := f.repos.UsersRepo.Create(context.Background(), &models.User{
		CompanyName:  "Org " + email,
		CompanyEmail: email,
		IsVerified:   true,
	})
	require.NoError(t, err)
	token, err := f.tokens.IssueSession(u)
	require.NoError(t, err)
	return u, &http.Cookie{Name: common.SessionCookieName, Value: token}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			return c
		}
	}
	return nil
}

var registration = map[string]string{
	"companyName":        "Acme Logistics",
	"companyEmail":       "Ops@Acme.io",
	"password":           "correct-horse",
	"voicePhoneNumber":   "+98 21 5555 0000",
	"organizationalRole": "manager",
}

func (f *apiFixture) doRaw(t *testing.T, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}
