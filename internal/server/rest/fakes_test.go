package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/auth"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/services"
	"github.com/dmitrijs2005/staffkeeper/internal/server/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// --- auth ---

type fakeAuth struct {
	*services.AuthService // Authorize only

	registered  map[string]string
	registerErr error
	roles       map[string]string
}

func newFakeAuth() *fakeAuth {
	cfg := &config.Config{SecretKey: testSecret, TokenValidityDuration: time.Hour}
	return &fakeAuth{
		AuthService: services.NewAuthService(nil, nil, logging.Nop{}, cfg),
		registered:  map[string]string{},
		roles:       map[string]string{},
	}
}

func (f *fakeAuth) Register(ctx context.Context, name, email, password string) (*models.Credential, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if _, ok := f.registered[email]; ok {
		return nil, common.ErrAlreadyExists
	}
	f.registered[email] = password
	f.roles[email] = common.RoleVisitor
	return &models.Credential{ID: uuid.NewString(), Name: name, Email: email, Role: common.RoleVisitor}, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	pw, ok := f.registered[email]
	if !ok {
		return nil, common.ErrNoRecord
	}
	if pw != password {
		return nil, common.ErrPasswordIncorrect
	}
	tok, err := auth.GenerateToken(email, f.roles[email], []byte(testSecret), time.Hour)
	if err != nil {
		return nil, err
	}
	return &services.LoginResult{Token: tok, Role: f.roles[email]}, nil
}

// --- records ---

type fakeRecords struct {
	mu      sync.Mutex
	rows    map[string]*models.UserRecord
	err     error
	uploads []string
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{rows: map[string]*models.UserRecord{}}
}

func (f *fakeRecords) List(ctx context.Context) ([]*models.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.UserRecord, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRecords) Get(ctx context.Context, id string) (*models.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r, nil
}

func (f *fakeRecords) store(r *models.UserRecord, u *storage.Upload) error {
	if u != nil {
		data, err := io.ReadAll(u.Body)
		if err != nil {
			return err
		}
		f.uploads = append(f.uploads, string(data))
		p := "uploads/" + u.Filename
		r.ImagePath = &p
	}
	return nil
}

func (f *fakeRecords) Create(ctx context.Context, in models.RecordInput, u *storage.Upload) (*models.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r := &models.UserRecord{ID: uuid.NewString(), Name: in.Name, Email: in.Email, Age: in.Age}
	if err := f.store(r, u); err != nil {
		return nil, err
	}
	f.rows[r.ID] = r
	return r, nil
}

func (f *fakeRecords) Update(ctx context.Context, id string, in models.RecordUpdate, u *storage.Upload) (*models.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	in.Apply(r)
	if err := f.store(r, u); err != nil {
		return nil, err
	}
	return r, nil
}

func (f *fakeRecords) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	r, ok := f.rows[id]
	if !ok || !r.HasImage() {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

// --- chatbot ---

type fakeChatbot struct {
	enabled bool
	reply   string
	err     error
	got     string
}

func (f *fakeChatbot) Enabled() bool { return f.enabled }

func (f *fakeChatbot) Ask(ctx context.Context, message string) (json.RawMessage, error) {
	f.got = message
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.reply), nil
}

// --- storage ---

type fakeFiles struct {
	loc *storage.Location
	err error
}

func (f *fakeFiles) Save(context.Context, *storage.Upload) (string, error) {
	return "", errors.New("not used")
}
func (f *fakeFiles) Delete(context.Context, string) error { return errors.New("not used") }
func (f *fakeFiles) Locate(ctx context.Context, name string) (*storage.Location, error) {
	return f.loc, f.err
}

// --- db ---

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

// --- harness ---

type harness struct {
	auth    *fakeAuth
	records *fakeRecords
	chatbot *fakeChatbot
	files   storage.FileStorage
	db      *fakePinger
	router  *gin.Engine
}

type harnessOpt func(*harness)

func withChatbot(c *fakeChatbot) harnessOpt    { return func(h *harness) { h.chatbot = c } }
func withFiles(fs storage.FileStorage) harnessOpt { return func(h *harness) { h.files = fs } }
func withDB(p *fakePinger) harnessOpt          { return func(h *harness) { h.db = p } }

func newHarness(t *testing.T, opts ...harnessOpt) *harness {
	t.Helper()
	h := &harness{
		auth:    newFakeAuth(),
		records: newFakeRecords(),
		chatbot: &fakeChatbot{},
		files:   &fakeFiles{err: common.ErrorNotFound},
		db:      &fakePinger{},
	}
	for _, o := range opts {
		o(h)
	}

	handler := NewHandler(HandlerOptions{
		Auth:     h.auth,
		Records:  h.records,
		Chatbot:  h.chatbot,
		Files:    h.files,
		DB:       h.db,
		Logger:   logging.Nop{},
		TokenTTL: time.Hour,
	})
	h.router = NewRouter(handler, []string{"http://localhost:5173"})
	return h
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}
