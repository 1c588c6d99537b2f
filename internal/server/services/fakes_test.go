package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/records"
	"github.com/dmitrijs2005/staffkeeper/internal/server/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

// --- credentials ---

type fakeCredentialsRepo struct {
	mu        sync.Mutex
	byEmail   map[string]*models.Credential
	createErr error
	getErr    error
	existsErr error
}

func newFakeCredentialsRepo() *fakeCredentialsRepo {
	return &fakeCredentialsRepo{byEmail: map[string]*models.Credential{}}
}

func (f *fakeCredentialsRepo) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[c.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	cp := *c
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	f.byEmail[c.Email] = &cp
	return &cp, nil
}

func (f *fakeCredentialsRepo) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCredentialsRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

// --- records ---

type fakeRecordsRepo struct {
	mu        sync.Mutex
	rows      map[string]*models.UserRecord
	order     []string
	listErr   error
	updateErr error
	deleted   []string
}

func newFakeRecordsRepo() *fakeRecordsRepo {
	return &fakeRecordsRepo{rows: map[string]*models.UserRecord{}}
}

func clone(r *models.UserRecord) *models.UserRecord {
	cp := *r
	if r.ImagePath != nil {
		p := *r.ImagePath
		cp.ImagePath = &p
	}
	return &cp
}

func (f *fakeRecordsRepo) put(r *models.UserRecord) *models.UserRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	f.rows[r.ID] = clone(r)
	f.order = append(f.order, r.ID)
	return r
}

func (f *fakeRecordsRepo) List(ctx context.Context) ([]*models.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.UserRecord, 0, len(f.rows))
	for _, id := range f.order {
		if r, ok := f.rows[id]; ok {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

func (f *fakeRecordsRepo) GetByID(ctx context.Context, id string) (*models.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r), nil
}

func (f *fakeRecordsRepo) Create(ctx context.Context, r *models.UserRecord) (*models.UserRecord, error) {
	return f.put(r), nil
}

func (f *fakeRecordsRepo) Update(ctx context.Context, r *models.UserRecord) (*models.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.rows[r.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	r.UpdatedAt = time.Now()
	f.rows[r.ID] = clone(r)
	return r, nil
}

func (f *fakeRecordsRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// --- repomanager ---

type fakeRepoManager struct {
	c *fakeCredentialsRepo
	r *fakeRecordsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{c: newFakeCredentialsRepo(), r: newFakeRecordsRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentials.Repository { return m.c }
func (m *fakeRepoManager) Records(db dbx.DBTX) records.Repository         { return m.r }

// --- storage ---

type fakeStorage struct {
	mu      sync.Mutex
	files   map[string]string
	seq     int
	saveErr error
	delErr  error
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string]string{}}
}

func (s *fakeStorage) Save(ctx context.Context, u *storage.Upload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(u.Body)
	if err != nil {
		return "", err
	}
	s.seq++
	p := fmt.Sprintf("uploads/%d-%s", s.seq, u.Filename)
	s.files[p] = string(data)
	return p, nil
}

func (s *fakeStorage) Delete(ctx context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, p)
	if s.delErr != nil {
		return s.delErr
	}
	if _, ok := s.files[p]; !ok {
		return errors.New("no such file")
	}
	delete(s.files, p)
	return nil
}

func (s *fakeStorage) Locate(ctx context.Context, name string) (*storage.Location, error) {
	return nil, common.ErrorNotFound
}

func (s *fakeStorage) has(p string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[p]
	return ok
}

// --- logger ---

type logEntry struct {
	level string
	msg   string
	args  []any
}

// recLogger records entries; With-args are prepended to every entry.
type recLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
	base    []any
}

func newRecLogger() *recLogger {
	return &recLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *recLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := append(append([]any{}, l.base...), args...)
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, args: all})
}

func (l *recLogger) Debug(_ context.Context, msg string, args ...any) { l.add("debug", msg, args) }
func (l *recLogger) Info(_ context.Context, msg string, args ...any)  { l.add("info", msg, args) }
func (l *recLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recLogger) Error(_ context.Context, msg string, args ...any) { l.add("error", msg, args) }
func (l *recLogger) With(args ...any) logging.Logger {
	return &recLogger{mu: l.mu, entries: l.entries, base: append(append([]any{}, l.base...), args...)}
}

func (l *recLogger) all() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry{}, (*l.entries)...)
}

// attrs flattens key/value args into a map.
func (e logEntry) attrs() map[string]any {
	m := map[string]any{}
	for i := 0; i+1 < len(e.args); i += 2 {
		if k, ok := e.args[i].(string); ok {
			m[k] = e.args[i+1]
		}
	}
	return m
}
