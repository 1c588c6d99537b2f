package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordFixture struct {
	svc   *RecordService
	repos *fakeRepoManager
	files *fakeStorage
	log   *recLogger
}

func newRecordFixture(t *testing.T, deleteRequiresImage bool) *recordFixture {
	t.Helper()
	rm := newFakeRepoManager()
	fs := newFakeStorage()
	log := newRecLogger()
	cfg := &config.Config{DeleteRequiresImage: deleteRequiresImage}
	return &recordFixture{
		svc:   NewRecordService(nil, rm, fs, log, cfg),
		repos: rm,
		files: fs,
		log:   log,
	}
}

func upload(name, body string) *storage.Upload {
	return &storage.Upload{Filename: name, Body: strings.NewReader(body), Size: int64(len(body))}
}

var annInput = models.RecordInput{Name: "Ann", Email: "ann@x.io", Age: "30"}

var annUpdate = models.RecordUpdate{Name: strp("Ann"), Email: strp("ann@x.io"), Age: strp("30")}

func strp(s string) *string { return &s }

func TestCreate_WithoutFileHasNoImage(t *testing.T) {
	f := newRecordFixture(t, true)

	rec, err := f.svc.Create(context.Background(), annInput, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.HasImage())
	assert.Empty(t, f.files.files)
}

func TestCreate_WithFileReferencesStoredFile(t *testing.T) {
	f := newRecordFixture(t, true)

	rec, err := f.svc.Create(context.Background(), annInput, upload("me.png", "PNG"))
	require.NoError(t, err)
	require.True(t, rec.HasImage())
	assert.True(t, f.files.has(*rec.ImagePath))
	assert.Equal(t, "PNG", f.files.files[*rec.ImagePath])

	got, err := f.svc.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, *rec.ImagePath, *got.ImagePath)
}

func TestCreate_SaveErrorCreatesNothing(t *testing.T) {
	f := newRecordFixture(t, true)
	f.files.saveErr = errors.New("disk full")

	_, err := f.svc.Create(context.Background(), annInput, upload("me.png", "PNG"))
	assert.ErrorContains(t, err, "disk full")

	list, err := f.svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList(t *testing.T) {
	f := newRecordFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, annInput, nil)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, models.RecordInput{Name: "Bob"}, nil)
	require.NoError(t, err)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ann", list[0].Name)
	assert.Equal(t, "Bob", list[1].Name)

	f.repos.r.listErr = errors.New("db down")
	_, err = f.svc.List(ctx)
	assert.Error(t, err)
}

func TestUpdate_ReplacesImageAndRemovesOld(t *testing.T) {
	f := newRecordFixture(t, true)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, annInput, upload("old.png", "OLD"))
	require.NoError(t, err)
	oldPath := *rec.ImagePath

	upd, err := f.svc.Update(ctx, rec.ID, models.RecordUpdate{Name: strp("Ann B"), Email: strp("annb@x.io"), Age: strp("31")}, upload("new.png", "NEW"))
	require.NoError(t, err)
	require.True(t, upd.HasImage())
	assert.NotEqual(t, oldPath, *upd.ImagePath)
	assert.Equal(t, "Ann B", upd.Name)
	assert.Equal(t, "31", upd.Age)

	assert.False(t, f.files.has(oldPath))
	assert.True(t, f.files.has(*upd.ImagePath))

	entries := f.log.all()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1].attrs()
	assert.Equal(t, rec.ID, last["record_id"])
	assert.Equal(t, oldPath, last["image_path"])
	assert.Equal(t, "removed", last["outcome"])
}

func TestUpdate_WithoutFileKeepsImage(t *testing.T) {
	f := newRecordFixture(t, true)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, annInput, upload("me.png", "PNG"))
	require.NoError(t, err)

	upd, err := f.svc.Update(ctx, rec.ID, models.RecordUpdate{Name: strp("Renamed")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", upd.Name)
	assert.Equal(t, "ann@x.io", upd.Email)
	assert.Equal(t, "30", upd.Age)
	assert.Equal(t, *rec.ImagePath, *upd.ImagePath)
	assert.True(t, f.files.has(*rec.ImagePath))
	assert.Empty(t, f.files.deleted)
}

func TestUpdate_ImageOnlyKeepsFields(t *testing.T) {
	f := newRecordFixture(t, true)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, annInput, nil)
	require.NoError(t, err)

	upd, err := f.svc.Update(ctx, rec.ID, models.RecordUpdate{}, upload("me.png", "PNG"))
	require.NoError(t, err)
	assert.Equal(t, "Ann", upd.Name)
	assert.Equal(t, "ann@x.io", upd.Email)
	assert.Equal(t, "30", upd.Age)
	require.True(t, upd.HasImage())
	assert.True(t, f.files.has(*upd.ImagePath))

	upd, err = f.svc.Update(ctx, rec.ID, models.RecordUpdate{Age: strp("")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ann", upd.Name)
	assert.Empty(t, upd.Age)
}

func TestUpdate_OldImageRemovalFailureIsLoggedNotReturned(t *testing.T) {
	f := newRecordFixture(t, true)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, annInput, upload("old.png", "OLD"))
	require.NoError(t, err)
	f.files.delErr = errors.New("permission denied")

	ctx = logging.WithLogger(ctx, f.log.With("request_id", "req-1"))
	upd, err := f.svc.Update(ctx, rec.ID, annUpdate, upload("new.png", "NEW"))
	require.NoError(t, err)
	assert.True(t, upd.HasImage())

	var found bool
	for _, e := range f.log.all() {
		a := e.attrs()
		if a["outcome"] == "failed" {
			found = true
			assert.Equal(t, "warn", e.level)
			assert.Equal(t, rec.ID, a["record_id"])
			assert.Equal(t, "req-1", a["request_id"])
		}
	}
	assert.True(t, found, "expected a failed removal log entry")
}

func TestUpdate_NotFound(t *testing.T) {
	f := newRecordFixture(t, true)

	_, err := f.svc.Update(context.Background(), "missing", annUpdate, upload("x.png", "X"))
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, f.files.files)
}

func TestGet_NotFound(t *testing.T) {
	f := newRecordFixture(t, true)
	_, err := f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete_WithImageRemovesFileAndRecord(t *testing.T) {
	f := newRecordFixture(t, true)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, annInput, upload("me.png", "PNG"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, rec.ID))
	assert.False(t, f.files.has(*rec.ImagePath))
	assert.Equal(t, []string{rec.ID}, f.repos.r.deleted)

	_, err = f.svc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete_FileRemovalFailureStillDeletesRecord(t *testing.T) {
	f := newRecordFixture(t, true)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, annInput, upload("me.png", "PNG"))
	require.NoError(t, err)
	f.files.delErr = errors.New("io error")

	require.NoError(t, f.svc.Delete(ctx, rec.ID))
	assert.Equal(t, []string{rec.ID}, f.repos.r.deleted)
}

func TestDelete_WithoutImageIsNotFoundByDefault(t *testing.T) {
	f := newRecordFixture(t, true)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, annInput, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, rec.ID), common.ErrorNotFound)

	_, err = f.svc.Get(ctx, rec.ID)
	assert.NoError(t, err, "record must survive")
}

func TestDelete_WithoutImageDeletesWhenNotRequired(t *testing.T) {
	f := newRecordFixture(t, false)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, annInput, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, rec.ID))
	assert.Empty(t, f.files.deleted)

	_, err = f.svc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	for _, requires := range []bool{true, false} {
		f := newRecordFixture(t, requires)
		assert.ErrorIs(t, f.svc.Delete(context.Background(), "missing"), common.ErrorNotFound)
	}
}
