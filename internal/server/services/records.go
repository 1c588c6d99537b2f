package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffkeeper/internal/server/storage"
)

// Outcomes reported in the image removal log entry.
const (
	imageRemoved      = "removed"
	imageRemoveFailed = "failed"
)

// RecordService manages user records and their images. The record store and
// the file storage are not updated atomically: an image is removed before
// the record change that stops referencing it, and removal failures are
// only logged.
type RecordService struct {
	db                  *sql.DB
	repomanager         repomanager.RepositoryManager
	files               storage.FileStorage
	logger              logging.Logger
	deleteRequiresImage bool
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, fs storage.FileStorage, l logging.Logger, cfg *config.Config) *RecordService {
	return &RecordService{
		db:                  db,
		repomanager:         m,
		files:               fs,
		logger:              l.With("module", "record_service"),
		deleteRequiresImage: cfg.DeleteRequiresImage,
	}
}

func (s *RecordService) List(ctx context.Context) ([]*models.UserRecord, error) {
	return s.repomanager.Records(s.db).List(ctx)
}

func (s *RecordService) Get(ctx context.Context, id string) (*models.UserRecord, error) {
	return s.repomanager.Records(s.db).GetByID(ctx, id)
}

// Create stores the optional upload first and records its path.
func (s *RecordService) Create(ctx context.Context, in models.RecordInput, upload *storage.Upload) (*models.UserRecord, error) {
	rec := &models.UserRecord{Name: in.Name, Email: in.Email, Age: in.Age}

	if upload != nil {
		p, err := s.files.Save(ctx, upload)
		if err != nil {
			return nil, fmt.Errorf("error saving image: %w", err)
		}
		rec.ImagePath = &p
	}

	return s.repomanager.Records(s.db).Create(ctx, rec)
}

// Update overwrites the fields present in in. When a new image is supplied
// it replaces the old one, which is removed best-effort.
func (s *RecordService) Update(ctx context.Context, id string, in models.RecordUpdate, upload *storage.Upload) (*models.UserRecord, error) {
	repo := s.repomanager.Records(s.db)

	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upload != nil {
		p, err := s.files.Save(ctx, upload)
		if err != nil {
			return nil, fmt.Errorf("error saving image: %w", err)
		}
		if rec.HasImage() {
			s.removeImage(ctx, rec.ID, *rec.ImagePath)
		}
		rec.ImagePath = &p
	}

	in.Apply(rec)

	return repo.Update(ctx, rec)
}

// Delete removes the record and, first, its image. With
// deleteRequiresImage set, a record without an image is reported as
// common.ErrorNotFound and kept.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Records(s.db)

	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !rec.HasImage() {
		if s.deleteRequiresImage {
			return common.ErrorNotFound
		}
		return repo.Delete(ctx, rec.ID)
	}

	s.removeImage(ctx, rec.ID, *rec.ImagePath)

	return repo.Delete(ctx, rec.ID)
}

func (s *RecordService) removeImage(ctx context.Context, recordID, imagePath string) {
	log := logging.FromContext(ctx, s.logger)

	if err := s.files.Delete(ctx, imagePath); err != nil {
		log.Warn(ctx, "image removal failed",
			"record_id", recordID, "image_path", imagePath, "outcome", imageRemoveFailed, "error", err)
		return
	}

	log.Info(ctx, "image removed",
		"record_id", recordID, "image_path", imagePath, "outcome", imageRemoved)
}
