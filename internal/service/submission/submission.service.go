package submission

import (
	"context"
	"errors"
	"fmt"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/logger"
	"idea-inbox/internal/service/notify"
	"idea-inbox/internal/service/submission/model"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DataJSON = "data.json"
	DataTXT  = "data.txt"

	// TimestampLayout is used inside data.json and data.txt.
	TimestampLayout = "2006-01-02T15:04:05"
	// FolderTimestampLayout is the folder name suffix.
	FolderTimestampLayout = "20060102_150405"

	defaultName = "unknown"
	defaultIdea = "idea"

	folderPerm = 0o755
	filePerm   = 0o644
)

// ErrIOFailure wraps every filesystem error raised while persisting.
var ErrIOFailure = errors.New("failed to store submission")

type Service struct {
	baseDir    string
	now        func() time.Time
	suffix     func() (string, error)
	dispatcher notify.IDispatcher
}

type IService interface {
	Persist(ctx context.Context, submission *_type.Submission) (*model.Record, error)
	BaseDir() string
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSuffix replaces the generator of folder disambiguation suffixes.
func WithSuffix(suffix func() (string, error)) Option {
	return func(s *Service) { s.suffix = suffix }
}

// WithDispatcher announces every stored record.
func WithDispatcher(dispatcher notify.IDispatcher) Option {
	return func(s *Service) { s.dispatcher = dispatcher }
}

func NewService(baseDir string, opts ...Option) (IService, error) {
	if baseDir == "" {
		return nil, errors.New("base directory is required")
	}

	s := &Service{
		baseDir: baseDir,
		now:     time.Now,
		suffix: func() (string, error) {
			return helper.GenerateSuffix(folderSuffixLength)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) BaseDir() string {
	return s.baseDir
}

// Persist writes submission into a new folder under the base directory:
// data.json, data.txt and one file per attachment. Nothing is cleaned up
// when a later write fails.
func (s *Service) Persist(ctx context.Context, submission *_type.Submission) (*model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if submission == nil {
		submission = _type.NewSubmission()
	}

	now := s.now()
	folder, path, err := s.createFolder(FolderName(submission.Fields, now))
	if err != nil {
		logger.Error.WithError(err).WithField("base_dir", s.baseDir).Println("creating submission folder failed")
		return nil, err
	}

	record := &model.Record{
		Folder:    folder,
		Path:      path,
		Timestamp: now,
		Fields:    submission.Fields,
		Files:     make([]model.StoredFile, 0, len(submission.Attachments)),
	}
	names := ResolveFilenames(submission.Attachments)
	for i, a := range submission.Attachments {
		record.Files = append(record.Files, model.StoredFile{
			Filename:    names[i],
			Field:       a.FieldName,
			ContentType: a.ContentType,
			Size:        a.Size(),
		})
	}

	writes := []struct {
		name    string
		content []byte
	}{
		{DataJSON, EncodeDocument(record)},
		{DataTXT, EncodeLog(record)},
	}
	for i, a := range submission.Attachments {
		writes = append(writes, struct {
			name    string
			content []byte
		}{names[i], a.Content})
	}

	for _, w := range writes {
		if err := os.WriteFile(filepath.Join(path, w.name), w.content, filePerm); err != nil {
			err = fmt.Errorf("%w: write %s: %w", ErrIOFailure, w.name, err)
			logger.Error.WithFields(logrus.Fields{"folder": folder, "file": w.name}).WithField("error", err.Error()).
				Println("writing submission file failed")
			return nil, err
		}
	}

	logger.Info.WithFields(logrus.Fields{"folder": folder, "fields": record.Fields.Len(), "files": len(record.Files)}).
		Println("submission stored")
	s.announce(record)
	return record, nil
}

func (s *Service) announce(record *model.Record) {
	if s.dispatcher == nil {
		return
	}
	event, err := notify.NewEvent(record)
	if err != nil {
		logger.Warning.WithError(err).WithField("folder", record.Folder).Println("building submission event failed")
		return
	}
	s.dispatcher.Dispatch(event)
}
