package exam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"deptsite/internal/domain/entity"
	"deptsite/internal/infra/blob"
	"deptsite/internal/repository"
)

// DownloadURLTTL is how long a presigned PDF link stays valid.
const DownloadURLTTL = 24 * time.Hour

// UploadInput carries one exam upload: the metadata form fields plus the
// PDF stream.
type UploadInput struct {
	Metadata    entity.ExamInput
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
	UploadedBy  string
}

// Service provides exam archive use cases. PDFs live in the blob store,
// records in the database; Upload keeps the two consistent by rolling back
// the blob when the insert fails.
type Service struct {
	Repo   repository.ExamRepository
	Blobs  blob.Store
	Logger *slog.Logger
}

// Upload validates, stores the PDF, and creates the exam record. It returns
// the stored record and a time-limited download URL.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*entity.Exam, string, error) {
	if err := entity.ValidateExamFile(in.Filename, in.ContentType, in.Size); err != nil {
		return nil, "", err
	}

	ex, errs := entity.NewExam(in.Metadata)
	if errs.HasErrors() {
		return nil, "", errs
	}
	ex.UploadedBy = in.UploadedBy

	key, err := s.Blobs.Upload(ctx, in.File, in.Size)
	if err != nil {
		return nil, "", fmt.Errorf("store exam pdf: %w", err)
	}
	ex.PDFKey = key

	if err := s.Repo.Create(ctx, ex); err != nil {
		// Orphaned blobs are invisible to users but cost storage.
		if rmErr := s.Blobs.Remove(ctx, key); rmErr != nil {
			s.logger().Warn("failed to remove orphaned exam pdf",
				slog.String("pdf_key", key),
				slog.Any("error", rmErr))
		}
		return nil, "", fmt.Errorf("create exam record: %w", err)
	}

	url, err := s.Blobs.PresignedURL(ctx, key, DownloadURLTTL)
	if err != nil {
		// The record is stored; a missing link is not worth failing the
		// upload over.
		s.logger().Warn("failed to presign exam pdf",
			slog.String("pdf_key", key),
			slog.Any("error", err))
		url = ""
	}

	return ex, url, nil
}

// List returns exams matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter repository.ExamFilter) ([]*entity.Exam, error) {
	exams, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// Get retrieves a single exam record with a fresh download URL.
// Returns ErrExamNotFound if the record does not exist.
func (s *Service) Get(ctx context.Context, id string) (*entity.Exam, string, error) {
	ex, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("get exam: %w", err)
	}
	if ex == nil {
		return nil, "", ErrExamNotFound
	}

	url, err := s.Blobs.PresignedURL(ctx, ex.PDFKey, DownloadURLTTL)
	if err != nil {
		return nil, "", fmt.Errorf("presign exam pdf: %w", err)
	}
	return ex, url, nil
}

// Delete removes the record and its PDF. The record goes first; a PDF whose
// record is gone is unreachable either way.
func (s *Service) Delete(ctx context.Context, id string) error {
	ex, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get exam: %w", err)
	}
	if ex == nil {
		return ErrExamNotFound
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrExamNotFound
		}
		return fmt.Errorf("delete exam: %w", err)
	}

	if err := s.Blobs.Remove(ctx, ex.PDFKey); err != nil {
		s.logger().Warn("failed to remove exam pdf",
			slog.String("pdf_key", ex.PDFKey),
			slog.Any("error", err))
	}
	return nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
