package service

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rotaworks/rota-api/internal/dto"
	appErrors "github.com/rotaworks/rota-api/pkg/errors"
	"github.com/rotaworks/rota-api/pkg/storage"
)

// TemplateService manages uploaded spreadsheet templates and the signed
// links used to download them without credentials.
type TemplateService struct {
	store       *storage.LocalStorage
	signer      *storage.SignedURLSigner
	maxFileSize int64
	logger      *zap.Logger
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(store *storage.LocalStorage, signer *storage.SignedURLSigner, maxFileSize int64, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{store: store, signer: signer, maxFileSize: maxFileSize, logger: logger}
}

// Upload persists a template file. Client-supplied names are reduced to
// their base name; an empty name gets a generated one.
func (s *TemplateService) Upload(filename string, size int64, r io.Reader) (*dto.TemplateUploadResult, error) {
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, "template file too large")
	}

	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = uuid.NewString() + ".xlsx"
	}

	stored, err := s.store.SaveStream(name, r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store template")
	}

	s.logger.Info("stored template", zap.String("filename", stored), zap.Int64("size", size))
	return &dto.TemplateUploadResult{Filename: stored, Message: "template uploaded"}, nil
}

// List returns the stored template filenames.
func (s *TemplateService) List() (*dto.TemplateList, error) {
	names, err := s.store.List()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	return &dto.TemplateList{Templates: names}, nil
}

// Link produces a time-limited signed download token for a stored template.
func (s *TemplateService) Link(filename string) (*dto.TemplateLink, error) {
	name := filepath.Base(filename)
	if _, err := os.Stat(s.store.Path(name)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
	}

	token, expiresAt, err := s.signer.Generate(name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign link")
	}

	return &dto.TemplateLink{
		Filename:  name,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve validates a signed token and opens the referenced template.
func (s *TemplateService) Resolve(token string) (*os.File, string, error) {
	filename, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}

	f, err := s.store.Open(filename)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "template not found")
	}
	return f, filename, nil
}
