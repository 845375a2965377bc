package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alikh-collab/TAZA-back/internal/config"
	"github.com/Alikh-collab/TAZA-back/internal/ids"
	"github.com/Alikh-collab/TAZA-back/internal/media/sniffer"
	"github.com/Alikh-collab/TAZA-back/internal/storage"
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Target says where an upload goes and how big it may be.
type Target struct {
	Folder   string
	MaxBytes int64
}

type StoredFile struct {
	URL          string
	Filename     string
	OriginalName string
	Size         int64
	MimeType     string
}

type UploadService struct {
	store storage.FileStore
	cfg   config.UploadConfig
	log   zerolog.Logger
}

func NewUploadService(store storage.FileStore, cfg config.UploadConfig, log zerolog.Logger) *UploadService {
	return &UploadService{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

func (s *UploadService) Avatar() Target {
	return Target{Folder: storage.FolderAvatars, MaxBytes: s.cfg.AvatarMaxBytes}
}

func (s *UploadService) ComplaintPhoto() Target {
	return Target{Folder: storage.FolderComplaints, MaxBytes: s.cfg.ComplaintMaxBytes}
}

// Generic is used by the standalone upload endpoints.
func (s *UploadService) Generic(folder string) Target {
	return Target{Folder: folder, MaxBytes: s.cfg.GenericMaxBytes}
}

func (s *UploadService) MaxFiles() int {
	return s.cfg.MaxFiles
}

// check validates the declared type and size of a part without reading it.
func (s *UploadService) check(target Target, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", ErrFileRequired
	}

	declared := sniffer.MimeTypeFromHTTP(http.Header(header.Header))
	if !allowedMIME[declared] {
		return "", fmt.Errorf("%w: %q declared as %q", ErrUnsupportedType, header.Filename, declared)
	}
	if header.Size > target.MaxBytes {
		return "", fmt.Errorf("%w: %q is %d bytes, limit %d", ErrTooLarge, header.Filename, header.Size, target.MaxBytes)
	}
	return declared, nil
}

// Accept validates one uploaded part and writes it to the store. The bytes
// must be a jpeg, png or gif and must match the declared content type.
func (s *UploadService) Accept(ctx context.Context, target Target, header *multipart.FileHeader) (StoredFile, error) {
	declared, err := s.check(target, header)
	if err != nil {
		return StoredFile{}, err
	}

	file, err := header.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	result, head, err := sniffer.Detect(file)
	if err != nil {
		if errors.Is(err, sniffer.ErrUnknownType) {
			return StoredFile{}, fmt.Errorf("%w: %q content is not an image", ErrUnsupportedType, header.Filename)
		}
		return StoredFile{}, fmt.Errorf("detect type: %w", err)
	}
	if result.MIME != declared {
		return StoredFile{}, fmt.Errorf("%w: declared %s, actual %s", ErrUnsupportedType, declared, result.MIME)
	}

	name := ids.New() + result.Extension()
	url, err := s.store.Save(ctx, storage.Object{
		Folder:      target.Folder,
		Name:        name,
		ContentType: result.MIME,
		Size:        header.Size,
		Body:        io.MultiReader(bytes.NewReader(head), file),
	})
	if err != nil {
		return StoredFile{}, fmt.Errorf("store upload: %w", err)
	}

	return StoredFile{
		URL:          url,
		Filename:     name,
		OriginalName: header.Filename,
		Size:         header.Size,
		MimeType:     result.MIME,
	}, nil
}

// AcceptMany validates every part before storing any of them. If storing
// fails part way the files already written are removed again.
func (s *UploadService) AcceptMany(ctx context.Context, target Target, headers []*multipart.FileHeader) ([]StoredFile, error) {
	if len(headers) == 0 {
		return nil, ErrFileRequired
	}
	if len(headers) > s.cfg.MaxFiles {
		return nil, fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(headers), s.cfg.MaxFiles)
	}
	for _, header := range headers {
		if _, err := s.check(target, header); err != nil {
			return nil, err
		}
	}

	stored := make([]StoredFile, 0, len(headers))
	for _, header := range headers {
		file, err := s.Accept(ctx, target, header)
		if err != nil {
			for _, done := range stored {
				s.Discard(ctx, done.URL)
			}
			return nil, err
		}
		stored = append(stored, file)
	}
	return stored, nil
}

// Discard removes a stored file. Failures are logged and swallowed since
// the database change that orphaned the file has already happened.
func (s *UploadService) Discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.store.Delete(ctx, url); err != nil {
		s.log.Warn().Err(err).Str("url", url).Msg("remove stored file failed")
	}
}

// discardPtr is Discard for optional references.
func (s *UploadService) discardPtr(ctx context.Context, url *string) {
	if url != nil {
		s.Discard(ctx, *url)
	}
}
