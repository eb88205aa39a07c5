package handler

import (
	"errors"
	"mime/multipart"

	"hospital-booking-backend/pkg/apperrors"
	"hospital-booking-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// saveUploads stores files under folder. On failure the files already written are removed.
func saveUploads(c *gin.Context, files storage.FileStore, headers []*multipart.FileHeader, folder string) ([]string, error) {
	paths := make([]string, 0, len(headers))
	for _, fh := range headers {
		p, err := files.Save(c.Request.Context(), fh, folder)
		if err != nil {
			discardUploads(c, files, paths)
			if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrInvalidContentType) {
				return nil, apperrors.NewValidationError(err.Error())
			}
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// discardUploads removes stored files after the database write they belonged to failed
func discardUploads(c *gin.Context, files storage.FileStore, paths []string) {
	for _, p := range paths {
		if err := files.Remove(c.Request.Context(), p); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("Failed to remove upload")
		}
	}
}

// formFiles returns the files sent under field, or nil when the request has none
func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}
