package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/clinicvoice/internal/provision"
	"github.com/suteetoe/clinicvoice/pkg/logger"
	"github.com/suteetoe/clinicvoice/prometheus"
	"go.uber.org/zap"
)

var allowedMIMETypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
}

// UploadKnowledgeFile accepts a document and attaches it to the clinic's assistant
func (h *Handler) UploadKnowledgeFile(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file uploaded"})
	}

	// Validate before any external call is made
	if fileHeader.Size > h.cfg.Upload.MaxSizeBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file too large, maximum size is 10MB"})
	}
	mediaType, _, err := mime.ParseMediaType(fileHeader.Header.Get("Content-Type"))
	if err != nil || !allowedMIMETypes[mediaType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only PDF and TXT files are allowed"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upload file"})
	}
	defer src.Close()

	// Spool to a temp file under the upload dir; removed on every path.
	if err := os.MkdirAll(h.cfg.Upload.Dir, 0o755); err != nil {
		log.Error("Failed to create upload dir", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upload file"})
	}
	tmpPath := filepath.Join(h.cfg.Upload.Dir,
		fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(fileHeader.Filename)))
	tmp, err := os.Create(tmpPath)
	if err != nil {
		log.Error("Failed to create temp file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upload file"})
	}
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		log.Error("Failed to spool uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upload file"})
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		log.Error("Failed to rewind temp file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upload file"})
	}
	defer tmp.Close()

	result, err := h.svc.AttachFile(c.Request().Context(), cl.ClinicID, fileHeader.Filename, tmp)
	if err != nil {
		switch {
		case errors.Is(err, provision.ErrNoAssistant):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no assistant found, please create an assistant first"})
		default:
			prometheus.RecordProvision("file", string(provision.OutcomeFailed))
			return vapiError(c, log, "file_upload", err, "failed to upload file")
		}
	}

	prometheus.RecordProvision("file", string(result.Outcome))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "File uploaded successfully",
		"file":    result.File,
		"outcome": result.Outcome,
	})
}

// ListKnowledgeFiles returns the clinic's uploaded files, newest first
func (h *Handler) ListKnowledgeFiles(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	files, err := h.store.ListKnowledgeFilesByClinic(c.Request().Context(), cl.ClinicID)
	if err != nil {
		log.Error("Failed to list knowledge files", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to get files"})
	}

	return c.JSON(http.StatusOK, echo.Map{"files": files})
}

// DeleteKnowledgeFile detaches and deletes one of the clinic's files
func (h *Handler) DeleteKnowledgeFile(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	fileID, err := strconv.ParseUint(c.Param("fileId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid file id"})
	}

	result, err := h.svc.DetachFile(c.Request().Context(), cl.ClinicID, uint(fileID))
	if err != nil {
		switch {
		case errors.Is(err, provision.ErrFileNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
		default:
			return vapiError(c, log, "file_delete", err, "failed to delete file")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "File deleted successfully",
		"outcome": result.Outcome,
	})
}
