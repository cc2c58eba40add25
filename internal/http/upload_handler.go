package http

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bricks-api/internal/storage"
)

const maxUploadBytes = 10 << 20

// UploadHandler mantiene dependencias para endpoints de archivos.
type UploadHandler struct {
	logger *zap.Logger
	files  storage.FileStore
}

func NewUploadHandler(logger *zap.Logger, files storage.FileStore) *UploadHandler {
	return &UploadHandler{logger: logger, files: files}
}

// Upload maneja POST /dms/upload (multipart, campo "file").
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := h.readFile(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}

	result, err := h.files.Upload(c.Request.Context(), file)
	if err != nil {
		h.logger.Error("file upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not upload file"})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UploadMany maneja POST /dms/uploads (multipart, campo "files").
func (h *UploadHandler) UploadMany(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "files are required"})
		return
	}

	files := make([]storage.File, 0, len(form.File["files"]))
	for _, header := range form.File["files"] {
		file, err := h.readFile(header)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read files"})
			return
		}
		files = append(files, file)
	}

	results, err := h.files.UploadMany(c.Request.Context(), files)
	if err != nil {
		h.logger.Error("files upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not upload files"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"files": results})
}

// Delete maneja DELETE /dms/:key.
func (h *UploadHandler) Delete(c *gin.Context) {
	if err := h.files.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.logger.Error("file delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete file"})
		return
	}
	c.Status(http.StatusNoContent)
}

// SignedURL maneja GET /dms/:key/url.
func (h *UploadHandler) SignedURL(c *gin.Context) {
	url, err := h.files.PresignedGetURL(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.logger.Error("presign failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign url"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *UploadHandler) readFile(header *multipart.FileHeader) (storage.File, error) {
	src, err := header.Open()
	if err != nil {
		return storage.File{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		return storage.File{}, err
	}
	return storage.File{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Name:        header.Filename,
	}, nil
}
