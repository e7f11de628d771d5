package http

import (
	"errors"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/server/services"
	"github.com/gin-gonic/gin"
)

// formFile opens the multipart field "file". The caller closes it.
func formFile(c *gin.Context) (services.FileUpload, func(), error) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.FileUpload{}, nil, common.ErrFileTooLarge
		}
		return services.FileUpload{}, nil, common.ErrNoFile
	}

	f, err := fh.Open()
	if err != nil {
		return services.FileUpload{}, nil, err
	}

	return services.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	user, _ := CurrentUser(c)

	upload, closeFn, err := formFile(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer closeFn()

	url, err := h.uploads.UploadAvatar(c.Request.Context(), user.ID, upload)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "آواتار با موفقیت آپلود شد",
		"fileUrl": url,
	})
}

func (h *Handler) UploadDocument(c *gin.Context) {
	user, _ := CurrentUser(c)

	upload, closeFn, err := formFile(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer closeFn()

	doc, err := h.uploads.UploadDocument(c.Request.Context(), user.ID, upload)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "سند با موفقیت آپلود و رمزنگاری شد",
		"filePath": "uploads/" + doc.StorageKey,
		"id":       doc.ID,
	})
}

func (h *Handler) ListDocuments(c *gin.Context) {
	user, _ := CurrentUser(c)

	docs, err := h.uploads.ListDocuments(c.Request.Context(), user.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]gin.H, 0, len(docs))
	for _, d := range docs {
		out = append(out, gin.H{
			"id":          d.ID,
			"name":        d.OriginalName,
			"contentType": d.ContentType,
			"size":        d.Size,
			"createdAt":   d.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"documents": out})
}

// DownloadDocument streams the decrypted document to its owner.
func (h *Handler) DownloadDocument(c *gin.Context) {
	user, _ := CurrentUser(c)

	doc, data, err := h.uploads.DownloadDocument(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.OriginalName})
	if disposition != "" {
		c.Header("Content-Disposition", disposition)
	}
	c.Data(http.StatusOK, doc.ContentType, data)
}
