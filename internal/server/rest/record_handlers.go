package rest

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/storage"
	"github.com/gin-gonic/gin"
)

const imageField = "image"

// recordRequest leaves absent fields nil so updates can keep stored values.
type recordRequest struct {
	Name  *string `json:"name" form:"name"`
	Email *string `json:"email" form:"email"`
	Age   *string `json:"age" form:"age"`
}

func (r recordRequest) input() models.RecordInput {
	return models.RecordInput{Name: deref(r.Name), Email: deref(r.Email), Age: deref(r.Age)}
}

func (r recordRequest) update() models.RecordUpdate {
	return models.RecordUpdate{Name: r.Name, Email: r.Email, Age: r.Age}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *Handler) listRecords(c *gin.Context) {
	list, err := h.records.List(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getRecord(c *gin.Context) {
	rec, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) createRecord(c *gin.Context) {
	req, upload, closeFn, err := bindRecord(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	defer closeFn()

	rec, err := h.records.Create(c.Request.Context(), req.input(), upload)
	if err != nil {
		h.abortWithError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) updateRecord(c *gin.Context) {
	req, upload, closeFn, err := bindRecord(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	defer closeFn()

	rec, err := h.records.Update(c.Request.Context(), c.Param("id"), req.update(), upload)
	if err != nil {
		h.abortWithError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) deleteRecord(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.abortWithError(c, err, msgDeleteNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// bindRecord reads name, email and age from a JSON, urlencoded or multipart
// body plus the optional "image" file. closeFn releases the opened file.
func bindRecord(c *gin.Context) (recordRequest, *storage.Upload, func(), error) {
	noop := func() {}

	var req recordRequest
	if err := c.ShouldBind(&req); err != nil {
		return req, nil, noop, err
	}

	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return req, nil, noop, nil
		}
		return req, nil, noop, err
	}

	upload, f, err := openUpload(fh)
	if err != nil {
		return req, nil, noop, err
	}

	return req, upload, func() { _ = f.Close() }, nil
}

func openUpload(fh *multipart.FileHeader) (*storage.Upload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &storage.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}
