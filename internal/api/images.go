package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

const imageField = "image"

type uploadFunc func(ctx context.Context, requester *models.User, id uint, filename string, r io.Reader) (string, error)

// uploadImage reads the multipart "image" field and hands it to upload
func uploadImage(c *gin.Context, images service.IImageService, log *zap.Logger, upload uploadFunc) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile(imageField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:  "validation failed",
			Fields: map[string]string{imageField: "No file was submitted."},
		})
		return
	}
	defer file.Close()

	key, err := upload(c.Request.Context(), middleware.CurrentUser(c), id, header.Filename, file)
	if err != nil {
		respondError(c, log, err)
		return
	}

	resp := types.ImageResponse{ID: id, Image: key}
	if u := images.URL(key); u != nil {
		resp.Image = *u
	}
	c.JSON(http.StatusOK, resp)
}
