package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

func init() {
	// report binding failures under their JSON names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	}
}

// respondError maps a service error onto its status code
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: verr.Message, Fields: verr.Fields})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidToken):
		c.Header("WWW-Authenticate", "Token")
		c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication credentials were not provided."})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, types.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Not found."})
	default:
		_ = c.Error(err)
		log.Error("request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"})
	}
}

// respondBindError reports a request body that failed to decode or validate
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			if _, exists := fields[fe.Field()]; !exists {
				fields[fe.Field()] = fieldMessage(fe)
			}
		}
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "validation failed", Fields: fields})
	case errors.As(err, &typeErr):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:  "validation failed",
			Fields: map[string]string{typeErr.Field: fmt.Sprintf("Expected a %s.", typeErr.Type)},
		})
	case errors.As(err, &maxErr):
		c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: "request body too large"})
	case errors.Is(err, io.EOF):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "request body is empty"})
	default:
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "malformed request body: " + err.Error()})
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

// pathID parses the :id segment. Non-numeric ids match nothing.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Not found."})
		return 0, false
	}
	return uint(id), true
}

func badQuery(c *gin.Context, param, msg string) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Error:  "invalid query parameter",
		Fields: map[string]string{param: msg},
	})
}
