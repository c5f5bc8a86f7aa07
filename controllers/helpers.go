package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/emmiamia/nourishsteps/models"
	"github.com/emmiamia/nourishsteps/storage"
	"github.com/emmiamia/nourishsteps/utils"
)

const maxBodyBytes = 64 << 10

// bindJSON decodes the request body into dst and reports which top-level
// keys were present, so PATCH can tell "absent" from "null". An empty body
// is an empty object.
func bindJSON(ctx *gin.Context, dst interface{}) (map[string]json.RawMessage, bool) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBodyBytes)
	raw, err := ctx.GetRawData()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "unreadable request body")
		return nil, false
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	keys := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &keys); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "request body must be a JSON object")
		return nil, false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, typeErrorMessage(err))
		return nil, false
	}
	return keys, true
}

func typeErrorMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "mood", "urge":
			return "mood/urge must be integers"
		case "duration_sec":
			return "duration_sec must be non-negative integer"
		case "":
			return "invalid JSON body"
		}
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}
	return "invalid JSON body"
}

// validate runs the binding tags on an already decoded input.
func validate(ctx *gin.Context, input interface{}) bool {
	if err := binding.Validator.ValidateStruct(input); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, utils.ValidationMessage(err))
		return false
	}
	return true
}

// lowerPtr lowercases an enum value in place.
func lowerPtr(s *string) {
	if s != nil {
		*s = strings.ToLower(strings.TrimSpace(*s))
	}
}

// present reports whether key was sent, even as null.
func present(keys map[string]json.RawMessage, key string) bool {
	_, ok := keys[key]
	return ok
}

// blankToNil treats "" like an omitted value.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// parseListFilter reads ?date= and ?limit= for list endpoints.
func parseListFilter(ctx *gin.Context) (storage.ListFilter, bool) {
	var f storage.ListFilter
	if raw := ctx.Query("date"); raw != "" {
		d, err := models.ParseDay(raw)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidDate, models.ErrInvalidDay.Error())
			return f, false
		}
		f.Date = &d
	}
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "limit must be a positive integer")
			return f, false
		}
		f.Limit = n
	}
	return f, true
}

// parseYearMonth reads the month calendar query.
func parseYearMonth(ctx *gin.Context) (int, int, bool) {
	year, errY := strconv.Atoi(ctx.Query("year"))
	month, errM := strconv.Atoi(ctx.Query("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidDate, "year/month required, e.g. ?year=2025&month=11")
		return 0, 0, false
	}
	return year, month, true
}

// respondStoreError maps repository errors onto the envelope.
func respondStoreError(ctx *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "not found")
	case errors.Is(err, models.ErrInvalidDate), errors.Is(err, models.ErrInvalidDay):
		utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidDate, err.Error())
	default:
		utils.Sugar.Errorw(action+" failed", "error", err, "request_id", ctx.GetString(utils.RequestIDKey))
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeStorage, action+" failed")
	}
}
