package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/fixitnow/models/shared_models"
	"github.com/joy095/fixitnow/utils/apperrors"
)

// BindJSON decodes the request body into dst. Decoding failures are reported
// as validation errors against the offending field where one is known.
func BindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return apperrors.Field("body", "request body is required")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.Field(typeErr.Field, "has the wrong type")
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return apperrors.Field("body", "malformed JSON")
	}
	return apperrors.Field("body", err.Error())
}

// ParamID reads a UUID path parameter.
func ParamID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, apperrors.Field(name, "must be a valid UUID")
	}
	return id, nil
}

// ParseUUIDField parses a required UUID carried as a string in a request body.
func ParseUUIDField(field, value string) (uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return uuid.Nil, apperrors.Field(field, "is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperrors.Field(field, "must be a valid UUID")
	}
	return id, nil
}

// ParseDateField parses a local timestamp such as "2026-10-18T10:00:00".
func ParseDateField(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, apperrors.Field(field, "is required")
	}
	t, err := shared_models.ParseLocal(value)
	if err != nil {
		return time.Time{}, apperrors.Field(field, "must be a date-time like 2026-01-31T14:30:00")
	}
	return t, nil
}
