package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/http/validation"
)

// ── Response ─────────────────────────────────────────────────────────────────

// Response wraps http.ResponseWriter with JSON helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Created sends 201 JSON: {"data": v}
func (res *Response) Created(v any) {
	res.JSON(http.StatusCreated, envelope{"data": v})
}

// NoContent sends 204 with no body.
func (res *Response) NoContent() {
	res.w.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error response.
//
//	res.Error(http.StatusNotFound, "Resource not found")
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// Unauthorized sends 401.
func (res *Response) Unauthorized(message ...string) {
	res.Error(http.StatusUnauthorized, first(message, "Unauthenticated."))
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ValidationError sends 422 with the error bag.
//
//	res.ValidationError(validator.Errors())
func (res *Response) ValidationError(errors *validation.Errors) {
	res.JSON(http.StatusUnprocessableEntity, errors)
}

// Fail sends err with the status matching its container error kind:
//
//	ErrServiceNotFound, ErrParameterNotDefined        → 404
//	ErrDuplicateService, ErrDuplicateParameter,
//	ErrAlreadyLoaded                                  → 409
//	ErrInvalidName                                    → 422
//	anything else                                     → 500
//
// The body is {"message": err.Error(), "kind": "..."}.
func (res *Response) Fail(err error) {
	status, kind := classify(err)
	res.JSON(status, envelope{"message": err.Error(), "kind": kind})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, container.ErrServiceNotFound):
		return http.StatusNotFound, "service_not_found"
	case errors.Is(err, container.ErrParameterNotDefined):
		return http.StatusNotFound, "parameter_not_defined"
	case errors.Is(err, container.ErrDuplicateService):
		return http.StatusConflict, "duplicate_service"
	case errors.Is(err, container.ErrDuplicateParameter):
		return http.StatusConflict, "duplicate_parameter"
	case errors.Is(err, container.ErrAlreadyLoaded):
		return http.StatusConflict, "already_loaded"
	case errors.Is(err, container.ErrInvalidName):
		return http.StatusUnprocessableEntity, "invalid_name"
	case errors.Is(err, container.ErrTargetNotFound):
		return http.StatusInternalServerError, "target_not_found"
	case errors.Is(err, container.ErrInvalidTarget):
		return http.StatusInternalServerError, "invalid_target"
	case errors.Is(err, container.ErrArityMismatch):
		return http.StatusInternalServerError, "arity_mismatch"
	case errors.Is(err, container.ErrCircularDependency):
		return http.StatusInternalServerError, "circular_dependency"
	case errors.Is(err, container.ErrArgumentType):
		return http.StatusInternalServerError, "argument_type"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// ── Helpers ─────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
