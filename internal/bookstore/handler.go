package bookstore

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/validator"
)

// Handler exposes the catalogue over HTTP.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, logger: log}
}

// Routes mounts GET /, POST / and GET /new; mount it under /books.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/new", h.blank)
	return r
}

type envelope struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *errorBody     `json:"error,omitempty"`
}

type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	books, err := h.svc.List(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, envelope{
		Data: books,
		Meta: map[string]any{"count": len(books), "limit": params.Limit, "offset": params.Offset},
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var b Book
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&b); err != nil {
		h.respond(w, http.StatusBadRequest, envelope{Error: &errorBody{Code: "bad_request", Message: "malformed JSON body"}})
		return
	}
	created, err := h.svc.Create(r.Context(), b)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, envelope{Data: created})
}

func (h *Handler) blank(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.New()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, envelope{Data: b})
}

func listParams(r *http.Request) (ListParams, error) {
	q := r.URL.Query()
	p := ListParams{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		Dir:      q.Get("dir"),
	}

	var err error
	if p.MinPrice, err = floatParam(q.Get("min_price")); err != nil {
		return p, err
	}
	if p.MaxPrice, err = floatParam(q.Get("max_price")); err != nil {
		return p, err
	}
	if p.Limit, err = intParam(q.Get("limit")); err != nil {
		return p, err
	}
	if p.Offset, err = intParam(q.Get("offset")); err != nil {
		return p, err
	}
	if v := q.Get("include_deleted"); v != "" {
		if p.IncludeDeleted, err = strconv.ParseBool(v); err != nil {
			return p, errors.Join(ErrInvalidParams, err)
		}
	}
	return p, nil
}

func floatParam(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Join(ErrInvalidParams, err)
	}
	return v, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Join(ErrInvalidParams, err)
	}
	return v, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		h.respond(w, http.StatusUnprocessableEntity, envelope{Error: &errorBody{
			Code:    "validation_error",
			Message: "book is invalid",
			Details: ve.Map(),
		}})
		return
	}

	switch {
	case errors.Is(err, ErrInvalidParams):
		h.respond(w, http.StatusBadRequest, envelope{Error: &errorBody{Code: "bad_request", Message: err.Error()}})
	case errors.Is(err, ErrDuplicateBook):
		h.respond(w, http.StatusConflict, envelope{Error: &errorBody{Code: "conflict", Message: "book already exists"}})
	case errors.Is(err, ErrUnknownCategory):
		h.respond(w, http.StatusUnprocessableEntity, envelope{Error: &errorBody{Code: "unknown_category", Message: "category does not exist"}})
	default:
		h.logger.ErrorContext(r.Context(), "bookstore request failed", logger.Component("bookstore"), logger.Error(err))
		h.respond(w, http.StatusInternalServerError, envelope{Error: &errorBody{Code: "internal_error"}})
	}
}

func (h *Handler) respond(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", logger.Error(err))
	}
}
