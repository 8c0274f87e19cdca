// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package topic

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/agora/internal/platform/middleware"
	requestutil "github.com/taibuivan/agora/internal/platform/request"
	"github.com/taibuivan/agora/internal/platform/respond"
	"github.com/taibuivan/agora/internal/platform/sec"
	"github.com/taibuivan/agora/internal/platform/validate"
	"github.com/taibuivan/agora/pkg/pagination"
	"github.com/taibuivan/agora/pkg/query"
)

// # Handler Implementation

// Handler exposes topics over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new topic [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the topic endpoints on router, which is shared with the
// post and realtime handlers under /topics.
//
// # Endpoints
//   - GET  /               : Keyset listing (?categoryId=&limit=&cursor=).
//   - GET  /{topicID}      : One topic.
//   - POST /               : Creates a topic and its first post (auth).
//   - PUT  /{topicID}/pin  : Pins or unpins (moderator+).
//   - PUT  /{topicID}/lock : Locks or unlocks (moderator+).
func (handler *Handler) Register(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/{topicID}", handler.get)

	router.With(middleware.RequireAuth).Post("/", handler.create)

	router.Group(func(moderation chi.Router) {
		moderation.Use(middleware.RequireRole(sec.RoleModerator))

		moderation.Put("/{topicID}/pin", handler.setPinned)
		moderation.Put("/{topicID}/lock", handler.setLocked)
	})
}

// # Request Payloads

type createRequest struct {
	CategoryID string   `json:"categoryId"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	TagIDs     []string `json:"tagIds"`
}

type pinRequest struct {
	Pinned *bool `json:"pinned"`
}

type lockRequest struct {
	Locked *bool `json:"locked"`
}

/*
List returns one page of topics.

GET /api/v1/topics?categoryId=&limit=&cursor=

Response:
  - 200: {data: [Topic], meta: {hasNext, nextCursor}}
  - 400: Malformed categoryId
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := Filter{CategoryID: query.String(request.URL.Query(), "categoryId")}

	if filter.CategoryID != "" {
		validator := &validate.Validator{}
		if err := validator.UUID(FieldCategoryID, filter.CategoryID).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	topics, meta, err := handler.service.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, topics, meta)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	topicID, ok := topicIDParam(writer, request)
	if !ok {
		return
	}

	topic, err := handler.service.Get(request.Context(), topicID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, topic)
}

/*
Create starts a new discussion.

POST /api/v1/topics

Response:
  - 201: Topic
  - 400: Validation failure or unknown tag
  - 401: Not authenticated
  - 404: Unknown category
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	topic, err := handler.service.Create(request.Context(), CreateInput{
		CategoryID: input.CategoryID,
		AuthorID:   authorID,
		Title:      input.Title,
		Body:       input.Body,
		TagIDs:     input.TagIDs,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, topic)
}

func (handler *Handler) setPinned(writer http.ResponseWriter, request *http.Request) {
	topicID, ok := topicIDParam(writer, request)
	if !ok {
		return
	}

	var input pinRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Custom(FieldPinned, input.Pinned == nil, "This field is required").Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SetPinned(request.Context(), topicID, *input.Pinned); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) setLocked(writer http.ResponseWriter, request *http.Request) {
	topicID, ok := topicIDParam(writer, request)
	if !ok {
		return
	}

	var input lockRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Custom(FieldLocked, input.Locked == nil, "This field is required").Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SetLocked(request.Context(), topicID, *input.Locked); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// topicIDParam reads and validates {topicID}, writing a 400 when malformed.
func topicIDParam(writer http.ResponseWriter, request *http.Request) (string, bool) {
	topicID := requestutil.Param(request, "topicID")

	validator := &validate.Validator{}
	if err := validator.UUID(FieldTopicID, topicID).Err(); err != nil {
		respond.Error(writer, request, err)
		return "", false
	}
	return topicID, true
}
