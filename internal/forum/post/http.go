// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/agora/internal/platform/middleware"
	requestutil "github.com/taibuivan/agora/internal/platform/request"
	"github.com/taibuivan/agora/internal/platform/respond"
	"github.com/taibuivan/agora/internal/platform/validate"
	"github.com/taibuivan/agora/pkg/pagination"
)

// Handler exposes posts over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new post [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the post endpoints on the shared /topics router.
//
// # Endpoints
//   - GET  /{topicID}/posts : Keyset listing, oldest first.
//   - POST /{topicID}/posts : Replies to a topic (auth).
func (handler *Handler) Register(router chi.Router) {
	router.Get("/{topicID}/posts", handler.list)
	router.With(middleware.RequireAuth).Post("/{topicID}/posts", handler.create)
}

type createRequest struct {
	Body string `json:"body"`
}

/*
List returns one page of posts.

GET /api/v1/topics/{topicID}/posts?limit=&cursor=

Response:
  - 200: {data: [Post], meta: {hasNext, nextCursor}}
  - 400: Malformed topic ID
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	topicID := requestutil.Param(request, "topicID")

	validator := &validate.Validator{}
	if err := validator.UUID(FieldTopicID, topicID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	posts, meta, err := handler.service.List(request.Context(), topicID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, meta)
}

/*
Create replies to a topic.

POST /api/v1/topics/{topicID}/posts

Response:
  - 201: Post
  - 400: Validation failure
  - 401: Not authenticated
  - 403: Topic is locked
  - 404: Unknown topic
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

	post, err := handler.service.Create(request.Context(), requestutil.Param(request, "topicID"), authorID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}
