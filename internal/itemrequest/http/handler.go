package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service itemrequest.Service
}

func NewHandler(service itemrequest.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRequestResponse(&itemrequest.WithItems{Request: req}))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	w, err := h.service.GetByID(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRequestResponse(w))
}

func (h *Handler) ListOwn(c *gin.Context) {
	list, err := h.service.ListOwn(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RequestResponse, len(list))
	for i, w := range list {
		items[i] = NewRequestResponse(w)
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) ListOthers(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	page := params.Page()

	list, total, err := h.service.ListOthers(c.Request.Context(), auth.GetUserID(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RequestResponse, len(list))
	for i, w := range list {
		items[i] = NewRequestResponse(w)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page.Offset, page.Limit, total))
}
