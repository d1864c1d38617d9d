package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/contactbook-backend/internal/http/response"
	"github.com/yungbote/contactbook-backend/internal/platform/apierr"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
	"github.com/yungbote/contactbook-backend/internal/services"
)

type ContactHandler struct {
	log      *logger.Logger
	contacts services.ContactService
}

func NewContactHandler(log *logger.Logger, contacts services.ContactService) *ContactHandler {
	return &ContactHandler{
		log:      log.With("handler", "ContactHandler"),
		contacts: contacts,
	}
}

// Only the editable fields are bound; owner, id and summary in a body are
// ignored.
type addressRequest struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

type phoneRequest struct {
	PhoneNumber string `json:"phone_number"`
	Kind        string `json:"kind"`
}

var (
	errInvalidID   = errors.New("id must be a uuid")
	errInvalidBody = errors.New("request body must be a JSON object")
)

func requestContext(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondAPIError(c, apierr.New(http.StatusBadRequest, "invalid_id", errInvalidID))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondAPIError(c, apierr.New(http.StatusBadRequest, "invalid_request", errInvalidBody))
		return false
	}
	return true
}

// GET /addresses
func (h *ContactHandler) ListAddresses(c *gin.Context) {
	rows, err := h.contacts.ListAddresses(requestContext(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"addresses": rows})
}

// POST /addresses
// body: { "first": "...", "last": "..." }
func (h *ContactHandler) CreateAddress(c *gin.Context) {
	var req addressRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.contacts.CreateAddress(requestContext(c), req.First, req.Last)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"address": row})
}

// GET /addresses/:id
func (h *ContactHandler) GetAddress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	row, err := h.contacts.GetAddress(requestContext(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"address": row})
}

// PATCH /addresses/:id
// body: { "first": "...", "last": "..." }
func (h *ContactHandler) EditAddress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req addressRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.contacts.EditAddress(requestContext(c), id, req.First, req.Last)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"address": row})
}

// DELETE /addresses/:id
func (h *ContactHandler) DeleteAddress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.contacts.DeleteAddress(requestContext(c), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /addresses/recompute
func (h *ContactHandler) RecomputeSummaries(c *gin.Context) {
	rows, err := h.contacts.RecomputeSummaries(requestContext(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	h.log.Info("phone summaries recomputed", "addresses", len(rows))
	response.RespondOK(c, gin.H{"addresses": rows})
}

// GET /addresses/:id/phones
func (h *ContactHandler) ListPhones(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rows, err := h.contacts.ListPhones(requestContext(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"phones": rows})
}

// POST /addresses/:id/phones
// body: { "phone_number": "...", "kind": "..." }
func (h *ContactHandler) AddPhone(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req phoneRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.contacts.AddPhone(requestContext(c), id, req.PhoneNumber, req.Kind)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"phone": row})
}

// GET /phones/:id
func (h *ContactHandler) GetPhone(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	row, err := h.contacts.GetPhone(requestContext(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"phone": row})
}

// PATCH /phones/:id
// body: { "phone_number": "...", "kind": "..." }
func (h *ContactHandler) EditPhone(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req phoneRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.contacts.EditPhone(requestContext(c), id, req.PhoneNumber, req.Kind)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"phone": row})
}

// DELETE /phones/:id
func (h *ContactHandler) DeletePhone(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.contacts.DeletePhone(requestContext(c), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
