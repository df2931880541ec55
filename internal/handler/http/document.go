package http

import (
	"net/http"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/document"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DocumentHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	CreateAndSubmit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Attachment(w http.ResponseWriter, r *http.Request)
	AddAttachments(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
}

type documentHandlerImpl struct {
	documentService document.DocumentService
}

func NewDocumentHandler(documentService document.DocumentService) DocumentHandler {
	return &documentHandlerImpl{documentService: documentService}
}

// ListTypes implements DocumentHandler.
func (h *documentHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	result, err := h.documentService.ListTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements DocumentHandler.
func (h *documentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	filter := document.ListFilter{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}
	if state := r.URL.Query().Get("state"); state != "" {
		s := document.State(state)
		filter.State = &s
	}

	result, err := h.documentService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Documents, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Create implements DocumentHandler.
func (h *documentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req document.CreateRequest
	if !decodeJSON(w, r, &req, "CreateDocument") {
		return
	}

	result, err := h.documentService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Document request created", result)
}

// CreateAndSubmit implements DocumentHandler.
func (h *documentHandlerImpl) CreateAndSubmit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req document.CreateRequest
	if !decodeJSON(w, r, &req, "SubmitDocument") {
		return
	}

	result, err := h.documentService.CreateAndSubmit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Document submitted successfully", result)
}

// Get implements DocumentHandler.
func (h *documentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.documentService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Attachment implements DocumentHandler.
func (h *documentHandlerImpl) Attachment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	obj, err := h.documentService.Attachment(r.Context(), actor, chi.URLParam(r, "id"), chi.URLParam(r, "attachmentID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, obj)
}

// AddAttachments implements DocumentHandler.
func (h *documentHandlerImpl) AddAttachments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req document.AddAttachmentsRequest
	if !decodeJSON(w, r, &req, "AddAttachments") {
		return
	}

	result, err := h.documentService.AddAttachments(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attachments added", result)
}

// Submit implements DocumentHandler.
func (h *documentHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.documentService.Submit(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Document submitted successfully", result)
}

// Approve implements DocumentHandler.
func (h *documentHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.documentService.Approve(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Document approved", result)
}

// Reject implements DocumentHandler.
func (h *documentHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req document.RejectRequest
	if !decodeJSON(w, r, &req, "RejectDocument") {
		return
	}

	result, err := h.documentService.Reject(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Document rejected", result)
}

// Reset implements DocumentHandler.
func (h *documentHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.documentService.Reset(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Document reset to requested", result)
}
