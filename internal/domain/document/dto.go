package document

import (
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/validator"
)

type AttachmentUpload struct {
	Filename string `json:"filename"`
	Content  string `json:"content"` // base64
}

type CreateRequest struct {
	DocumentTypeID string             `json:"document_type_id"`
	Name           *string            `json:"name,omitempty"`
	Description    *string            `json:"description,omitempty"`
	Attachments    []AttachmentUpload `json:"attachments,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DocumentTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "document_type_id",
			Message: "document_type_id is required",
		})
	}

	if r.Name != nil && len(*r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	errs = append(errs, validateAttachments(r.Attachments)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddAttachmentsRequest struct {
	Attachments []AttachmentUpload `json:"attachments"`
}

func (r *AddAttachmentsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Attachments) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "attachments",
			Message: "at least one attachment is required",
		})
	}
	errs = append(errs, validateAttachments(r.Attachments)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateAttachments(attachments []AttachmentUpload) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for i, att := range attachments {
		if validator.IsEmpty(att.Filename) {
			errs = append(errs, validator.ValidationError{
				Field:   "attachments[" + validator.Itoa(i) + "].filename",
				Message: "filename is required",
			})
		}
		if validator.IsEmpty(att.Content) {
			errs = append(errs, validator.ValidationError{
				Field:   "attachments[" + validator.Itoa(i) + "].content",
				Message: "content is required",
			})
		}
	}
	return errs
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type ListFilter struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	State *State `json:"state,omitempty"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}

	if f.State != nil && !f.State.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "state",
			Message: "state must be one of: requested, submitted, approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TypeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsRequired  bool    `json:"is_required"`
}

type AttachmentResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type DocumentResponse struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	DocumentTypeID   string               `json:"document_type_id"`
	DocumentTypeName *string              `json:"document_type_name,omitempty"`
	Description      *string              `json:"description,omitempty"`
	State            string               `json:"state"`
	SubmissionDate   *string              `json:"submission_date"`
	ApprovalDate     *string              `json:"approval_date"`
	ApprovedBy       *string              `json:"approved_by,omitempty"`
	RejectionReason  *string              `json:"rejection_reason"`
	Attachments      []AttachmentResponse `json:"attachments"`
	CreatedAt        string               `json:"created_at"`
}

type ListDocumentResponse struct {
	TotalCount int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Documents  []DocumentResponse `json:"records"`
}
