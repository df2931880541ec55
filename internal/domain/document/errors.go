package document

import "github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"

var (
	ErrDocumentNotFound        = apperror.New(apperror.KindNotFound, "document request not found")
	ErrDocumentTypeNotFound    = apperror.New(apperror.KindNotFound, "document type not found")
	ErrAttachmentNotFound      = apperror.New(apperror.KindNotFound, "attachment not found")
	ErrNoAttachments           = apperror.New(apperror.KindValidation, "please attach at least one document before submitting")
	ErrRejectionReasonRequired = apperror.New(apperror.KindValidation, "rejection reason is required")
	ErrInvalidTransition       = apperror.New(apperror.KindValidation, "action is not allowed in the current document state")
	ErrInvalidAttachment       = apperror.New(apperror.KindValidation, "attachment content must be base64 encoded")
)
