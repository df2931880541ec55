package document

import (
	"context"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/storage"
)

type DocumentService interface {
	ListTypes(ctx context.Context) ([]TypeResponse, error)

	Create(ctx context.Context, actor identity.Actor, req CreateRequest) (DocumentResponse, error)
	// CreateAndSubmit creates the request, stores its attachments and submits it as one unit.
	CreateAndSubmit(ctx context.Context, actor identity.Actor, req CreateRequest) (DocumentResponse, error)
	AddAttachments(ctx context.Context, actor identity.Actor, id string, req AddAttachmentsRequest) (DocumentResponse, error)
	Submit(ctx context.Context, actor identity.Actor, id string) (DocumentResponse, error)

	Get(ctx context.Context, actor identity.Actor, id string) (DocumentResponse, error)
	List(ctx context.Context, actor identity.Actor, filter ListFilter) (ListDocumentResponse, error)
	Attachment(ctx context.Context, actor identity.Actor, id string, attachmentID string) (storage.Object, error)

	// Reviewer actions
	Approve(ctx context.Context, actor identity.Actor, id string) (DocumentResponse, error)
	Reject(ctx context.Context, actor identity.Actor, id string, req RejectRequest) (DocumentResponse, error)
	Reset(ctx context.Context, actor identity.Actor, id string) (DocumentResponse, error)
}
