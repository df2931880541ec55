package document

import "context"

type DocumentTypeRepository interface {
	GetByID(ctx context.Context, id string) (Type, error)
	ListActive(ctx context.Context) ([]Type, error)
}

type DocumentRequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)

	// GetByID loads the request together with its attachments.
	GetByID(ctx context.Context, id string) (Request, error)

	// Update persists state, dates, approver and rejection reason, provided the stored
	// state is still from. ErrInvalidTransition when another transition got there first.
	Update(ctx context.Context, req Request, from State) error

	AddAttachment(ctx context.Context, attachment Attachment) (Attachment, error)
	ListByEmployee(ctx context.Context, employeeID string, filter ListFilter) ([]Request, int64, error)
}
