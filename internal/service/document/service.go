package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/document"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/employee"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/database"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/metrics"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/service/file"
)

const timeLayout = "2006-01-02 15:04:05"

type DocumentServiceImpl struct {
	tx database.Transactor
	document.DocumentTypeRepository
	document.DocumentRequestRepository
	employee.EmployeeRepository
	fileService file.FileService
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewDocumentService(
	tx database.Transactor,
	typeRepo document.DocumentTypeRepository,
	requestRepo document.DocumentRequestRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	m *metrics.Metrics,
) document.DocumentService {
	return &DocumentServiceImpl{
		tx:                        tx,
		DocumentTypeRepository:    typeRepo,
		DocumentRequestRepository: requestRepo,
		EmployeeRepository:        employeeRepo,
		fileService:               fileService,
		metrics:                   m,
		now:                       time.Now,
	}
}

// ListTypes implements document.DocumentService.
func (d *DocumentServiceImpl) ListTypes(ctx context.Context) ([]document.TypeResponse, error) {
	types, err := d.DocumentTypeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list document types: %w", err)
	}

	resp := make([]document.TypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, document.TypeResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			IsRequired:  t.IsRequired,
		})
	}
	return resp, nil
}

// Create implements document.DocumentService.
func (d *DocumentServiceImpl) Create(ctx context.Context, actor identity.Actor, req document.CreateRequest) (document.DocumentResponse, error) {
	return d.create(ctx, actor, req, false)
}

// CreateAndSubmit implements document.DocumentService.
func (d *DocumentServiceImpl) CreateAndSubmit(ctx context.Context, actor identity.Actor, req document.CreateRequest) (document.DocumentResponse, error) {
	return d.create(ctx, actor, req, true)
}

func (d *DocumentServiceImpl) create(ctx context.Context, actor identity.Actor, req document.CreateRequest, submit bool) (document.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}
	if !actor.HasEmployee() {
		return document.DocumentResponse{}, user.ErrEmployeeRequired
	}
	if submit && len(req.Attachments) == 0 {
		return document.DocumentResponse{}, document.ErrNoAttachments
	}

	docType, err := d.getType(ctx, req.DocumentTypeID)
	if err != nil {
		return document.DocumentResponse{}, err
	}

	var name string
	if req.Name != nil && !validator.IsEmpty(*req.Name) {
		name = *req.Name
	} else {
		emp, err := d.EmployeeRepository.GetByID(ctx, actor.EmployeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return document.DocumentResponse{}, user.ErrEmployeeRequired
			}
			return document.DocumentResponse{}, fmt.Errorf("failed to get employee: %w", err)
		}
		name = document.DefaultName(docType.Name, emp.FullName)
	}

	stored, err := d.storeAttachments(ctx, actor.EmployeeID, req.Attachments)
	if err != nil {
		return document.DocumentResponse{}, err
	}

	var created document.Request
	err = d.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		request := document.NewRequest(actor.EmployeeID, actor.CompanyID, docType.ID, name, req.Description)

		created, err = d.DocumentRequestRepository.Create(txCtx, request)
		if err != nil {
			return fmt.Errorf("failed to create document request: %w", err)
		}

		for _, f := range stored {
			att, err := d.DocumentRequestRepository.AddAttachment(txCtx, document.Attachment{
				RequestID: created.ID,
				Filename:  f.Filename,
				Path:      f.Path,
			})
			if err != nil {
				return fmt.Errorf("failed to add attachment: %w", err)
			}
			created.Attachments = append(created.Attachments, att)
		}

		if !submit {
			return nil
		}
		from := created.State
		if err := created.Submit(d.now().UTC()); err != nil {
			return err
		}
		if err := d.DocumentRequestRepository.Update(txCtx, created, from); err != nil {
			return fmt.Errorf("failed to submit document request: %w", err)
		}
		return nil
	})
	if err != nil {
		d.discardFiles(ctx, stored)
		return document.DocumentResponse{}, err
	}

	created.DocumentTypeName = &docType.Name
	if submit {
		d.metrics.DocumentTransition(string(document.ActionSubmit))
	}

	slog.Info("document request created",
		"document_id", created.ID,
		"employee_id", created.EmployeeID,
		"state", created.State,
		"attachments", len(created.Attachments),
	)

	return d.mapRequestToResponse(ctx, created), nil
}

// AddAttachments implements document.DocumentService.
func (d *DocumentServiceImpl) AddAttachments(ctx context.Context, actor identity.Actor, id string, req document.AddAttachmentsRequest) (document.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}

	request, err := d.getOwned(ctx, actor, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	// Attachments can only change while the request is still with the employee
	if !request.State.Can(document.ActionSubmit) {
		return document.DocumentResponse{}, document.ErrInvalidTransition
	}

	stored, err := d.storeAttachments(ctx, actor.EmployeeID, req.Attachments)
	if err != nil {
		return document.DocumentResponse{}, err
	}

	err = d.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, f := range stored {
			att, err := d.DocumentRequestRepository.AddAttachment(txCtx, document.Attachment{
				RequestID: request.ID,
				Filename:  f.Filename,
				Path:      f.Path,
			})
			if err != nil {
				return fmt.Errorf("failed to add attachment: %w", err)
			}
			request.Attachments = append(request.Attachments, att)
		}
		return nil
	})
	if err != nil {
		d.discardFiles(ctx, stored)
		return document.DocumentResponse{}, err
	}

	return d.mapRequestToResponse(ctx, request), nil
}

// Submit implements document.DocumentService.
func (d *DocumentServiceImpl) Submit(ctx context.Context, actor identity.Actor, id string) (document.DocumentResponse, error) {
	request, err := d.getOwned(ctx, actor, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	return d.transition(ctx, actor, request, document.ActionSubmit, func(r *document.Request) error {
		return r.Submit(d.now().UTC())
	})
}

// Get implements document.DocumentService.
func (d *DocumentServiceImpl) Get(ctx context.Context, actor identity.Actor, id string) (document.DocumentResponse, error) {
	request, err := d.getVisible(ctx, actor, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	return d.mapRequestToResponse(ctx, request), nil
}

// List implements document.DocumentService.
func (d *DocumentServiceImpl) List(ctx context.Context, actor identity.Actor, filter document.ListFilter) (document.ListDocumentResponse, error) {
	if err := filter.Validate(); err != nil {
		return document.ListDocumentResponse{}, err
	}
	if !actor.HasEmployee() {
		return document.ListDocumentResponse{}, user.ErrEmployeeRequired
	}

	requests, total, err := d.DocumentRequestRepository.ListByEmployee(ctx, actor.EmployeeID, filter)
	if err != nil {
		return document.ListDocumentResponse{}, fmt.Errorf("failed to list document requests: %w", err)
	}

	records := make([]document.DocumentResponse, 0, len(requests))
	for _, r := range requests {
		records = append(records, d.mapRequestToResponse(ctx, r))
	}

	return document.ListDocumentResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Documents:  records,
	}, nil
}

// Attachment implements document.DocumentService.
func (d *DocumentServiceImpl) Attachment(ctx context.Context, actor identity.Actor, id string, attachmentID string) (storage.Object, error) {
	request, err := d.getVisible(ctx, actor, id)
	if err != nil {
		return storage.Object{}, err
	}

	for _, a := range request.Attachments {
		if a.ID != attachmentID {
			continue
		}
		obj, err := d.fileService.Open(ctx, a.Path)
		if err != nil {
			if errors.Is(err, file.ErrFileNotFound) {
				slog.Warn("document attachment missing from storage", "document_id", request.ID, "path", a.Path)
				return storage.Object{}, document.ErrAttachmentNotFound
			}
			return storage.Object{}, fmt.Errorf("failed to open attachment: %w", err)
		}
		obj.Name = a.Filename
		return obj, nil
	}
	return storage.Object{}, document.ErrAttachmentNotFound
}

// Approve implements document.DocumentService.
func (d *DocumentServiceImpl) Approve(ctx context.Context, actor identity.Actor, id string) (document.DocumentResponse, error) {
	request, err := d.getReviewable(ctx, actor, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	return d.transition(ctx, actor, request, document.ActionApprove, func(r *document.Request) error {
		return r.Approve(d.now().UTC(), actor.UserID)
	})
}

// Reject implements document.DocumentService.
func (d *DocumentServiceImpl) Reject(ctx context.Context, actor identity.Actor, id string, req document.RejectRequest) (document.DocumentResponse, error) {
	request, err := d.getReviewable(ctx, actor, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	return d.transition(ctx, actor, request, document.ActionReject, func(r *document.Request) error {
		return r.Reject(req.Reason)
	})
}

// Reset implements document.DocumentService.
func (d *DocumentServiceImpl) Reset(ctx context.Context, actor identity.Actor, id string) (document.DocumentResponse, error) {
	request, err := d.getReviewable(ctx, actor, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	return d.transition(ctx, actor, request, document.ActionReset, func(r *document.Request) error {
		r.Reset()
		return nil
	})
}

func (d *DocumentServiceImpl) transition(ctx context.Context, actor identity.Actor, request document.Request, action document.Action, apply func(*document.Request) error) (document.DocumentResponse, error) {
	from := request.State
	if err := apply(&request); err != nil {
		return document.DocumentResponse{}, err
	}

	if err := d.DocumentRequestRepository.Update(ctx, request, from); err != nil {
		if errors.Is(err, document.ErrInvalidTransition) {
			slog.Warn("document request changed concurrently",
				"document_id", request.ID,
				"action", action,
				"from", from,
				"actor_id", actor.UserID,
			)
			return document.DocumentResponse{}, err
		}
		return document.DocumentResponse{}, fmt.Errorf("failed to %s document request: %w", action, err)
	}

	d.metrics.DocumentTransition(string(action))
	slog.Info("document request transitioned",
		"document_id", request.ID,
		"action", action,
		"from", from,
		"to", request.State,
		"actor_id", actor.UserID,
	)

	return d.mapRequestToResponse(ctx, request), nil
}

func (d *DocumentServiceImpl) getType(ctx context.Context, id string) (document.Type, error) {
	if !validator.IsValidUUID(id) {
		return document.Type{}, document.ErrDocumentTypeNotFound
	}
	docType, err := d.DocumentTypeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, document.ErrDocumentTypeNotFound) {
			return document.Type{}, err
		}
		return document.Type{}, fmt.Errorf("failed to get document type: %w", err)
	}
	if !docType.Active {
		return document.Type{}, document.ErrDocumentTypeNotFound
	}
	return docType, nil
}

func (d *DocumentServiceImpl) getRequest(ctx context.Context, id string) (document.Request, error) {
	if !validator.IsValidUUID(id) {
		return document.Request{}, document.ErrDocumentNotFound
	}
	request, err := d.DocumentRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, document.ErrDocumentNotFound) {
			return document.Request{}, err
		}
		return document.Request{}, fmt.Errorf("failed to get document request: %w", err)
	}
	return request, nil
}

// getOwned loads a request that belongs to the acting employee.
func (d *DocumentServiceImpl) getOwned(ctx context.Context, actor identity.Actor, id string) (document.Request, error) {
	if !actor.HasEmployee() {
		return document.Request{}, user.ErrEmployeeRequired
	}
	request, err := d.getRequest(ctx, id)
	if err != nil {
		return document.Request{}, err
	}
	if request.EmployeeID != actor.EmployeeID {
		return document.Request{}, document.ErrDocumentNotFound
	}
	return request, nil
}

func (d *DocumentServiceImpl) getVisible(ctx context.Context, actor identity.Actor, id string) (document.Request, error) {
	request, err := d.getRequest(ctx, id)
	if err != nil {
		return document.Request{}, err
	}
	own := actor.HasEmployee() && request.EmployeeID == actor.EmployeeID
	sameCompany := actor.CompanyID != "" && request.CompanyID == actor.CompanyID
	if !own && !(actor.CanReview() && sameCompany) {
		return document.Request{}, document.ErrDocumentNotFound
	}
	return request, nil
}

func (d *DocumentServiceImpl) getReviewable(ctx context.Context, actor identity.Actor, id string) (document.Request, error) {
	if !actor.CanReview() {
		return document.Request{}, user.ErrReviewerAccessRequired
	}
	return d.getVisible(ctx, actor, id)
}

func (d *DocumentServiceImpl) storeAttachments(ctx context.Context, employeeID string, uploads []document.AttachmentUpload) ([]file.StoredFile, error) {
	stored := make([]file.StoredFile, 0, len(uploads))
	for _, u := range uploads {
		data, err := validator.DecodeBase64(u.Content)
		if err != nil {
			d.discardFiles(ctx, stored)
			return nil, document.ErrInvalidAttachment
		}

		f, err := d.fileService.UploadDocumentAttachment(ctx, employeeID, u.Filename, data)
		if err != nil {
			d.discardFiles(ctx, stored)
			if errors.Is(err, file.ErrUnsupportedFileType) || errors.Is(err, file.ErrFileTooLarge) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to store attachment %q: %w", u.Filename, err)
		}
		stored = append(stored, f)
	}
	return stored, nil
}

func (d *DocumentServiceImpl) discardFiles(ctx context.Context, files []file.StoredFile) {
	for _, f := range files {
		if err := d.fileService.DeleteFile(ctx, f.Path); err != nil {
			slog.Warn("failed to delete orphaned attachment", "path", f.Path, "error", err)
		}
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(timeLayout)
	return &format
}

func (d *DocumentServiceImpl) mapRequestToResponse(ctx context.Context, r document.Request) document.DocumentResponse {
	attachments := make([]document.AttachmentResponse, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		attachments = append(attachments, document.AttachmentResponse{
			ID:       a.ID,
			Filename: a.Filename,
			URL:      d.fileService.URL("documents", r.ID, "attachments", a.ID),
		})
	}

	return document.DocumentResponse{
		ID:               r.ID,
		Name:             r.Name,
		DocumentTypeID:   r.DocumentTypeID,
		DocumentTypeName: r.DocumentTypeName,
		Description:      r.Description,
		State:            string(r.State),
		SubmissionDate:   timePtrToString(r.SubmissionDate),
		ApprovalDate:     timePtrToString(r.ApprovalDate),
		ApprovedBy:       r.ApprovedBy,
		RejectionReason:  r.RejectionReason,
		Attachments:      attachments,
		CreatedAt:        r.CreatedAt.Format(timeLayout),
	}
}
