package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/document"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type documentTypeRepositoryImpl struct {
	db database.Pool
}

func NewDocumentTypeRepository(db database.Pool) document.DocumentTypeRepository {
	return &documentTypeRepositoryImpl{db: db}
}

// GetByID implements document.DocumentTypeRepository.
func (r *documentTypeRepositoryImpl) GetByID(ctx context.Context, id string) (document.Type, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, description, is_required, sequence, active
		FROM document_types
		WHERE id = $1
	`

	var t document.Type
	err := q.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description, &t.IsRequired, &t.Sequence, &t.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Type{}, document.ErrDocumentTypeNotFound
		}
		return document.Type{}, fmt.Errorf("failed to get document type: %w", err)
	}
	return t, nil
}

// ListActive implements document.DocumentTypeRepository.
func (r *documentTypeRepositoryImpl) ListActive(ctx context.Context) ([]document.Type, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, description, is_required, sequence, active
		FROM document_types
		WHERE active = TRUE
		ORDER BY sequence ASC, name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list document types: %w", err)
	}
	defer rows.Close()

	var types []document.Type
	for rows.Next() {
		var t document.Type
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.IsRequired, &t.Sequence, &t.Active); err != nil {
			return nil, fmt.Errorf("failed to scan document type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

type documentRequestRepositoryImpl struct {
	db database.Pool
}

func NewDocumentRequestRepository(db database.Pool) document.DocumentRequestRepository {
	return &documentRequestRepositoryImpl{db: db}
}

const documentRequestSelect = `
	SELECT r.id, r.employee_id, r.company_id, r.document_type_id, r.name, r.description,
		   r.state, r.submission_date, r.approval_date, r.approved_by, r.rejection_reason,
		   r.created_at, r.updated_at, t.name, e.full_name
	FROM document_requests r
	LEFT JOIN document_types t ON t.id = r.document_type_id
	LEFT JOIN employees e ON e.id = r.employee_id
`

func scanDocumentRequest(row pgx.Row) (document.Request, error) {
	var (
		req   document.Request
		state string
	)
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.CompanyID, &req.DocumentTypeID, &req.Name, &req.Description,
		&state, &req.SubmissionDate, &req.ApprovalDate, &req.ApprovedBy, &req.RejectionReason,
		&req.CreatedAt, &req.UpdatedAt, &req.DocumentTypeName, &req.EmployeeName,
	)
	req.State = document.State(state)
	return req, err
}

// Create implements document.DocumentRequestRepository.
func (r *documentRequestRepositoryImpl) Create(ctx context.Context, req document.Request) (document.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO document_requests (employee_id, company_id, document_type_id, name, description, state)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.CompanyID,
		req.DocumentTypeID,
		req.Name,
		req.Description,
		string(req.State),
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if code, _ := pgErrorCode(err); code == foreignKeyViolationCode {
			return document.Request{}, document.ErrDocumentTypeNotFound
		}
		return document.Request{}, fmt.Errorf("failed to create document request: %w", err)
	}
	return req, nil
}

// GetByID implements document.DocumentRequestRepository.
func (r *documentRequestRepositoryImpl) GetByID(ctx context.Context, id string) (document.Request, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanDocumentRequest(q.QueryRow(ctx, documentRequestSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Request{}, document.ErrDocumentNotFound
		}
		return document.Request{}, fmt.Errorf("failed to get document request: %w", err)
	}

	attachments, err := r.listAttachments(ctx, []string{req.ID})
	if err != nil {
		return document.Request{}, err
	}
	req.Attachments = attachments[req.ID]
	return req, nil
}

// Update implements document.DocumentRequestRepository.
func (r *documentRequestRepositoryImpl) Update(ctx context.Context, req document.Request, from document.State) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE document_requests SET
			state = $2,
			submission_date = $3,
			approval_date = $4,
			approved_by = $5,
			rejection_reason = $6,
			updated_at = NOW()
		WHERE id = $1 AND state = $7
	`

	tag, err := q.Exec(ctx, query,
		req.ID,
		string(req.State),
		req.SubmissionDate,
		req.ApprovalDate,
		req.ApprovedBy,
		req.RejectionReason,
		string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update document request: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM document_requests WHERE id = $1)`, req.ID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check document request: %w", err)
	}
	if !exists {
		return document.ErrDocumentNotFound
	}
	return document.ErrInvalidTransition
}

// AddAttachment implements document.DocumentRequestRepository.
func (r *documentRequestRepositoryImpl) AddAttachment(ctx context.Context, a document.Attachment) (document.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO document_attachments (request_id, filename, path)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := q.QueryRow(ctx, query, a.RequestID, a.Filename, a.Path).Scan(&a.ID, &a.CreatedAt); err != nil {
		if code, _ := pgErrorCode(err); code == foreignKeyViolationCode {
			return document.Attachment{}, document.ErrDocumentNotFound
		}
		return document.Attachment{}, fmt.Errorf("failed to add attachment: %w", err)
	}
	return a, nil
}

// ListByEmployee implements document.DocumentRequestRepository.
func (r *documentRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter document.ListFilter) ([]document.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "r.employee_id = $1"
	args := []interface{}{employeeID}
	if filter.State != nil {
		where += " AND r.state = $2"
		args = append(args, string(*filter.State))
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM document_requests r WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count document requests: %w", err)
	}

	query := documentRequestSelect + ` WHERE ` + where +
		fmt.Sprintf(" ORDER BY r.created_at DESC, r.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list document requests: %w", err)
	}
	defer rows.Close()

	var (
		requests []document.Request
		ids      []string
	)
	for rows.Next() {
		req, err := scanDocumentRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan document request: %w", err)
		}
		requests = append(requests, req)
		ids = append(ids, req.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate document requests: %w", err)
	}

	if len(ids) == 0 {
		return requests, total, nil
	}

	attachments, err := r.listAttachments(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range requests {
		requests[i].Attachments = attachments[requests[i].ID]
	}
	return requests, total, nil
}

func (r *documentRequestRepositoryImpl) listAttachments(ctx context.Context, requestIDs []string) (map[string][]document.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, request_id, filename, path, created_at
		FROM document_attachments
		WHERE request_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, requestIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]document.Attachment, len(requestIDs))
	for rows.Next() {
		var a document.Attachment
		if err := rows.Scan(&a.ID, &a.RequestID, &a.Filename, &a.Path, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		result[a.RequestID] = append(result[a.RequestID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachments: %w", err)
	}
	return result, nil
}
