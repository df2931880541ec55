package document

import (
	"strings"
	"time"
)

type State string

const (
	StateRequested State = "requested"
	StateSubmitted State = "submitted"
	StateApproved  State = "approved"
	StateRejected  State = "rejected"
)

type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReset   Action = "reset"
)

// Transitions lists the states each action may start from. Reset is allowed from any state.
var Transitions = map[Action][]State{
	ActionSubmit:  {StateRequested, StateRejected},
	ActionApprove: {StateSubmitted},
	ActionReject:  {StateSubmitted},
}

func (s State) IsValid() bool {
	switch s {
	case StateRequested, StateSubmitted, StateApproved, StateRejected:
		return true
	}
	return false
}

// Can reports whether action is allowed from s.
func (s State) Can(action Action) bool {
	if action == ActionReset {
		return s.IsValid()
	}
	for _, from := range Transitions[action] {
		if from == s {
			return true
		}
	}
	return false
}

type Type struct {
	ID          string
	Name        string
	Description *string
	IsRequired  bool
	Sequence    int
	Active      bool
}

type Attachment struct {
	ID        string
	RequestID string
	Filename  string
	Path      string
	CreatedAt time.Time
}

// Request is an employee's request to provide an HR document.
type Request struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	DocumentTypeID  string
	Name            string
	Description     *string
	State           State
	Attachments     []Attachment
	SubmissionDate  *time.Time
	ApprovalDate    *time.Time
	ApprovedBy      *string
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	DocumentTypeName *string
	EmployeeName     *string
}

// DefaultName is used when a request is created without a name.
func DefaultName(typeName, employeeName string) string {
	return typeName + " - " + employeeName
}

func NewRequest(employeeID, companyID, documentTypeID, name string, description *string) Request {
	return Request{
		EmployeeID:     employeeID,
		CompanyID:      companyID,
		DocumentTypeID: documentTypeID,
		Name:           name,
		Description:    description,
		State:          StateRequested,
	}
}

func (r *Request) Submit(at time.Time) error {
	if !r.State.Can(ActionSubmit) {
		return ErrInvalidTransition
	}
	if len(r.Attachments) == 0 {
		return ErrNoAttachments
	}
	r.State = StateSubmitted
	r.SubmissionDate = &at
	return nil
}

func (r *Request) Approve(at time.Time, approverID string) error {
	if !r.State.Can(ActionApprove) {
		return ErrInvalidTransition
	}
	r.State = StateApproved
	r.ApprovalDate = &at
	r.ApprovedBy = &approverID
	return nil
}

// Reject stores reason verbatim.
func (r *Request) Reject(reason string) error {
	if !r.State.Can(ActionReject) {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(reason) == "" {
		return ErrRejectionReasonRequired
	}
	r.State = StateRejected
	r.RejectionReason = &reason
	return nil
}

func (r *Request) Reset() {
	r.State = StateRequested
	r.SubmissionDate = nil
	r.ApprovalDate = nil
	r.ApprovedBy = nil
	r.RejectionReason = nil
}
