package employee

import "time"

type Employee struct {
	ID         string
	UserID     *string
	CompanyID  string
	FullName   string
	JobTitle   *string
	Department *string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
