package user

type ModuleAccessResponse struct {
	HR       bool `json:"hr"`
	Sales    bool `json:"sales"`
	Purchase bool `json:"purchase"`
	Project  bool `json:"project"`
}

type PermissionsResponse struct {
	UserID      string               `json:"user_id"`
	Username    string               `json:"username"`
	DisplayName string               `json:"display_name"`
	EmployeeID  *string              `json:"employee_id"`
	IsManager   bool                 `json:"is_manager"`
	Modules     ModuleAccessResponse `json:"permissions"`
	Permissions []Permission         `json:"granted"`
}

type DashboardUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type DashboardEmployee struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	JobTitle   *string `json:"job_title"`
	Department *string `json:"department"`
}

type DashboardSummary struct {
	PendingDocuments    *int64 `json:"pending_documents,omitempty"`
	AttendanceThisMonth *int64 `json:"attendance_this_month,omitempty"`
	CheckedIn           *bool  `json:"checked_in,omitempty"`
	OpenInvoices        *int64 `json:"open_invoices,omitempty"`
}

type DashboardResponse struct {
	User     DashboardUser      `json:"user"`
	Employee *DashboardEmployee `json:"employee"`
	Summary  DashboardSummary   `json:"summary"`
}
