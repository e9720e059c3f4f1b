package staff

type CreateStaffRequest struct {
	StaffNumber string `json:"staff_number"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	RoleTitle   string `json:"role_title"`
	ClassID     string `json:"class_id" binding:"omitempty,uuid"`
	JoiningDate string `json:"joining_date" binding:"required"`
}

type UpdateStaffRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	RoleTitle   string `json:"role_title"`
	ClassID     string `json:"class_id" binding:"omitempty,uuid"`
	JoiningDate string `json:"joining_date" binding:"required"`
	Active      *bool  `json:"active"`
}

type StaffResponse struct {
	ID          string `json:"id"`
	BranchID    string `json:"branch_id"`
	StaffNumber string `json:"staff_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	RoleTitle   string `json:"role_title,omitempty"`
	ClassID     string `json:"class_id,omitempty"`
	JoiningDate string `json:"joining_date"`
	Active      bool   `json:"active"`
}
