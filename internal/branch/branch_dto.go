package branch

type RegisterBranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`

	AdminName     string `json:"admin_name" binding:"required"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=6"`

	SessionName      string `json:"session_name" binding:"required"`
	SessionStartDate string `json:"session_start_date" binding:"required"`
}

type UpdateBranchRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

type BranchResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	IsActive bool   `json:"is_active"`
}

type RegisterBranchResponse struct {
	Branch      BranchResponse `json:"branch"`
	AdminUserID string         `json:"admin_user_id"`
	SessionID   string         `json:"session_id"`
}
