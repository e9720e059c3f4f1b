package auth

type RegisterRequest struct {
	BranchID  string `json:"branch_id" binding:"required,uuid"`
	StaffID   string `json:"staff_id" binding:"omitempty,uuid"`
	StudentID string `json:"student_id" binding:"omitempty,uuid"`
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role" binding:"omitempty,oneof=Admin Principal Registrar Teacher Student Parent Librarian"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID        string `json:"id"`
	BranchID  string `json:"branch_id"`
	StaffID   string `json:"staff_id,omitempty"`
	StudentID string `json:"student_id,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}
