package class

type CreateClassRequest struct {
	Name            string `json:"name" binding:"required"`
	Section         string `json:"section"`
	GradeLevel      int    `json:"grade_level" binding:"required,min=1,max=12"`
	FeeTemplateID   string `json:"fee_template_id" binding:"omitempty,uuid"`
	HomeroomStaffID string `json:"homeroom_staff_id" binding:"omitempty,uuid"`
}

type UpdateClassRequest struct {
	Name            string `json:"name" binding:"required"`
	Section         string `json:"section"`
	GradeLevel      int    `json:"grade_level" binding:"required,min=1,max=12"`
	FeeTemplateID   string `json:"fee_template_id" binding:"omitempty,uuid"`
	HomeroomStaffID string `json:"homeroom_staff_id" binding:"omitempty,uuid"`
}

type ClassResponse struct {
	ID              string `json:"id"`
	BranchID        string `json:"branch_id"`
	Name            string `json:"name"`
	Section         string `json:"section,omitempty"`
	GradeLevel      int    `json:"grade_level"`
	FeeTemplateID   string `json:"fee_template_id,omitempty"`
	HomeroomStaffID string `json:"homeroom_staff_id,omitempty"`
}
