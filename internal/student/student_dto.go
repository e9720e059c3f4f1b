package student

type CreateStudentRequest struct {
	AdmissionNumber string `json:"admission_number"`
	FullName        string `json:"full_name" binding:"required"`
	GradeLevel      int    `json:"grade_level" binding:"required,min=1,max=12"`
	ClassID         string `json:"class_id" binding:"omitempty,uuid"`
	GuardianName    string `json:"guardian_name"`
	GuardianPhone   string `json:"guardian_phone"`
	DateOfBirth     string `json:"date_of_birth"`
	EnrolledDate    string `json:"enrolled_date" binding:"required"`
}

type UpdateStudentRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	GradeLevel    int    `json:"grade_level" binding:"required,min=1,max=12"`
	ClassID       string `json:"class_id" binding:"omitempty,uuid"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
	Active        *bool  `json:"active"`
}

type StudentResponse struct {
	ID              string `json:"id"`
	BranchID        string `json:"branch_id"`
	AdmissionNumber string `json:"admission_number"`
	FullName        string `json:"full_name"`
	GradeLevel      int    `json:"grade_level"`
	ClassID         string `json:"class_id,omitempty"`
	GuardianName    string `json:"guardian_name,omitempty"`
	GuardianPhone   string `json:"guardian_phone,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	EnrolledDate    string `json:"enrolled_date"`
	Active          bool   `json:"active"`
}
