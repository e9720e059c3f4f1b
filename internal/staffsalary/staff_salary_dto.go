package staffsalary

type CreateStaffSalaryRequest struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
	// Omitted amount creates an unconfigured profile.
	Amount        *int64 `json:"amount"`
	EffectiveFrom string `json:"effective_from"`
}

type UpdateStaffSalaryRequest struct {
	Amount        *int64 `json:"amount" binding:"required"`
	EffectiveFrom string `json:"effective_from"`
}

type StaffSalaryResponse struct {
	ID            string `json:"id"`
	StaffID       string `json:"staff_id"`
	StaffName     string `json:"staff_name,omitempty"`
	Amount        *int64 `json:"amount"`
	EffectiveFrom string `json:"effective_from"`
}
