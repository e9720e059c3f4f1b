package rbac

type EnforceRequest struct {
	UserID   string `json:"user_id"`
	BranchID string `json:"branch_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
