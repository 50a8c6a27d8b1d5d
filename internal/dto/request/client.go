package request

type CheckUnlockRequest struct {
	ComputerID string `json:"computer_id" validate:"required,uuid"`
}

type UnlockRequest struct {
	ComputerID string `json:"computer_id" validate:"required,uuid"`
	UnlockCode string `json:"unlock_code" validate:"required"`
}

type LockRequest struct {
	ComputerID string `json:"computer_id" validate:"required,uuid"`
}
