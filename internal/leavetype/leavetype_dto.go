package leavetype

type CreateLeaveTypeRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Code          string `json:"code" binding:"required,max=20"`
	TracksBalance *bool  `json:"tracks_balance"`
}

type LeaveTypeResponse struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	TracksBalance bool   `json:"tracks_balance"`
}
