package api

type Participant struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name,omitempty"`
	AmountOwed  float64 `json:"amount_owed"`
	AmountPaid  float64 `json:"amount_paid"`
	Outstanding float64 `json:"outstanding"`
	Status      string  `json:"status"`
	PaidAt      int64   `json:"paid_at,omitempty"`
}

type Split struct {
	ID           string         `json:"id"`
	CreatedBy    string         `json:"created_by"`
	GroupID      string         `json:"group_id,omitempty"`
	Description  string         `json:"description"`
	TotalAmount  float64        `json:"total_amount"`
	SplitType    string         `json:"split_type"`
	Status       string         `json:"status"`
	BillDate     int64          `json:"bill_date"`
	Participants []*Participant `json:"participants"`
	CreatedAt    int64          `json:"created_at"`
	SettledAt    int64          `json:"settled_at,omitempty"`
}

type Settlement struct {
	ID            string  `json:"id"`
	ParticipantID string  `json:"participant_id"`
	PayerID       string  `json:"payer_id"`
	RecordedBy    string  `json:"recorded_by"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	Note          string  `json:"note,omitempty"`
	CreatedAt     int64   `json:"created_at"`
}

// ParticipantShare names a participant. AmountOwed is ignored for equal splits.
type ParticipantShare struct {
	UserID     string  `json:"user_id"`
	AmountOwed float64 `json:"amount_owed,omitempty"`
}

type CreateSplitRequest struct {
	GroupID      string              `json:"group_id,omitempty"`
	Description  string              `json:"description"`
	TotalAmount  float64             `json:"total_amount"`
	SplitType    string              `json:"split_type"`
	BillDate     int64               `json:"bill_date,omitempty"`
	Participants []*ParticipantShare `json:"participants"`
}

type CreateSplitResponse struct {
	Split *Split `json:"split"`
}

type GetSplitRequest struct {
	SplitID string `json:"split_id"`
}

type GetSplitResponse struct {
	Split       *Split        `json:"split"`
	Settlements []*Settlement `json:"settlements"`
}

type ListSplitsRequest struct {
	GroupID string `json:"group_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

type ListSplitsResponse struct {
	Splits []*Split `json:"splits"`
}

// RecordPaymentRequest records the caller paying towards their own share.
type RecordPaymentRequest struct {
	SplitID string  `json:"split_id"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method,omitempty"`
	Note    string  `json:"note,omitempty"`
}

type RecordPaymentResponse struct {
	Participant *Participant `json:"participant"`
	Split       *Split       `json:"split"`
}

// SettleShareRequest lets the creator mark a participant's share paid in full.
type SettleShareRequest struct {
	SplitID string `json:"split_id"`
	UserID  string `json:"user_id"`
	Method  string `json:"method,omitempty"`
	Note    string `json:"note,omitempty"`
}

type SettleShareResponse struct {
	Participant *Participant `json:"participant"`
	Split       *Split       `json:"split"`
}

type DeleteSplitRequest struct {
	SplitID string `json:"split_id"`
}

type DeleteSplitResponse struct{}

type Comment struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

type AddCommentRequest struct {
	SplitID string `json:"split_id"`
	Content string `json:"content"`
}

type AddCommentResponse struct {
	Comment *Comment `json:"comment"`
}

type ListCommentsRequest struct {
	SplitID string `json:"split_id"`
}

type ListCommentsResponse struct {
	Comments []*Comment `json:"comments"`
}

type SendReminderRequest struct {
	SplitID      string `json:"split_id"`
	UserID       string `json:"user_id"`
	ReminderType string `json:"reminder_type,omitempty"`
}

type SendReminderResponse struct {
	ReminderID  string  `json:"reminder_id"`
	Outstanding float64 `json:"outstanding"`
}
