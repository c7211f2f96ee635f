package efiling

import "time"

type Transfer struct {
	ID               string     `json:"id"`
	ThreadID         string     `json:"threadId"`
	ParentTransferID *string    `json:"parentTransferId,omitempty"`
	SenderID         string     `json:"senderId"`
	SenderName       string     `json:"senderName,omitempty"`
	RecipientID      string     `json:"recipientId"`
	RecipientName    string     `json:"recipientName,omitempty"`
	Subject          string     `json:"subject"`
	Remarks          string     `json:"remarks,omitempty"`
	FileName         string     `json:"fileName"`
	FilePath         string     `json:"-"`
	FileSize         int64      `json:"fileSize"`
	ContentType      string     `json:"contentType"`
	IsRead           bool       `json:"isRead"`
	ReadAt           *time.Time `json:"readAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}
