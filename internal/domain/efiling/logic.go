package efiling

import (
	"errors"
	"time"

	"peopleops/internal/domain/rbac"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrDeleteWindowClosed = errors.New("delete window has closed")
)

// allowedTypes is the document and archive allow-list for routed files.
var allowedTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-powerpoint":                                     {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"image/jpeg":                   {},
	"image/png":                    {},
	"image/gif":                    {},
	"text/plain":                   {},
	"application/zip":              {},
	"application/x-rar-compressed": {},
}

// ValidateUpload enforces the size cap and the content type allow-list before
// any bytes hit disk.
func ValidateUpload(size, maxBytes int64, contentType string) error {
	if size > maxBytes {
		return ErrFileTooLarge
	}
	if _, ok := allowedTypes[contentType]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

// DeletableUntil is the moment a sender loses the right to recall a transfer.
func DeletableUntil(createdAt time.Time, window time.Duration) time.Time {
	return createdAt.Add(window)
}

// CanDelete reports whether the actor may still delete a transfer. Only the
// sender may, and only inside the recall window.
func CanDelete(t Transfer, actorID string, now time.Time, window time.Duration) error {
	if t.SenderID != actorID {
		return ErrNotSender
	}
	if now.After(DeletableUntil(t.CreatedAt, window)) {
		return ErrDeleteWindowClosed
	}
	return nil
}

// IsParticipant reports whether the user sent or received the transfer.
func IsParticipant(t Transfer, userID string) bool {
	return t.SenderID == userID || t.RecipientID == userID
}

// CanTrack reports whether a user may follow a routing trail: anyone who sent
// or received a hop in the thread, plus admin. No other role sees trails it
// is not part of.
func CanTrack(userID, role string, trail []Transfer) bool {
	if role == rbac.RoleAdmin {
		return true
	}
	for _, hop := range trail {
		if IsParticipant(hop, userID) {
			return true
		}
	}
	return false
}
