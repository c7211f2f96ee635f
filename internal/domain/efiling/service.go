package efiling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peopleops/internal/auth"
	"peopleops/internal/domain/rbac"
)

var (
	ErrNotFound       = errors.New("transfer not found")
	ErrNotSender      = errors.New("only the sender may delete a transfer")
	ErrNotParticipant = errors.New("not a participant of this transfer")
	ErrSelfTransfer   = errors.New("cannot send a file to yourself")
)

type Service struct {
	DB           *pgxpool.Pool
	Blobs        *BlobStore
	MaxBytes     int64
	DeleteWindow time.Duration
	Logger       *slog.Logger

	Now func() time.Time
}

func NewService(db *pgxpool.Pool, blobs *BlobStore, maxBytes int64, deleteWindow time.Duration, logger *slog.Logger) *Service {
	return &Service{
		DB:           db,
		Blobs:        blobs,
		MaxBytes:     maxBytes,
		DeleteWindow: deleteWindow,
		Logger:       logger,
		Now:          time.Now,
	}
}

const transferColumns = `
    t.id, t.thread_id, t.parent_transfer_id,
    t.sender_id, TRIM(CONCAT(su.first_name, ' ', su.last_name)),
    t.recipient_id, TRIM(CONCAT(ru.first_name, ' ', ru.last_name)),
    t.subject, t.remarks,
    t.file_name, t.file_path, t.file_size, t.content_type,
    t.is_read, t.read_at, t.created_at
`

const transferJoins = `
    FROM file_transfers t
    JOIN users su ON su.id = t.sender_id
    JOIN users ru ON ru.id = t.recipient_id
`

func scanTransfer(row pgx.Row) (Transfer, error) {
	var t Transfer
	err := row.Scan(
		&t.ID, &t.ThreadID, &t.ParentTransferID,
		&t.SenderID, &t.SenderName,
		&t.RecipientID, &t.RecipientName,
		&t.Subject, &t.Remarks,
		&t.FileName, &t.FilePath, &t.FileSize, &t.ContentType,
		&t.IsRead, &t.ReadAt, &t.CreatedAt,
	)
	return t, err
}

type SendInput struct {
	RecipientID string
	Subject     string
	Remarks     string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Send validates and stores the upload, then records the transfer as the root
// of a new thread. The transfer's own id doubles as the thread id.
func (s *Service) Send(ctx context.Context, senderID string, in SendInput) (Transfer, error) {
	if senderID == in.RecipientID {
		return Transfer{}, ErrSelfTransfer
	}
	if err := ValidateUpload(in.Size, s.MaxBytes, in.ContentType); err != nil {
		return Transfer{}, err
	}

	blobName, written, err := s.Blobs.Save(in.FileName, io.LimitReader(in.Body, s.MaxBytes+1))
	if err != nil {
		return Transfer{}, err
	}
	if written > s.MaxBytes {
		s.Blobs.Remove(blobName)
		return Transfer{}, ErrFileTooLarge
	}

	id := uuid.NewString()
	_, err = s.DB.Exec(ctx, `
    INSERT INTO file_transfers (id, thread_id, sender_id, recipient_id, subject, remarks,
                                file_name, file_path, file_size, content_type)
    VALUES ($1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
  `, id, senderID, in.RecipientID, in.Subject, in.Remarks,
		in.FileName, blobName, written, in.ContentType)
	if err != nil {
		s.Blobs.Remove(blobName)
		return Transfer{}, fmt.Errorf("recording transfer: %w", err)
	}

	s.Logger.Info("file sent",
		slog.String("transfer_id", id),
		slog.String("sender_id", senderID),
		slog.String("recipient_id", in.RecipientID),
		slog.Int64("size", written))
	return s.Get(ctx, id)
}

type ForwardInput struct {
	OriginalTransferID string `json:"originalTransferId" validate:"required,uuid"`
	RecipientID        string `json:"recipientId" validate:"required,uuid"`
	Remarks            string `json:"remarks"`
}

// Forward routes an existing document onward. The new transfer keeps the
// thread id and points at the same physical file; no bytes are copied.
func (s *Service) Forward(ctx context.Context, actor auth.UserContext, in ForwardInput) (Transfer, error) {
	parent, err := s.Get(ctx, in.OriginalTransferID)
	if err != nil {
		return Transfer{}, err
	}
	if !IsParticipant(parent, actor.UserID) {
		return Transfer{}, ErrNotParticipant
	}
	if actor.UserID == in.RecipientID {
		return Transfer{}, ErrSelfTransfer
	}

	id := uuid.NewString()
	_, err = s.DB.Exec(ctx, `
    INSERT INTO file_transfers (id, thread_id, parent_transfer_id, sender_id, recipient_id,
                                subject, remarks, file_name, file_path, file_size, content_type)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  `, id, parent.ThreadID, parent.ID, actor.UserID, in.RecipientID,
		parent.Subject, in.Remarks, parent.FileName, parent.FilePath, parent.FileSize, parent.ContentType)
	if err != nil {
		return Transfer{}, fmt.Errorf("recording forward: %w", err)
	}

	s.Logger.Info("file forwarded",
		slog.String("transfer_id", id),
		slog.String("thread_id", parent.ThreadID),
		slog.String("recipient_id", in.RecipientID))
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Transfer, error) {
	t, err := scanTransfer(s.DB.QueryRow(ctx, "SELECT "+transferColumns+transferJoins+" WHERE t.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Transfer{}, ErrNotFound
	}
	return t, err
}

func (s *Service) Inbox(ctx context.Context, userID string, limit, offset int) ([]Transfer, error) {
	return s.list(ctx, "t.recipient_id = $1 ORDER BY t.created_at DESC LIMIT $2 OFFSET $3", userID, limit, offset)
}

func (s *Service) Sent(ctx context.Context, userID string, limit, offset int) ([]Transfer, error) {
	return s.list(ctx, "t.sender_id = $1 ORDER BY t.created_at DESC LIMIT $2 OFFSET $3", userID, limit, offset)
}

// History pages through the transfers the user took part in, newest first.
// filter narrows to "sent" or "received"; anything else means both sides.
func (s *Service) History(ctx context.Context, userID, filter string, limit, offset int) ([]Transfer, error) {
	switch filter {
	case "sent":
		return s.Sent(ctx, userID, limit, offset)
	case "received":
		return s.Inbox(ctx, userID, limit, offset)
	}
	return s.list(ctx,
		"(t.sender_id = $1 OR t.recipient_id = $1) ORDER BY t.created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
}

// Track returns a document's full routing trail in chronological order.
// Only thread participants and admins may follow it.
func (s *Service) Track(ctx context.Context, actor auth.UserContext, transferID string) ([]Transfer, error) {
	t, err := s.Get(ctx, transferID)
	if err != nil {
		return nil, err
	}

	trail, err := s.list(ctx, "t.thread_id = $1 ORDER BY t.created_at ASC", t.ThreadID)
	if err != nil {
		return nil, err
	}

	if !CanTrack(actor.UserID, actor.Role, trail) {
		return nil, ErrNotParticipant
	}
	return trail, nil
}

func (s *Service) list(ctx context.Context, whereAndOrder string, args ...any) ([]Transfer, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+transferColumns+transferJoins+" WHERE "+whereAndOrder, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// MarkRead flips the unread flag exactly once; later calls are no-ops that
// keep the original readAt.
func (s *Service) MarkRead(ctx context.Context, actorID, transferID string) (Transfer, error) {
	t, err := s.Get(ctx, transferID)
	if err != nil {
		return Transfer{}, err
	}
	if t.RecipientID != actorID {
		return Transfer{}, ErrNotParticipant
	}

	_, err = s.DB.Exec(ctx, `
    UPDATE file_transfers
    SET is_read = true, read_at = now()
    WHERE id = $1 AND NOT is_read
  `, transferID)
	if err != nil {
		return Transfer{}, fmt.Errorf("marking read: %w", err)
	}
	return s.Get(ctx, transferID)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM file_transfers WHERE recipient_id = $1 AND NOT is_read", userID).Scan(&n)
	return n, err
}

// Download opens the stored blob after checking the caller may see it. A
// recipient downloading counts as reading the transfer.
func (s *Service) Download(ctx context.Context, actor auth.UserContext, transferID string) (Transfer, *os.File, error) {
	t, err := s.Get(ctx, transferID)
	if err != nil {
		return Transfer{}, nil, err
	}
	if !IsParticipant(t, actor.UserID) && actor.Role != rbac.RoleAdmin {
		return Transfer{}, nil, ErrNotParticipant
	}

	if t.RecipientID == actor.UserID && !t.IsRead {
		if t, err = s.MarkRead(ctx, actor.UserID, transferID); err != nil {
			return Transfer{}, nil, err
		}
	}

	f, err := s.Blobs.Open(t.FilePath)
	if err != nil {
		return Transfer{}, nil, fmt.Errorf("opening blob: %w", err)
	}
	return t, f, nil
}

// Delete recalls a transfer the caller sent, inside the recall window. The
// blob is removed only when no other transfer still references it, since
// forwards share the physical file.
func (s *Service) Delete(ctx context.Context, actorID, transferID string) error {
	t, err := s.Get(ctx, transferID)
	if err != nil {
		return err
	}
	if err := CanDelete(t, actorID, s.Now(), s.DeleteWindow); err != nil {
		return err
	}

	tag, err := s.DB.Exec(ctx, "DELETE FROM file_transfers WHERE id = $1", transferID)
	if err != nil {
		return fmt.Errorf("deleting transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	var stillReferenced bool
	err = s.DB.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM file_transfers WHERE file_path = $1)", t.FilePath).Scan(&stillReferenced)
	if err != nil {
		return fmt.Errorf("checking blob references: %w", err)
	}
	if !stillReferenced {
		if err := s.Blobs.Remove(t.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.Logger.Warn("orphaned blob left on disk",
				slog.String("blob", t.FilePath), slog.Any("error", err))
		}
	}

	s.Logger.Info("transfer deleted",
		slog.String("transfer_id", transferID),
		slog.String("sender_id", actorID))
	return nil
}
