package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"parley/domain"
)

// maxTimestampPad seeks past every real key of a conversation prefix.
const maxTimestampPad = "9999999999999999999"

type MessageRepository struct {
	db       *badger.DB
	log      *slog.Logger
	pageSize int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, pageSize int) MessageRepository {
	return MessageRepository{db: db, log: log, pageSize: pageSize}
}

// Store persists a message. The key is formatted as
// "msg:{conversation_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) Store(_ context.Context, message domain.Message) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.ConversationID,
		message.CreatedAt.UnixNano(),
		message.ID,
	)
	bytes, err := encode(map[string]any{
		"id":         message.ID.String(),
		"sender_id":  message.SenderID,
		"content":    message.Content,
		"created_at": message.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// Recent returns up to limit of the newest messages, reordered oldest first.
// This is the policy-evaluation window.
func (m MessageRepository) Recent(_ context.Context, conversationID string, limit int) ([]domain.Message, error) {
	var raw [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", conversationID))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(append(prefix, []byte(maxTimestampPad)...)); it.ValidForPrefix(prefix); it.Next() {
			if len(raw) == limit {
				break
			}
			if err := it.Item().Value(func(value []byte) error {
				raw = append(raw, append([]byte(nil), value...))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		message, err := toMessage(conversationID, raw[i])
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// List retrieves a page of messages newest first using a reverse prefix scan.
// The returned cursor is the key suffix of the last message of the page and
// resumes the scan strictly after it.
func (m MessageRepository) List(_ context.Context, conversationID string, cursor *string) ([]domain.Message, *string, error) {
	var raw [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", conversationID)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append(prefix, []byte(maxTimestampPad)...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if len(raw) == m.pageSize {
				m.log.Debug("page size reached", "conversation_id", conversationID, "page_size", m.pageSize)
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			if err := item.Value(func(value []byte) error {
				raw = append(raw, append([]byte(nil), value...))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]domain.Message, 0, len(raw))
	for _, b := range raw {
		message, err := toMessage(conversationID, b)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}

func toMessage(conversationID string, raw []byte) (domain.Message, error) {
	fields, err := decode(raw)
	if err != nil {
		return domain.Message{}, err
	}
	id, err := uuid.Parse(fieldString(fields, "id"))
	if err != nil {
		return domain.Message{}, fmt.Errorf("parsing message id: %w", err)
	}
	return domain.Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       fieldString(fields, "sender_id"),
		Content:        fieldString(fields, "content"),
		CreatedAt:      fieldTime(fields, "created_at"),
	}, nil
}
