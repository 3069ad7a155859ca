package repositories

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"parley/domain"
)

type ParticipantRepository struct {
	db *badger.DB
}

func NewParticipantRepository(db *badger.DB) ParticipantRepository {
	return ParticipantRepository{db: db}
}

// Add appends a participant. The key is "part:{conversation_id}:{seq}:{id}"
// with a zero-padded join sequence, so a plain forward scan yields join order.
func (r ParticipantRepository) Add(_ context.Context, conversationID string, participant domain.Participant) error {
	bytes, err := encode(map[string]any{
		"id":           participant.ID,
		"role":         string(participant.Role),
		"display_name": participant.DisplayName,
	})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("part:%s:", conversationID))
		seq := 0
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			seq++
		}
		it.Close()

		key := fmt.Sprintf("part:%s:%03d:%s", conversationID, seq, participant.ID)
		return txn.Set([]byte(key), bytes)
	})
}

// List returns the participants of a conversation in join order.
func (r ParticipantRepository) List(_ context.Context, conversationID string) ([]domain.Participant, error) {
	var raw [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("part:%s:", conversationID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
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

	participants := make([]domain.Participant, 0, len(raw))
	for _, b := range raw {
		fields, err := decode(b)
		if err != nil {
			return nil, err
		}
		participants = append(participants, domain.Participant{
			ID:          fieldString(fields, "id"),
			Role:        domain.Role(fieldString(fields, "role")),
			DisplayName: fieldString(fields, "display_name"),
		})
	}
	return participants, nil
}
