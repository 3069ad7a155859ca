package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"parley/domain"
)

type TurnStateRepository struct {
	db *badger.DB
}

func NewTurnStateRepository(db *badger.DB) TurnStateRepository {
	return TurnStateRepository{db: db}
}

// Load returns (nil, nil) when no turn state exists yet. Callers treat
// absence as a recoverable condition and synthesize a fresh state.
func (r TurnStateRepository) Load(_ context.Context, conversationID string) (*domain.TurnState, error) {
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(turnKey(conversationID))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	fields, err := decode(raw)
	if err != nil {
		return nil, err
	}
	state := domain.TurnState{
		ConversationID: conversationID,
		NextRole:       fieldString(fields, "next_role"),
		TurnQueue:      fieldStrings(fields, "turn_queue"),
		CurrentIndex:   fieldInt(fields, "current_index"),
		UpdatedAt:      fieldTime(fields, "updated_at"),
	}
	// A null next_actor_id means anyone may send; keep the pointer nil.
	if next, ok := fields["next_actor_id"].(string); ok {
		state.NextActorID = &next
	}
	return &state, nil
}

func (r TurnStateRepository) Save(_ context.Context, state domain.TurnState) error {
	if state.ConversationID == "" {
		return fmt.Errorf("turn state without conversation id")
	}
	fields := map[string]any{
		"next_actor_id": nil,
		"next_role":     state.NextRole,
		"turn_queue":    anyStrings(state.TurnQueue),
		"current_index": state.CurrentIndex,
		"updated_at":    state.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if state.NextActorID != nil {
		fields["next_actor_id"] = *state.NextActorID
	}
	bytes, err := encode(fields)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(turnKey(state.ConversationID), bytes)
	})
}

func turnKey(conversationID string) []byte {
	return []byte(fmt.Sprintf("turn:%s", conversationID))
}
