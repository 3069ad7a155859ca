package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"parley/domain"
)

type ConversationRepository struct {
	db *badger.DB
}

func NewConversationRepository(db *badger.DB) ConversationRepository {
	return ConversationRepository{db: db}
}

// Load returns (nil, nil) when the conversation is unknown. Callers fall back
// to the strictest default settings.
func (r ConversationRepository) Load(_ context.Context, conversationID string) (*domain.Conversation, error) {
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(conversationID))
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
	conversation := domain.Conversation{
		ID:        conversationID,
		Status:    domain.CompletionStatus(fieldString(fields, "status")),
		CreatedAt: fieldTime(fields, "created_at"),
		Settings: domain.Settings{
			Policy:           domain.PolicyName(fieldString(fields, "policy")),
			MaxConsecutive:   fieldInt(fields, "max_consecutive"),
			RoundsPerAIReply: fieldInt(fields, "rounds_per_ai_reply"),
			RoleOrder:        fieldStrings(fields, "role_order"),
		},
	}
	if mapping, ok := fields["role_mapping"].(map[string]any); ok && len(mapping) > 0 {
		conversation.Settings.RoleMapping = make(map[string]string, len(mapping))
		for role, actor := range mapping {
			if id, ok := actor.(string); ok {
				conversation.Settings.RoleMapping[role] = id
			}
		}
	}
	return &conversation, nil
}

func (r ConversationRepository) Save(_ context.Context, conversation domain.Conversation) error {
	if conversation.ID == "" {
		return fmt.Errorf("conversation without id")
	}
	mapping := make(map[string]any, len(conversation.Settings.RoleMapping))
	for role, actor := range conversation.Settings.RoleMapping {
		mapping[role] = actor
	}
	bytes, err := encode(map[string]any{
		"status":              string(conversation.Status),
		"created_at":          conversation.CreatedAt.UTC().Format(time.RFC3339Nano),
		"policy":              string(conversation.Settings.Policy),
		"max_consecutive":     conversation.Settings.MaxConsecutive,
		"rounds_per_ai_reply": conversation.Settings.RoundsPerAIReply,
		"role_mapping":        mapping,
		"role_order":          anyStrings(conversation.Settings.RoleOrder),
	})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(conversationKey(conversation.ID), bytes)
	})
}

func conversationKey(conversationID string) []byte {
	return []byte(fmt.Sprintf("conv:%s", conversationID))
}
