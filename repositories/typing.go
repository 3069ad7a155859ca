package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// typingTTL bounds how long a typing flag survives without renewal, so a
// disconnected client cannot appear to type forever.
const typingTTL = 6 * time.Second

// TypingStore keeps ephemeral typing presence as TTL-bound badger entries.
type TypingStore struct {
	db *badger.DB
}

func NewTypingStore(db *badger.DB) TypingStore {
	return TypingStore{db: db}
}

func (s TypingStore) SetTyping(_ context.Context, conversationID, userID string, typing bool) error {
	key := []byte(fmt.Sprintf("typing:%s:%s", conversationID, userID))
	return s.db.Update(func(txn *badger.Txn) error {
		if !typing {
			return txn.Delete(key)
		}
		entry := badger.NewEntry(key, []byte{1}).WithTTL(typingTTL)
		return txn.SetEntry(entry)
	})
}

func (s TypingStore) TypingUsers(_ context.Context, conversationID string) ([]string, error) {
	var users []string
	prefixStr := fmt.Sprintf("typing:%s:", conversationID)
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			users = append(users, string(it.Item().Key()[len(prefixStr):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
