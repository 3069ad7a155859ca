package search

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"

	"parley/domain"
)

// Index wraps a Bluge writer over accepted message content. Indexing runs
// after commit and is best-effort; search never influences turn decisions.
type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewIndex(writer *bluge.Writer, log *slog.Logger) *Index {
	return &Index{writer: writer, log: log}
}

// Hit is one search result, newest-relevance first.
type Hit struct {
	MessageID string
	SenderID  string
	Content   string
	Score     float64
}

// IndexMessage upserts one message document, keyed by message id.
func (i *Index) IndexMessage(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String())
	doc.AddField(bluge.NewKeywordField("conversation_id", message.ConversationID).StoreValue())
	doc.AddField(bluge.NewKeywordField("sender_id", message.SenderID).StoreValue())
	doc.AddField(bluge.NewTextField("content", message.Content).StoreValue())
	doc.AddField(bluge.NewDateTimeField("created_at", message.CreatedAt))
	return i.writer.Update(doc.ID(), doc)
}

// Search runs a match query over message content, scoped to one conversation.
func (i *Index) Search(ctx context.Context, query *Query) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("failed to close index reader", "error", err)
		}
	}()

	boolean := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField("content")).
		AddMust(bluge.NewTermQuery(query.ConversationID).SetField("conversation_id"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(query.Limit, boolean))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	match, err := iterator.Next()
	for err == nil && match != nil {
		hit := Hit{Score: match.Score}
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "sender_id":
				hit.SenderID = string(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}
