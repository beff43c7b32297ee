package memo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is the document collection memos live in.
const DefaultCollection = "memos"

// FirestoreConfig selects the project, collection and credential source.
type FirestoreConfig struct {
	ProjectID             string
	Collection            string
	CredentialsJSON       string
	CredentialsFile       string
	UseDefaultCredentials bool
}

// FirestoreStore persists memos as documents in a Firestore collection.
type FirestoreStore struct {
	client *firestore.Client
	col    *firestore.CollectionRef
	order  Order
}

type firestoreMemo struct {
	Content   string    `firestore:"content"`
	Timestamp time.Time `firestore:"timestamp"`
}

func NewFirestoreStore(ctx context.Context, cfg FirestoreConfig, order Order) (*FirestoreStore, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}

	var opts []option.ClientOption
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(strings.TrimSpace(cfg.CredentialsFile)))
	}
	// UseDefaultCredentials and FIRESTORE_EMULATOR_HOST need no client option.

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect firestore: %w", err)
	}
	return newFirestoreStore(client, cfg.Collection, order), nil
}

func newFirestoreStore(client *firestore.Client, collection string, order Order) *FirestoreStore {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = DefaultCollection
	}
	if order == "" {
		order = OrderCreatedDesc
	}
	return &FirestoreStore{
		client: client,
		col:    client.Collection(collection),
		order:  order,
	}
}

func (s *FirestoreStore) Insert(ctx context.Context, content string) (Memo, error) {
	ref := s.col.Doc(uuid.NewString())
	res, err := ref.Create(ctx, map[string]any{
		"content":   content,
		"timestamp": firestore.ServerTimestamp,
	})
	if err != nil {
		return Memo{}, fmt.Errorf("create memo document: %w", err)
	}
	return Memo{
		ID:        ID(ref.ID),
		Content:   content,
		CreatedAt: res.UpdateTime.UTC(),
	}, nil
}

func (s *FirestoreStore) List(ctx context.Context) ([]Memo, error) {
	field, dir := firestoreOrder(s.order)
	docs, err := s.col.OrderBy(field, dir).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query memo documents: %w", err)
	}

	items := make([]Memo, 0, len(docs))
	for _, doc := range docs {
		var fm firestoreMemo
		if err := doc.DataTo(&fm); err != nil {
			return nil, fmt.Errorf("decode memo document %s: %w", doc.Ref.ID, err)
		}
		items = append(items, Memo{
			ID:        ID(doc.Ref.ID),
			Content:   fm.Content,
			CreatedAt: fm.Timestamp.UTC(),
		})
	}
	// The query orders by a single field; ties are settled locally to
	// avoid requiring a composite index.
	sortMemos(items, s.order)
	return items, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id ID) error {
	if !validDocumentID(string(id)) {
		return ErrNotFound
	}
	_, err := s.col.Doc(string(id)).Delete(ctx, firestore.Exists)
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound, codes.InvalidArgument:
			// InvalidArgument means the id is one Firestore refuses to store.
			return ErrNotFound
		}
		return fmt.Errorf("delete memo document: %w", err)
	}
	return nil
}

// maxDocumentIDBytes is Firestore's limit on a document id.
const maxDocumentIDBytes = 1500

// validDocumentID reports whether Firestore could hold a document with this id.
func validDocumentID(id string) bool {
	switch {
	case strings.TrimSpace(id) == "", id == ".", id == "..":
		return false
	case len(id) > maxDocumentIDBytes, strings.Contains(id, "/"):
		return false
	case len(id) >= 4 && strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__"):
		return false
	}
	return true
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func firestoreOrder(order Order) (string, firestore.Direction) {
	switch order {
	case OrderCreatedAsc:
		return "timestamp", firestore.Asc
	case OrderContentAsc:
		return "content", firestore.Asc
	default:
		return "timestamp", firestore.Desc
	}
}
