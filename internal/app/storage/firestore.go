package storage

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ilya-burinskiy/clipgate/internal/app/models"
)

// Document fields as written by the clip processing worker
const (
	fieldDst         = "Dst"
	fieldUserID      = "UserID"
	fieldSrc         = "Src"
	fieldStart       = "Start"
	fieldEnd         = "End"
	fieldProcessHost = "ProcessHost"
)

// Firestore storage. One document per record, keyed by record ID
type FirestoreStorage struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStorage connects to the project's default database
func NewFirestoreStorage(ctx context.Context, projectID, collection string) (*FirestoreStorage, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &FirestoreStorage{client: client, collection: collection}, nil
}

func (fs *FirestoreStorage) FindByID(ctx context.Context, id string) (models.Record, error) {
	doc := fs.client.Collection(fs.collection).Doc(id)
	if doc == nil {
		// id is not a valid document name, so nothing can be stored under it
		return models.Record{}, ErrNotFound
	}

	snap, err := doc.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.Record{}, ErrNotFound
		}

		return models.Record{}, fmt.Errorf("failed to get document %q: %w", id, err)
	}

	return recordFromData(snap.Ref.ID, snap.Data()), nil
}

func (fs *FirestoreStorage) List(ctx context.Context, limit int) ([]models.Record, error) {
	iter := fs.client.Collection(fs.collection).Limit(normalizeLimit(limit)).Documents(ctx)
	defer iter.Stop()

	records := make([]models.Record, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		records = append(records, recordFromData(snap.Ref.ID, snap.Data()))
	}

	return records, nil
}

func (fs *FirestoreStorage) Close() error {
	return fs.client.Close()
}

// recordFromData is lenient about field types: fields of an unexpected type
// are treated as absent
func recordFromData(id string, data map[string]interface{}) models.Record {
	r := models.Record{ID: id}
	if dst, ok := data[fieldDst].(string); ok {
		r.Destination = &dst
	}
	r.UserID, _ = data[fieldUserID].(string)
	r.Src, _ = data[fieldSrc].(string)
	r.Start = toFloat(data[fieldStart])
	r.End = toFloat(data[fieldEnd])
	r.ProcessHost, _ = data[fieldProcessHost].(string)

	return r
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
