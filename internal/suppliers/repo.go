package suppliers

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/celebrelabs/celebre-backend/pkg/config"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Repository reads supplier documents and their blocked-date subcollections.
// Strictly read-only: no method mutates the store.
type Repository struct {
	client     *firestore.Client
	collection string
}

func NewRepository(client *firestore.Client, cfg config.FirestoreConfig) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client required")
	}
	return &Repository{client: client, collection: cfg.SuppliersCollection}, nil
}

// GetSupplier fetches the supplier document; (nil, nil) when absent.
func (r *Repository) GetSupplier(ctx context.Context, supplierID string) (*SupplierRecord, error) {
	snap, err := r.client.Collection(r.collection).Doc(supplierID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier %s: %w", supplierID, err)
	}

	var rec SupplierRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decode supplier %s: %w", supplierID, err)
	}
	rec.ID = snap.Ref.ID
	return &rec, nil
}

// BlockedDateExists checks the subcollection for a document keyed by the date string.
func (r *Repository) BlockedDateExists(ctx context.Context, supplierID, collection, date string) (bool, error) {
	_, err := r.client.Collection(r.collection).Doc(supplierID).Collection(collection).Doc(date).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("get blocked date %s/%s: %w", collection, date, err)
	}
	return true, nil
}

// BlockedDateInRange runs the legacy range query for auto-generated-ID documents
// whose `date` field falls within [start, end).
func (r *Repository) BlockedDateInRange(ctx context.Context, supplierID, collection string, start, end time.Time) (bool, error) {
	iter := r.client.Collection(r.collection).Doc(supplierID).Collection(collection).
		Where("date", ">=", start).
		Where("date", "<", end).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query blocked dates %s: %w", collection, err)
	}
	return true, nil
}
