package ratelimit

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/celebrelabs/celebre-backend/pkg/config"
	"google.golang.org/api/iterator"
)

const actionsSubcollection = "actions"

// Repository scans the per-subject rate-limit documents and their action
// sub-records. Read-only.
type Repository struct {
	client     *firestore.Client
	collection string
}

func NewRepository(client *firestore.Client, cfg config.FirestoreConfig) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client required")
	}
	return &Repository{client: client, collection: cfg.RateLimitsCollection}, nil
}

// ScanSince walks every subject document and collects its action records with
// lastRequest at or after the cutoff.
func (r *Repository) ScanSince(ctx context.Context, cutoff time.Time) ([]Record, error) {
	var records []Record

	subjects := r.client.Collection(r.collection).DocumentRefs(ctx)
	for {
		subject, err := subjects.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list rate-limit subjects: %w", err)
		}

		actions := subject.Collection(actionsSubcollection).
			Where("lastRequest", ">=", cutoff).
			Documents(ctx)
		for {
			snap, err := actions.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				actions.Stop()
				return nil, fmt.Errorf("scan actions for %s: %w", subject.ID, err)
			}

			var doc struct {
				Count       int       `firestore:"count"`
				LastRequest time.Time `firestore:"lastRequest"`
			}
			if err := snap.DataTo(&doc); err != nil {
				actions.Stop()
				return nil, fmt.Errorf("decode action %s/%s: %w", subject.ID, snap.Ref.ID, err)
			}
			records = append(records, Record{
				Subject:     subject.ID,
				Action:      snap.Ref.ID,
				Count:       doc.Count,
				LastRequest: doc.LastRequest,
			})
		}
		actions.Stop()
	}
	return records, nil
}
