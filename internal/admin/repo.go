package admin

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/celebrelabs/celebre-backend/pkg/config"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Repository resolves the document-backed admin mechanisms. Read-only.
type Repository struct {
	client *firestore.Client
	admins string
	users  string
}

func NewRepository(client *firestore.Client, cfg config.FirestoreConfig) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client required")
	}
	return &Repository{
		client: client,
		admins: cfg.AdminsCollection,
		users:  cfg.UsersCollection,
	}, nil
}

// IsAdminMember reports whether an admins/{uid} document exists.
func (r *Repository) IsAdminMember(ctx context.Context, uid string) (bool, error) {
	_, err := r.client.Collection(r.admins).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("get admin membership %s: %w", uid, err)
	}
	return true, nil
}

// UserHasAdminFlag reports whether users/{uid}.isAdmin is true. An absent
// document or field counts as false.
func (r *Repository) UserHasAdminFlag(ctx context.Context, uid string) (bool, error) {
	snap, err := r.client.Collection(r.users).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("get user %s: %w", uid, err)
	}

	var doc struct {
		IsAdmin bool `firestore:"isAdmin"`
	}
	if err := snap.DataTo(&doc); err != nil {
		return false, fmt.Errorf("decode user %s: %w", uid, err)
	}
	return doc.IsAdmin, nil
}
