package admin

import (
	"context"
	"time"

	"github.com/celebrelabs/celebre-backend/pkg/audit"
	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
	"github.com/celebrelabs/celebre-backend/pkg/identity"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
)

// MembershipStore answers the two document-backed admin checks. Both return
// false (not an error) when the relevant document is absent.
type MembershipStore interface {
	IsAdminMember(ctx context.Context, uid string) (bool, error)
	UserHasAdminFlag(ctx context.Context, uid string) (bool, error)
}

// Authorizer decides whether a verified caller may use the admin surface. The
// three mechanisms are checked in order and any single pass grants access:
// the admin custom claim, membership in the admins collection, and the
// isAdmin flag on the caller's user document.
type Authorizer struct {
	members MembershipStore
	auditor *audit.Recorder
	logg    *logger.Logger
}

func NewAuthorizer(members MembershipStore, auditor *audit.Recorder, logg *logger.Logger) *Authorizer {
	return &Authorizer{members: members, auditor: auditor, logg: logg}
}

// RequireAdmin returns nil when the caller is an admin. A nil token is an
// authentication failure, a verified non-admin a forbidden one; both are
// recorded as denied audit events.
func (a *Authorizer) RequireAdmin(ctx context.Context, token *identity.Token) error {
	if token == nil || token.UID == "" {
		a.deny(ctx, "", "missing_token")
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	if token.AdminClaim() {
		return nil
	}

	member, err := a.members.IsAdminMember(ctx, token.UID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin membership")
	}
	if member {
		return nil
	}

	flagged, err := a.members.UserHasAdminFlag(ctx, token.UID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user admin flag")
	}
	if flagged {
		return nil
	}

	a.deny(ctx, token.UID, "not_admin")
	return pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
}

func (a *Authorizer) deny(ctx context.Context, uid, cause string) {
	if a.logg != nil {
		lctx := a.logg.WithFields(ctx, map[string]any{
			"caller_uid": uid,
			"cause":      cause,
		})
		a.logg.Warn(lctx, "admin.authorization.denied")
	}
	if a.auditor != nil {
		a.auditor.Record(ctx, audit.Event{
			Action:    "admin.denied",
			CallerUID: uid,
			Outcome:   "denied",
			Details:   map[string]any{"cause": cause},
			At:        time.Now().UTC(),
		})
	}
}
