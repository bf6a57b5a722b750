package store

import (
	"context"
	"strconv"

	"github.com/shuleplus/ukaguzi/core/session"
	"github.com/shuleplus/ukaguzi/rest"
)

const activityPath = "/admin-activities"

// ActivityAdmin identifies the acting admin on an audit record.
type ActivityAdmin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Activity is one audit-trail entry: who did what to which target.
// Append-only; never mutated client-side.
type Activity struct {
	ID           int           `json:"id,omitempty"`
	ActivityType string        `json:"activityType"`
	TargetID     string        `json:"targetId"`
	Admin        ActivityAdmin `json:"admin"`
	CreatedAt    string        `json:"createdAt,omitempty"`
}

func (a Activity) EntityID() string { return strconv.Itoa(a.ID) }

// ActivityLog posts audit-trail entries on behalf of the other stores. It
// is write-only from their perspective: Add never touches any local list.
type ActivityLog struct {
	client  *rest.Client
	session *session.Session
}

func NewActivityLog(client *rest.Client, sess *session.Session) *ActivityLog {
	return &ActivityLog{client: client, session: sess}
}

// Add records one activity, stamped with the current session's admin.
// Fire-and-forget: the outcome is deliberately dropped, a broken audit
// write must not fail the mutation it trails.
func (l *ActivityLog) Add(ctx context.Context, activityType, targetID string) {
	var admin ActivityAdmin
	if usr := l.session.User(); usr != nil {
		admin = ActivityAdmin{ID: usr.ID, Email: usr.Email}
	}
	_ = l.client.Post(ctx, activityPath, Activity{
		ActivityType: activityType,
		TargetID:     targetID,
		Admin:        admin,
	})
}

// NewActivityStore returns the read side of the audit trail. It logs no
// activities about itself.
func NewActivityStore(client *rest.Client, notifier Notifier) *Store[Activity] {
	return New[Activity](client, nil, notifier, Config{
		Name:    "activity",
		Path:    activityPath,
		Dialect: rest.DialectJSONServer,
	})
}
