package store

import (
	"context"
	"fmt"

	"github.com/shuleplus/ukaguzi/rest"
)

// ModerationConfig adds the approve/decline behavior of a pending queue.
type ModerationConfig struct {
	ApproveStatus string // terminal status on approval: "active" or "resolved"
	DeclineStatus string // defaults to "rejected"
	ApproveLabel  string
	DeclineLabel  string
}

// Moderation wraps a Store over a pending queue with approve/decline
// transitions. An item leaving the pending state is dropped from the local
// collection, whichever way it went.
type Moderation[T Entity] struct {
	*Store[T]
	mod ModerationConfig
}

func NewModeration[T Entity](client *rest.Client, activity *ActivityLog, notifier Notifier, cfg Config, mod ModerationConfig) *Moderation[T] {
	if mod.DeclineStatus == "" {
		mod.DeclineStatus = "rejected"
	}
	return &Moderation[T]{
		Store: New[T](client, activity, notifier, cfg),
		mod:   mod,
	}
}

// Approve moves the record to its approved terminal status.
func (m *Moderation[T]) Approve(ctx context.Context, id string) error {
	return m.setStatus(ctx, id, m.mod.ApproveStatus, m.mod.ApproveLabel, "Approve")
}

// Decline rejects the record.
func (m *Moderation[T]) Decline(ctx context.Context, id string) error {
	return m.setStatus(ctx, id, m.mod.DeclineStatus, m.mod.DeclineLabel, "Decline")
}

func (m *Moderation[T]) setStatus(ctx context.Context, id, status, label, verb string) error {
	m.Loading = true
	defer func() { m.Loading = false }()

	res := m.client.Patch(ctx, m.cfg.Path+"/"+id, map[string]string{"status": status})
	if res.Error != nil {
		m.fail(res.Error)
		return res.Error
	}
	m.Err = nil
	m.removeLocal(id)
	m.notifier.Success(fmt.Sprintf("%s %s successfully", verb, m.cfg.Name))
	m.logActivity(ctx, label, id)
	return nil
}
