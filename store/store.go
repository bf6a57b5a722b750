// Package store implements the dashboard's per-entity state stores: thin
// in-memory mirrors of the backend's collections, mutated only after the
// server has confirmed the corresponding change. Every confirmed mutation
// appends one admin-activity record.
//
// Stores are bound to the UI event loop and are not safe for concurrent
// use; Loading is an advisory flag for widget disablement, not a lock.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/shuleplus/ukaguzi/core"
	"github.com/shuleplus/ukaguzi/core/filter"
	"github.com/shuleplus/ukaguzi/rest"
)

// Entity is any record with an identity key.
type Entity interface {
	EntityID() string
}

// Labels are the activity-trail texts attached to confirmed mutations.
type Labels struct {
	Add    string
	Edit   string
	Delete string
}

// Config parametrizes one entity store.
type Config struct {
	Name       string // display name, e.g. "user"
	Path       string
	Dialect    rest.Dialect
	ListKey    string // envelope list field; unused for json-server endpoints
	FixedQuery string // appended to every list fetch, e.g. "status=pending"
	EditMethod string // http.MethodPatch (default) or http.MethodPut
	Labels     Labels
}

// Store mirrors one backend collection.
type Store[T Entity] struct {
	Items      []T
	TotalItems int
	Loading    bool
	Err        *core.APIError

	cfg      Config
	client   *rest.Client
	activity *ActivityLog
	notifier Notifier
	filters  *filter.Set

	// BeforeAdd, when set, adjusts a record right before it is posted.
	BeforeAdd func(*T)
}

func New[T Entity](client *rest.Client, activity *ActivityLog, notifier Notifier, cfg Config) *Store[T] {
	if cfg.EditMethod == "" {
		cfg.EditMethod = http.MethodPatch
	}
	return &Store[T]{
		cfg:      cfg,
		client:   client,
		activity: activity,
		notifier: notifier,
	}
}

// UseFilters attaches a filter set whose compiled query is appended to
// every list fetch.
func (s *Store[T]) UseFilters(set *filter.Set) { s.filters = set }

// GetItems fetches one page and replaces the local collection wholesale.
// On failure the collection is cleared and the error recorded.
func (s *Store[T]) GetItems(ctx context.Context, opts rest.ListOptions) error {
	s.Loading = true
	defer func() { s.Loading = false }()

	res := s.client.Get(ctx, s.listPath(opts))
	if res.Error != nil {
		s.fail(res.Error)
		s.Items = nil
		s.TotalItems = 0
		return res.Error
	}

	items, total, err := decodeList[T](res, s.cfg)
	if err != nil {
		apiErr := core.NewTransportError(err)
		s.fail(apiErr)
		s.Items = nil
		s.TotalItems = 0
		return apiErr
	}
	s.Err = nil
	s.Items = items
	s.TotalItems = total
	return nil
}

// AddItem posts a new record; the server-returned record is prepended to
// the local collection once confirmed.
func (s *Store[T]) AddItem(ctx context.Context, item T) error {
	s.Loading = true
	defer func() { s.Loading = false }()

	if s.BeforeAdd != nil {
		s.BeforeAdd(&item)
	}
	res := s.client.Post(ctx, s.cfg.Path, item)
	if res.Error != nil {
		s.fail(res.Error)
		return res.Error
	}

	created, err := decodeRecord[T](res.Data, s.cfg)
	if err != nil {
		apiErr := core.NewTransportError(err)
		s.fail(apiErr)
		return apiErr
	}
	s.Err = nil
	s.Items = append([]T{created}, s.Items...)
	s.TotalItems++
	s.notifier.Success(fmt.Sprintf("Create new %s successfully", s.cfg.Name))
	s.logActivity(ctx, s.cfg.Labels.Add, created.EntityID())
	return nil
}

// EditItem updates a record; the server-returned record replaces its
// predecessor in place, position preserved.
func (s *Store[T]) EditItem(ctx context.Context, item T) error {
	s.Loading = true
	defer func() { s.Loading = false }()

	path := s.cfg.Path + "/" + item.EntityID()
	var res rest.Result
	if s.cfg.EditMethod == http.MethodPut {
		res = s.client.Put(ctx, path, item)
	} else {
		res = s.client.Patch(ctx, path, item)
	}
	if res.Error != nil {
		s.fail(res.Error)
		return res.Error
	}

	updated, err := decodeRecord[T](res.Data, s.cfg)
	if err != nil {
		apiErr := core.NewTransportError(err)
		s.fail(apiErr)
		return apiErr
	}
	s.Err = nil
	for i, it := range s.Items {
		if it.EntityID() == updated.EntityID() {
			s.Items[i] = updated
			break
		}
	}
	s.notifier.Success(fmt.Sprintf("Edit %s successfully", s.cfg.Name))
	s.logActivity(ctx, s.cfg.Labels.Edit, updated.EntityID())
	return nil
}

// DeleteItem deletes one record by identity key.
func (s *Store[T]) DeleteItem(ctx context.Context, item T) error {
	return s.deleteByID(ctx, item.EntityID())
}

// DeleteItems deletes the given ids strictly one after another; each call
// is awaited before the next begins. A failing deletion does not halt the
// remaining ones; the first failure is reported after all have settled.
func (s *Store[T]) DeleteItems(ctx context.Context, ids []string) error {
	var firstErr error
	for _, id := range ids {
		if err := s.deleteByID(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Store[T]) deleteByID(ctx context.Context, id string) error {
	s.Loading = true
	defer func() { s.Loading = false }()

	res := s.client.Delete(ctx, s.cfg.Path+"/"+id)
	if res.Error != nil {
		s.fail(res.Error)
		return res.Error
	}
	s.Err = nil
	s.removeLocal(id)
	s.notifier.Success(fmt.Sprintf("Delete %s successfully", s.cfg.Name))
	s.logActivity(ctx, s.cfg.Labels.Delete, id)
	return nil
}

func (s *Store[T]) removeLocal(id string) {
	kept := s.Items[:0]
	for _, it := range s.Items {
		if it.EntityID() != id {
			kept = append(kept, it)
		}
	}
	s.Items = kept
	s.TotalItems--
}

func (s *Store[T]) fail(apiErr *core.APIError) {
	s.Err = apiErr
	s.notifier.Error(apiErr.Message())
}

// logActivity is awaited so the audit record lands only after the
// triggering mutation was confirmed; its own failures are swallowed.
func (s *Store[T]) logActivity(ctx context.Context, label, targetID string) {
	if s.activity == nil || label == "" {
		return
	}
	s.activity.Add(ctx, label, targetID)
}

func (s *Store[T]) listPath(opts rest.ListOptions) string {
	query := opts.Values(s.cfg.Dialect).Encode()
	for _, extra := range []string{s.cfg.FixedQuery, s.filterQuery()} {
		if extra != "" {
			query += "&" + extra
		}
	}
	return s.cfg.Path + "?" + query
}

func (s *Store[T]) filterQuery() string {
	if s.filters == nil {
		return ""
	}
	return s.filters.Query()
}

// decodeList unpacks a list response in the store's dialect.
func decodeList[T Entity](res rest.Result, cfg Config) ([]T, int, error) {
	var items []T
	if cfg.Dialect == rest.DialectEnvelope {
		var env struct {
			Data map[string]json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(res.Data, &env); err != nil {
			return nil, 0, errors.Wrap(err, "unmarshalling list envelope")
		}
		if raw, ok := env.Data[cfg.ListKey]; ok {
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, 0, errors.Wrapf(err, "unmarshalling %q list", cfg.ListKey)
			}
		}
		var total int
		if raw, ok := env.Data["totalCount"]; ok {
			if err := json.Unmarshal(raw, &total); err != nil {
				return nil, 0, errors.Wrap(err, "unmarshalling totalCount")
			}
		}
		return items, total, nil
	}

	if err := json.Unmarshal(res.Data, &items); err != nil {
		return nil, 0, errors.Wrap(err, "unmarshalling list")
	}
	total := res.TotalCount
	if total == 0 {
		total = len(items)
	}
	return items, total, nil
}

// decodeRecord unpacks a single-record response, unwrapping the data
// envelope when the endpoint uses one.
func decodeRecord[T Entity](data json.RawMessage, cfg Config) (T, error) {
	var record T
	raw := data
	if cfg.Dialect == rest.DialectEnvelope {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &env); err == nil && env.Data != nil &&
			strings.HasPrefix(strings.TrimSpace(string(env.Data)), "{") {
			raw = env.Data
		}
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return record, errors.Wrap(err, "unmarshalling record")
	}
	return record, nil
}
