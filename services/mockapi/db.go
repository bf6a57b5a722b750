package mockapi

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var errNotFound = errors.New("not found")

// Record is a schemaless row; the mock backend does not validate shapes.
type Record map[string]interface{}

// Collection is one in-memory table. Legacy collections use numeric "id"
// keys, the newer ones string "_id" object ids.
type Collection struct {
	idField string
	seq     int
	items   []Record
	mu      sync.Mutex
}

func newCollection(idField string) *Collection {
	return &Collection{idField: idField}
}

func (c *Collection) nextID() interface{} {
	if c.idField == "_id" {
		return uuid.New().String()
	}
	c.seq++
	return c.seq
}

func (c *Collection) Insert(r Record) Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := r[c.idField]; !ok {
		r[c.idField] = c.nextID()
	} else if c.idField == "id" {
		// keep the sequence ahead of seeded ids
		if id, ok := toFloat(r["id"]); ok && int(id) > c.seq {
			c.seq = int(id)
		}
	}
	c.items = append(c.items, r)
	return r
}

// All snapshots the collection in insertion order.
func (c *Collection) All() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) get(id string) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if idString(it[c.idField]) == id {
			return it, nil
		}
	}
	return nil, errNotFound
}

func (c *Collection) update(id string, changes Record) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if idString(it[c.idField]) == id {
			for k, v := range changes {
				if k == c.idField {
					continue
				}
				it[k] = v
			}
			return it, nil
		}
	}
	return nil, errNotFound
}

func (c *Collection) delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if idString(it[c.idField]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

// query applies field filters, the free-text search, sorting and paging,
// returning the page and the pre-paging total.
type query struct {
	filters url.Values // multi-valued: OR within a key, AND across keys
	search  string
	sortKey string
	sortAsc bool
	page    int
	limit   int
}

func (c *Collection) query(qr query) ([]Record, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched := make([]Record, 0, len(c.items))
	for _, it := range c.items {
		if matches(it, qr.filters) && searches(it, qr.search) {
			matched = append(matched, it)
		}
	}
	total := len(matched)

	if qr.sortKey != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			less := lessValues(matched[i][qr.sortKey], matched[j][qr.sortKey])
			if qr.sortAsc {
				return less
			}
			return !less && !equalValues(matched[i][qr.sortKey], matched[j][qr.sortKey])
		})
	}

	if qr.limit > 0 {
		start := (qr.page - 1) * qr.limit
		if start < 0 {
			start = 0
		}
		if start >= len(matched) {
			return []Record{}, total
		}
		end := start + qr.limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total
}

// matches implements the filter dialect: exact match per value (multiple
// values of one key OR together) and _gte/_lte suffixes for ranges.
func matches(r Record, filters url.Values) bool {
	for key, wants := range filters {
		switch {
		case strings.HasSuffix(key, "_gte"):
			field := strings.TrimSuffix(key, "_gte")
			if !inRange(r[field], wants[0], true) {
				return false
			}
		case strings.HasSuffix(key, "_lte"):
			field := strings.TrimSuffix(key, "_lte")
			if !inRange(r[field], wants[0], false) {
				return false
			}
		default:
			if !oneOf(r[key], wants) {
				return false
			}
		}
	}
	return true
}

func oneOf(val interface{}, wants []string) bool {
	got := fmt.Sprintf("%v", val)
	if f, ok := toFloat(val); ok {
		got = strconv.FormatFloat(f, 'f', -1, 64)
	}
	for _, want := range wants {
		if got == want {
			return true
		}
	}
	return false
}

func inRange(val interface{}, bound string, gte bool) bool {
	f, ok := toFloat(val)
	if !ok {
		return false
	}
	b, err := strconv.ParseFloat(bound, 64)
	if err != nil {
		return false
	}
	if gte {
		return f >= b
	}
	return f <= b
}

// searches does a case-insensitive substring match over all string fields.
func searches(r Record, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, v := range r {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func lessValues(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func equalValues(a, b interface{}) bool {
	return !lessValues(a, b) && !lessValues(b, a)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func idString(v interface{}) string {
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
