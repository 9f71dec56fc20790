package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-memory Store implementation with the same semantics as the
// mongo-backed one. It backs service and handler tests so they run without a
// database.
type Memory[T any, P interface {
	*T
	Document
}] struct {
	mu   sync.RWMutex
	docs map[string]T
	now  func() time.Time
}

// NewMemory creates an empty in-memory collection.
func NewMemory[T any, P interface {
	*T
	Document
}]() *Memory[T, P] {
	return &Memory[T, P]{
		docs: make(map[string]T),
		now:  time.Now,
	}
}

// SetNow overrides the clock used to stamp createdAt. Test helper.
func (m *Memory[T, P]) SetNow(now func() time.Time) { m.now = now }

// Len reports the number of stored documents. Test helper.
func (m *Memory[T, P]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *Memory[T, P]) Get(ctx context.Context, id string) (P, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var zero P
	doc, ok := m.docs[id]
	if !ok {
		return zero, nil
	}
	return P(&doc), nil
}

func (m *Memory[T, P]) Create(ctx context.Context, entity P) (P, error) {
	if entity.DocumentID() == "" {
		entity.SetDocumentID(uuid.NewString())
	}
	entity.StampCreatedAt(m.now().UTC())

	m.mu.Lock()
	m.docs[entity.DocumentID()] = *(*T)(entity)
	m.mu.Unlock()

	return m.Get(ctx, entity.DocumentID())
}

func (m *Memory[T, P]) CreateMany(ctx context.Context, entities []P) error {
	for _, entity := range entities {
		if _, err := m.Create(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory[T, P]) Update(ctx context.Context, id string, fields map[string]any) (P, error) {
	var zero P

	m.mu.Lock()
	doc, ok := m.docs[id]
	if !ok {
		m.mu.Unlock()
		return zero, ErrNotFound
	}

	raw, err := toMap(doc)
	if err != nil {
		m.mu.Unlock()
		return zero, err
	}
	for k, v := range fields {
		if k == "_id" || k == "id" || k == "createdAt" {
			continue
		}
		raw[k] = v
	}

	var updated T
	if err := fromMap(raw, &updated); err != nil {
		m.mu.Unlock()
		return zero, err
	}
	m.docs[id] = updated
	m.mu.Unlock()

	return m.Get(ctx, id)
}

func (m *Memory[T, P]) Find(ctx context.Context, opts FindOptions) ([]P, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = DefaultOrderBy
	}

	m.mu.RLock()
	type row struct {
		doc T
		raw bson.M
	}
	rows := make([]row, 0, len(m.docs))
	for _, doc := range m.docs {
		raw, err := toMap(doc)
		if err != nil {
			m.mu.RUnlock()
			return nil, err
		}
		match, err := matches(raw, opts.Filters)
		if err != nil {
			m.mu.RUnlock()
			return nil, err
		}
		if match {
			rows = append(rows, row{doc: doc, raw: raw})
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		return compare(rows[i].raw[orderBy], rows[j].raw[orderBy]) < 0
	})

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(rows)) {
			rows = nil
		} else {
			rows = rows[opts.Skip:]
		}
	}
	if int64(len(rows)) > limit {
		rows = rows[:limit]
	}

	out := make([]P, len(rows))
	for i := range rows {
		out[i] = P(&rows[i].doc)
	}
	return out, nil
}

func (m *Memory[T, P]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.docs, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory[T, P]) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	m.docs = make(map[string]T)
	m.mu.Unlock()
	return nil
}

func toMap(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromMap(raw bson.M, out any) error {
	data, err := bson.Marshal(raw)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, out)
}

func matches(raw bson.M, filters []Filter) (bool, error) {
	for _, f := range filters {
		ok, err := evalFilter(raw[f.Field], f)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evalFilter(value any, f Filter) (bool, error) {
	switch f.Op {
	case OpEqual, "":
		return compare(value, f.Value) == 0, nil
	case OpNotEqual:
		return compare(value, f.Value) != 0, nil
	case OpLess:
		return compare(value, f.Value) < 0, nil
	case OpLessOrEqual:
		return compare(value, f.Value) <= 0, nil
	case OpGreater:
		return compare(value, f.Value) > 0, nil
	case OpGreaterOrEqual:
		return compare(value, f.Value) >= 0, nil
	case OpIn, OpNotIn:
		candidates, ok := f.Value.([]any)
		if !ok {
			return false, fmt.Errorf("filter %s on %q needs a slice value", f.Op, f.Field)
		}
		found := false
		for _, c := range candidates {
			if compare(value, c) == 0 {
				found = true
				break
			}
		}
		if f.Op == OpIn {
			return found, nil
		}
		return !found, nil
	default:
		return false, fmt.Errorf("unsupported filter operator %q", f.Op)
	}
}

// compare orders two bson-decoded values. Numbers compare numerically,
// strings lexically, timestamps chronologically. Mismatched kinds fall back
// to string formatting so the sort stays total.
func compare(a, b any) int {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if at, aok := asTime(a); aok {
		if bt, bok := asTime(b); bok {
			return at.Compare(bt)
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
	fa := fmt.Sprintf("%v", a)
	fb := fmt.Sprintf("%v", b)
	switch {
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	default:
		return time.Time{}, false
	}
}
