package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned by Update when the target document does not exist.
// Get reports a missing document as a nil result instead, so callers can
// distinguish "absent" from a real failure.
var ErrNotFound = errors.New("document not found")

const (
	// DefaultLimit is the page size used when a find does not specify one.
	DefaultLimit = 10
	// DefaultOrderBy is the field results are ordered by unless overridden.
	DefaultOrderBy = "createdAt"
)

// Document is the contract every stored entity satisfies through its embedded
// domain.Meta. The store uses it to assign ids and creation timestamps.
type Document interface {
	DocumentID() string
	SetDocumentID(id string)
	StampCreatedAt(t time.Time)
}

// Op is a filter comparison operator. Spellings match the query language of
// the hosted document store.
type Op string

const (
	OpEqual          Op = "=="
	OpNotEqual       Op = "!="
	OpLess           Op = "<"
	OpLessOrEqual    Op = "<="
	OpGreater        Op = ">"
	OpGreaterOrEqual Op = ">="
	OpIn             Op = "in"
	OpNotIn          Op = "not-in"
)

// Filter is a single field predicate applied by Find.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// FindOptions controls filtering, ordering and pagination of Find. The zero
// value means: no filters, first page of DefaultLimit documents ordered by
// creation time ascending.
type FindOptions struct {
	Filters []Filter
	Limit   int64
	Skip    int64
	OrderBy string
}

// Interface is the store contract services program against. The mongo-backed
// Store is the production implementation; tests use Memory.
type Interface[T any, P interface {
	*T
	Document
}] interface {
	Get(ctx context.Context, id string) (P, error)
	Create(ctx context.Context, entity P) (P, error)
	CreateMany(ctx context.Context, entities []P) error
	Update(ctx context.Context, id string, fields map[string]any) (P, error)
	Find(ctx context.Context, opts FindOptions) ([]P, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// Store provides uniform CRUD access to one named collection of the document
// database. It is parameterized by the entity type so every resource service
// shares the same data-access code.
type Store[T any, P interface {
	*T
	Document
}] struct {
	coll *mongo.Collection
	now  func() time.Time
}

// New creates a store bound to the named collection.
func New[T any, P interface {
	*T
	Document
}](db *mongo.Database, collection string) *Store[T, P] {
	return &Store[T, P]{
		coll: db.Collection(collection),
		now:  time.Now,
	}
}

// Get fetches a document by primary key. A missing document is reported as a
// nil result, not an error.
func (s *Store[T, P]) Get(ctx context.Context, id string) (P, error) {
	var zero P
	var doc T
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("get %s/%s: %w", s.coll.Name(), id, err)
	}
	return P(&doc), nil
}

// Create persists the entity and returns the fully materialized document by
// re-reading it. A caller-supplied id is kept; otherwise a random UUID is
// assigned. CreatedAt is stamped with the current server time. Creating with
// an existing id replaces that document, matching upsert semantics of the
// backing store.
func (s *Store[T, P]) Create(ctx context.Context, entity P) (P, error) {
	if entity.DocumentID() == "" {
		entity.SetDocumentID(uuid.NewString())
	}
	entity.StampCreatedAt(s.now().UTC())

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": entity.DocumentID()}, entity,
		options.Replace().SetUpsert(true))
	if err != nil {
		var zero P
		return zero, fmt.Errorf("create %s/%s: %w", s.coll.Name(), entity.DocumentID(), err)
	}
	return s.Get(ctx, entity.DocumentID())
}

// CreateMany creates a batch of entities concurrently. Creations are
// independent: a failure of one does not roll back the others.
func (s *Store[T, P]) CreateMany(ctx context.Context, entities []P) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, entity := range entities {
		g.Go(func() error {
			_, err := s.Create(ctx, entity)
			return err
		})
	}
	return g.Wait()
}

// Update merges the supplied fields into the existing document and returns
// the updated document. Returns ErrNotFound when the document is absent.
// The id and creation timestamp are never writable.
func (s *Store[T, P]) Update(ctx context.Context, id string, fields map[string]any) (P, error) {
	var zero P

	set := bson.M{}
	for k, v := range fields {
		if k == "_id" || k == "id" || k == "createdAt" {
			continue
		}
		set[k] = v
	}

	if len(set) > 0 {
		res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			return zero, fmt.Errorf("update %s/%s: %w", s.coll.Name(), id, err)
		}
		if res.MatchedCount == 0 {
			return zero, ErrNotFound
		}
	}

	doc, err := s.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if doc == zero {
		return zero, ErrNotFound
	}
	return doc, nil
}

// Find lists documents matching the given options.
func (s *Store[T, P]) Find(ctx context.Context, opts FindOptions) ([]P, error) {
	filter, err := buildFilter(opts.Filters)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = DefaultOrderBy
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: orderBy, Value: 1}}).
		SetLimit(limit).
		SetSkip(opts.Skip)

	cursor, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}

	out := make([]P, len(docs))
	for i := range docs {
		out[i] = P(&docs[i])
	}
	return out, nil
}

// Delete removes a single document by id. Deleting an absent document is a
// no-op.
func (s *Store[T, P]) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", s.coll.Name(), id, err)
	}
	return nil
}

// DeleteAll removes every document in the collection in one batched call.
func (s *Store[T, P]) DeleteAll(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete all %s: %w", s.coll.Name(), err)
	}
	return nil
}

func buildFilter(filters []Filter) (bson.M, error) {
	out := bson.M{}
	for _, f := range filters {
		op, err := mongoOp(f.Op)
		if err != nil {
			return nil, err
		}
		if existing, ok := out[f.Field].(bson.M); ok {
			existing[op] = f.Value
			continue
		}
		out[f.Field] = bson.M{op: f.Value}
	}
	return out, nil
}

func mongoOp(op Op) (string, error) {
	switch op {
	case OpEqual, "":
		return "$eq", nil
	case OpNotEqual:
		return "$ne", nil
	case OpLess:
		return "$lt", nil
	case OpLessOrEqual:
		return "$lte", nil
	case OpGreater:
		return "$gt", nil
	case OpGreaterOrEqual:
		return "$gte", nil
	case OpIn:
		return "$in", nil
	case OpNotIn:
		return "$nin", nil
	default:
		return "", fmt.Errorf("unsupported filter operator %q", op)
	}
}
