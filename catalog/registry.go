package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/hupe1980/trialfacet"
	"github.com/hupe1980/trialfacet/blobstore"
	"github.com/hupe1980/trialfacet/filter"
	"github.com/hupe1980/trialfacet/internal/dataset"
	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
)

// Entity is the type-erased view of one registered entity type.
type Entity interface {
	// Name returns the entity name, e.g. "adverse-events".
	Name() string

	// Fields returns the filterable field names in declaration order.
	Fields() []string

	// Compile decodes p and compiles it into its rendered forms.
	Compile(p filter.Payload, ids []metadata.Value) (*Compiled, error)

	// Open loads the dataset stored under name and serves it.
	Open(ctx context.Context, store blobstore.BlobStore, name string, optFns ...trialfacet.Option) (Service, error)
}

// Service is the type-erased view of a trialfacet.Facets.
type Service interface {
	Len() int
	Query(ctx context.Context, p filter.Payload, ids []metadata.Value) (*QueryOutput, error)
	Available(ctx context.Context, p filter.Payload, ids []metadata.Value) (*AvailableOutput, error)
	Close() error
}

// Compiled holds the renderings of a compiled filter set.
type Compiled struct {
	Entity    string `json:"entity" yaml:"entity"`
	Predicate string `json:"predicate" yaml:"predicate"`
	SQL       string `json:"sql" yaml:"sql"`
}

// QueryOutput is the transport form of trialfacet.Result.
type QueryOutput struct {
	RequestID    string `json:"requestId" msgpack:"requestId"`
	Predicate    string `json:"predicate" msgpack:"predicate"`
	MatchedCount int    `json:"matchedCount" msgpack:"matchedCount"`
	Entities     any    `json:"entities" msgpack:"entities"`
}

// AvailableOutput is the transport form of trialfacet.Availability.
type AvailableOutput struct {
	RequestID    string         `json:"requestId" msgpack:"requestId"`
	Filters      filter.Payload `json:"filters" msgpack:"filters"`
	Hideable     []string       `json:"hideable" msgpack:"hideable"`
	MatchedCount int            `json:"matchedCount" msgpack:"matchedCount"`
}

type binding[E any] struct {
	schema  *filter.Schema[E]
	rules   filter.HideRules[E]
	columns map[string]string
}

var registry = map[string]Entity{}

func register[E any](schema *filter.Schema[E], rules filter.HideRules[E], columns map[string]string) {
	registry[schema.Entity()] = &binding[E]{schema: schema, rules: rules, columns: columns}
}

func init() {
	register(AdverseEventSchema, AdverseEventHideRules, AdverseEventColumns)
	register(LabResultSchema, LabResultHideRules, LabResultColumns)
}

// Lookup returns the entity registered under name.
func Lookup(name string) (Entity, bool) {
	e, ok := registry[name]
	return e, ok
}

// Names returns the registered entity names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *binding[E]) Name() string { return b.schema.Entity() }

func (b *binding[E]) Fields() []string { return b.schema.FieldNames() }

func (b *binding[E]) Compile(p filter.Payload, ids []metadata.Value) (*Compiled, error) {
	if p.Entity != "" && p.Entity != b.schema.Entity() {
		return nil, &trialfacet.ErrEntityMismatch{Expected: b.schema.Entity(), Actual: p.Entity}
	}
	fs, err := b.schema.FromPayload(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", trialfacet.ErrInvalidRequest, err)
	}
	pred, err := fs.Compile(ids)
	if err != nil {
		return nil, err
	}
	sql, err := query.EncodeSQL(pred, &query.EncoderOptions{ColumnMapping: b.columns})
	if err != nil {
		return nil, err
	}
	return &Compiled{Entity: b.schema.Entity(), Predicate: pred.String(), SQL: sql}, nil
}

func (b *binding[E]) Open(ctx context.Context, store blobstore.BlobStore, name string, optFns ...trialfacet.Option) (Service, error) {
	entities, err := dataset.Load[E](ctx, store, name)
	if err != nil {
		return nil, err
	}
	opts := append([]trialfacet.Option{trialfacet.WithHideRules(b.rules)}, optFns...)
	f, err := trialfacet.New(b.schema, entities, opts...)
	if err != nil {
		return nil, err
	}
	return &service[E]{f: f}, nil
}

type service[E any] struct {
	f *trialfacet.Facets[E]
}

func (s *service[E]) Len() int { return s.f.Len() }

func (s *service[E]) Close() error { return s.f.Close() }

func (s *service[E]) Query(ctx context.Context, p filter.Payload, ids []metadata.Value) (*QueryOutput, error) {
	res, err := s.f.QueryPayload(ctx, p, ids)
	if err != nil {
		return nil, err
	}
	return &QueryOutput{
		RequestID:    res.RequestID,
		Predicate:    res.Predicate.String(),
		MatchedCount: res.MatchedCount,
		Entities:     res.Entities,
	}, nil
}

func (s *service[E]) Available(ctx context.Context, p filter.Payload, ids []metadata.Value) (*AvailableOutput, error) {
	av, err := s.f.AvailablePayload(ctx, p, ids)
	if err != nil {
		return nil, err
	}
	return &AvailableOutput{
		RequestID:    av.RequestID,
		Filters:      av.Filters.Payload(),
		Hideable:     av.Hideable,
		MatchedCount: av.MatchedCount,
	}, nil
}
