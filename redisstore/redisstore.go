// Package redisstore persists session records in Redis, for deployments
// where the registry must outlive any one document file.
//
// Schemas and records are stored as JSON values under prefixed keys, and
// the records of a schema are indexed by a Redis set. Unlike the
// document-embedded store, writes are visible as soon as they return and
// are not part of any document unit of work.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fwojciec/regroup"
)

// Interface compliance checks.
var (
	_ regroup.RecordStore = (*Store)(nil)
	_ regroup.Record      = (*record)(nil)
)

// Store is a Redis-backed regroup.RecordStore.
type Store struct {
	client *redis.Client
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces every key the store touches. The default is
// "regroup:".
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New wraps an existing Redis client.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: "regroup:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to a Redis URL (redis://...) and verifies the connection.
func Open(ctx context.Context, url string, opts ...Option) (*Store, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return New(client, opts...), nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) schemaKey(id string) string {
	return s.prefix + "schema:" + id
}

func (s *Store) indexKey(schemaID string) string {
	return s.prefix + "records:" + schemaID
}

func (s *Store) recordKey(id uuid.UUID) string {
	return s.prefix + "record:" + id.String()
}

// DefineSchema registers def or returns the existing registration. A
// schema id can only ever map to one field layout.
func (s *Store) DefineSchema(ctx context.Context, def regroup.SchemaDef) (regroup.Schema, error) {
	if err := def.Validate(); err != nil {
		return regroup.Schema{}, err
	}
	payload, err := json.Marshal(def)
	if err != nil {
		return regroup.Schema{}, fmt.Errorf("marshal schema %q: %w", def.ID, err)
	}
	created, err := s.client.SetNX(ctx, s.schemaKey(def.ID), payload, 0).Result()
	if err != nil {
		return regroup.Schema{}, fmt.Errorf("store schema %q: %w", def.ID, err)
	}
	if !created {
		existing, err := s.loadSchema(ctx, def.ID)
		if err != nil {
			return regroup.Schema{}, err
		}
		if !existing.Equal(def) {
			return regroup.Schema{}, fmt.Errorf("schema %q already defined with a different layout: %w", def.ID, regroup.ErrSchemaMismatch)
		}
	}
	return regroup.NewSchema(def.ID), nil
}

// CreateRecord allocates an empty record of the schema.
func (s *Store) CreateRecord(ctx context.Context, schema regroup.Schema) (regroup.Record, error) {
	def, err := s.loadSchema(ctx, schema.ID())
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	doc := recordDoc{Schema: schema.ID(), Fields: make(map[string]json.RawMessage)}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal record %s: %w", id, err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.recordKey(id), payload, 0)
	pipe.SAdd(ctx, s.indexKey(schema.ID()), id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("store record %s: %w", id, err)
	}
	return &record{store: s, id: id, def: def}, nil
}

// ListRecords returns every record of the schema, ordered by record id.
func (s *Store) ListRecords(ctx context.Context, schema regroup.Schema) ([]regroup.Record, error) {
	def, err := s.loadSchema(ctx, schema.ID())
	if err != nil {
		return nil, err
	}
	members, err := s.client.SMembers(ctx, s.indexKey(schema.ID())).Result()
	if err != nil {
		return nil, fmt.Errorf("list records of %q: %w", schema.ID(), err)
	}
	sort.Strings(members)
	out := make([]regroup.Record, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			return nil, fmt.Errorf("record index of %q holds %q: %w", schema.ID(), m, err)
		}
		out = append(out, &record{store: s, id: id, def: def})
	}
	return out, nil
}

// DeleteRecord removes the record and its index entry. Deleting a record
// that is already gone fails with regroup.ErrRecordInvalid.
func (s *Store) DeleteRecord(ctx context.Context, rec regroup.Record) error {
	r, ok := rec.(*record)
	if !ok {
		return fmt.Errorf("record %s is foreign to this store: %w", rec.ID(), regroup.ErrRecordInvalid)
	}
	exists, err := s.client.Exists(ctx, s.recordKey(r.id)).Result()
	if err != nil {
		return fmt.Errorf("check record %s: %w", r.id, err)
	}
	if exists == 0 {
		return fmt.Errorf("record %s: %w", r.id, regroup.ErrRecordInvalid)
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.recordKey(r.id))
	pipe.SRem(ctx, s.indexKey(r.def.ID), r.id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete record %s: %w", r.id, err)
	}
	return nil
}

func (s *Store) loadSchema(ctx context.Context, id string) (regroup.SchemaDef, error) {
	raw, err := s.client.Get(ctx, s.schemaKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return regroup.SchemaDef{}, fmt.Errorf("schema %q not defined: %w", id, regroup.ErrSchemaMismatch)
	}
	if err != nil {
		return regroup.SchemaDef{}, fmt.Errorf("load schema %q: %w", id, err)
	}
	var def regroup.SchemaDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return regroup.SchemaDef{}, fmt.Errorf("decode schema %q: %w", id, err)
	}
	return def, nil
}

func (s *Store) loadRecord(ctx context.Context, id uuid.UUID) (recordDoc, error) {
	raw, err := s.client.Get(ctx, s.recordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return recordDoc{}, fmt.Errorf("record %s: %w", id, regroup.ErrRecordInvalid)
	}
	if err != nil {
		return recordDoc{}, fmt.Errorf("load record %s: %w", id, err)
	}
	var doc recordDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return recordDoc{}, fmt.Errorf("decode record %s: %w", id, err)
	}
	if doc.Fields == nil {
		doc.Fields = make(map[string]json.RawMessage)
	}
	return doc, nil
}

func (s *Store) saveRecord(ctx context.Context, id uuid.UUID, doc recordDoc) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", id, err)
	}
	if err := s.client.Set(ctx, s.recordKey(id), payload, 0).Err(); err != nil {
		return fmt.Errorf("store record %s: %w", id, err)
	}
	return nil
}

// recordDoc is the JSON value stored under a record key. Field values are
// raw JSON decoded according to the field's declared kind.
type recordDoc struct {
	Schema string                     `json:"schema"`
	Fields map[string]json.RawMessage `json:"fields"`
}
