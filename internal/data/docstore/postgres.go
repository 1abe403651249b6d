package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"movie-explorer/pkg/database"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const postgresTracerID = "docstore-postgres"

const postgresIndexBuildTimeout = 30 * time.Minute

// serverNow renders the transaction time in a fixed-width UTC layout so that
// text ordering of the JSON value matches time ordering.
const serverNow = `to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US"Z"')`

const documentsSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id         UUID NOT NULL,
		data       JSONB NOT NULL DEFAULT '{}'::jsonb,
		PRIMARY KEY (collection, id)
	)
`

// Postgres keeps every collection in one JSONB table keyed by (collection, id).
type Postgres struct {
	db  database.PgxIface
	log *zap.Logger
}

// NewPostgres creates the documents table when missing.
func NewPostgres(ctx context.Context, db database.PgxIface, log *zap.Logger) (*Postgres, error) {
	if _, err := db.Exec(ctx, documentsSchema); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}

	return &Postgres{
		db:  db,
		log: log.With(zap.String("store", "postgres")),
	}, nil
}

func (p *Postgres) Find(ctx context.Context, collection string, q Query) (_ []Document, err error) {
	ctx, span := otel.Tracer(postgresTracerID).Start(ctx, "Postgres/Find", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	if spec, ok := q.Index(collection); ok {
		ready, err := p.indexReady(ctx, spec.Name())
		if err != nil {
			return nil, fmt.Errorf("check index %s: %w", spec.Name(), err)
		}
		if !ready {
			return nil, fmt.Errorf("query on %s needs index %s: %w", collection, spec.Name(), ErrIndexNotReady)
		}
	}

	query, args := findSQL(collection, q)
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		p.log.Error("Failed to find documents",
			zap.Error(err),
			zap.String("collection", collection),
		)
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", collection, err)
		}

		fields := Fields{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}

	return docs, nil
}

func (p *Postgres) Create(ctx context.Context, collection string, fields Fields) (_ string, err error) {
	ctx, span := otel.Tracer(postgresTracerID).Start(ctx, "Postgres/Create", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return "", err
	}

	data, args, err := jsonPatch(fields, 3)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}

	id := uuid.New()
	query := fmt.Sprintf(`INSERT INTO documents (collection, id, data) VALUES ($1, $2, %s)`, data)
	if _, err := p.db.Exec(ctx, query, append([]any{collection, id}, args...)...); err != nil {
		p.log.Error("Failed to create document",
			zap.Error(err),
			zap.String("collection", collection),
		)
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}

	return id.String(), nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, fields Fields) (err error) {
	ctx, span := otel.Tracer(postgresTracerID).Start(ctx, "Postgres/Update", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return err
	}

	docID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}

	data, args, err := jsonPatch(fields, 3)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	query := fmt.Sprintf(`UPDATE documents SET data = data || %s WHERE collection = $1 AND id = $2`, data)
	result, err := p.db.Exec(ctx, query, append([]any{collection, docID}, args...)...)
	if err != nil {
		p.log.Error("Failed to update document",
			zap.Error(err),
			zap.String("collection", collection),
			zap.String("id", id),
		)
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}

	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) (err error) {
	ctx, span := otel.Tracer(postgresTracerID).Start(ctx, "Postgres/Delete", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return err
	}

	docID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}

	if _, err := p.db.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, docID); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// EnsureIndexes builds partial expression indexes CONCURRENTLY in the
// background; until pg_index marks one valid, ordered queries report
// ErrIndexNotReady.
func (p *Postgres) EnsureIndexes(ctx context.Context, specs []IndexSpec) error {
	for _, spec := range specs {
		columns := make([]string, 0, len(spec.Equals)+1)
		for _, f := range spec.Equals {
			columns = append(columns, "("+jsonText(f)+")")
		}
		columns = append(columns, fmt.Sprintf("(%s) %s NULLS LAST", jsonText(spec.Order.Field), sqlDirection(spec.Order.Direction)))

		ddl := fmt.Sprintf(`CREATE INDEX CONCURRENTLY IF NOT EXISTS %s ON documents (%s) WHERE collection = %s`,
			quoteIdent(spec.Name()), strings.Join(columns, ", "), quoteLiteral(spec.Collection))

		go func(name, ddl string) {
			buildCtx, cancel := context.WithTimeout(context.Background(), postgresIndexBuildTimeout)
			defer cancel()

			if _, err := p.db.Exec(buildCtx, ddl); err != nil {
				p.log.Error("Index build failed", zap.Error(err), zap.String("index", name))
				return
			}
			p.log.Info("Index ready", zap.String("index", name))
		}(spec.Name(), ddl)
	}
	return nil
}

func (p *Postgres) Close(ctx context.Context) error {
	p.db.Close()
	return nil
}

func (p *Postgres) indexReady(ctx context.Context, name string) (bool, error) {
	query := `
		SELECT COALESCE(bool_and(i.indisvalid AND i.indisready), false)
		FROM pg_index i
		JOIN pg_class c ON c.oid = i.indexrelid
		WHERE c.relname = $1
	`

	var ready bool
	if err := p.db.QueryRow(ctx, query, name).Scan(&ready); err != nil {
		return false, err
	}
	return ready, nil
}

// findSQL renders q as a SELECT over the documents table. Equality values are
// compared as text, matching the ->> projection.
func findSQL(collection string, q Query) (string, []any) {
	query := `SELECT id::text, data FROM documents WHERE collection = $1`
	args := []any{collection}
	for _, f := range q.Filters {
		switch f.Op {
		case OpEqual:
			args = append(args, fmt.Sprint(f.Value))
			query += fmt.Sprintf(" AND %s = $%d", jsonText(f.Field), len(args))
		case OpMissing:
			query += fmt.Sprintf(" AND COALESCE(%s, '') = ''", jsonText(f.Field))
		}
	}
	if q.OrderBy != nil {
		query += fmt.Sprintf(" ORDER BY %s %s NULLS LAST", jsonText(q.OrderBy.Field), sqlDirection(q.OrderBy.Direction))
	}
	return query, args
}

// jsonPatch renders fields as a jsonb expression whose first parameter is
// $first. ServerTimestamp fields are merged in from the database clock.
func jsonPatch(fields Fields, first int) (string, []any, error) {
	set, stamps := splitServerTimestamps(fields)
	payload, err := json.Marshal(set)
	if err != nil {
		return "", nil, err
	}

	sort.Strings(stamps)
	expr := fmt.Sprintf("$%d::jsonb", first)
	for _, field := range stamps {
		expr += fmt.Sprintf(" || jsonb_build_object(%s, %s)", quoteLiteral(field), serverNow)
	}
	return expr, []any{string(payload)}, nil
}

func jsonText(field string) string {
	return "data->>" + quoteLiteral(field)
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func sqlDirection(d Direction) string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}
