package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const mongoTracerID = "docstore-mongo"

// Server error codes that mean the hinted index cannot serve the query.
const (
	mongoCodeBadValue         = 2
	mongoCodeIndexNotFound    = 27
	mongoCodeNoQueryExecPlans = 291
)

const mongoIndexBuildTimeout = 10 * time.Minute

// Mongo stores every collection as a MongoDB collection of the same name.
type Mongo struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewMongo(db *mongo.Database, log *zap.Logger) *Mongo {
	return &Mongo{
		db:  db,
		log: log.With(zap.String("store", "mongo")),
	}
}

func (m *Mongo) Find(ctx context.Context, collection string, q Query) (_ []Document, err error) {
	ctx, span := otel.Tracer(mongoTracerID).Start(ctx, "Mongo/Find", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	filter := bson.D{}
	for _, f := range q.Filters {
		switch f.Op {
		case OpEqual:
			filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
		case OpMissing:
			// $in with null also matches absent fields
			filter = append(filter, bson.E{Key: f.Field, Value: bson.M{"$in": bson.A{nil, ""}}})
		}
	}

	opts := options.Find()
	if spec, ok := q.Index(collection); ok {
		opts.SetSort(bson.D{{Key: q.OrderBy.Field, Value: mongoDirection(q.OrderBy.Direction)}})
		opts.SetHint(spec.Name())
	}

	cur, err := m.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, mapMongoError(collection, err)
	}
	defer cur.Close(ctx)

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, mapMongoError(collection, err)
	}

	docs := make([]Document, 0, len(raw))
	for _, r := range raw {
		docs = append(docs, fromBSON(r))
	}
	return docs, nil
}

func (m *Mongo) Create(ctx context.Context, collection string, fields Fields) (_ string, err error) {
	ctx, span := otel.Tracer(mongoTracerID).Start(ctx, "Mongo/Create", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return "", err
	}

	oid := primitive.NewObjectID()
	set, stamps := splitServerTimestamps(fields)

	// an upsert lets $currentDate stamp the new document with the server clock
	update := bson.M{}
	if len(set) > 0 {
		update["$setOnInsert"] = bson.M(set)
	}
	if len(stamps) > 0 {
		update["$currentDate"] = currentDate(stamps)
	}

	if len(update) == 0 {
		_, err = m.db.Collection(collection).InsertOne(ctx, bson.M{"_id": oid})
	} else {
		_, err = m.db.Collection(collection).UpdateOne(ctx,
			bson.M{"_id": oid},
			update,
			options.Update().SetUpsert(true),
		)
	}
	if err != nil {
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}

	return oid.Hex(), nil
}

func (m *Mongo) Update(ctx context.Context, collection, id string, fields Fields) (err error) {
	ctx, span := otel.Tracer(mongoTracerID).Start(ctx, "Mongo/Update", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}

	set, stamps := splitServerTimestamps(fields)
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = bson.M(set)
	}
	if len(stamps) > 0 {
		update["$currentDate"] = currentDate(stamps)
	}
	if len(update) == 0 {
		return nil
	}

	res, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}

	return nil
}

func (m *Mongo) Delete(ctx context.Context, collection, id string) (err error) {
	ctx, span := otel.Tracer(mongoTracerID).Start(ctx, "Mongo/Delete", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	if _, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// EnsureIndexes starts the builds in the background. Until a build finishes,
// hinted queries on it fail and surface as ErrIndexNotReady.
func (m *Mongo) EnsureIndexes(ctx context.Context, specs []IndexSpec) error {
	byCollection := map[string][]mongo.IndexModel{}
	for _, spec := range specs {
		keys := bson.D{}
		for _, f := range spec.Equals {
			keys = append(keys, bson.E{Key: f, Value: 1})
		}
		keys = append(keys, bson.E{Key: spec.Order.Field, Value: mongoDirection(spec.Order.Direction)})

		byCollection[spec.Collection] = append(byCollection[spec.Collection], mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetName(spec.Name()),
		})
	}

	for collection, models := range byCollection {
		go func(collection string, models []mongo.IndexModel) {
			buildCtx, cancel := context.WithTimeout(context.Background(), mongoIndexBuildTimeout)
			defer cancel()

			names, err := m.db.Collection(collection).Indexes().CreateMany(buildCtx, models)
			if err != nil {
				m.log.Error("Index build failed",
					zap.Error(err),
					zap.String("collection", collection),
				)
				return
			}
			m.log.Info("Indexes ready",
				zap.String("collection", collection),
				zap.Strings("indexes", names),
			)
		}(collection, models)
	}

	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.db.Client().Disconnect(ctx)
}

func mapMongoError(collection string, err error) error {
	if isIndexNotReady(err) {
		return fmt.Errorf("find %s: %v: %w", collection, err, ErrIndexNotReady)
	}
	return fmt.Errorf("find %s: %w", collection, err)
}

func isIndexNotReady(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	if se.HasErrorCode(mongoCodeIndexNotFound) || se.HasErrorCode(mongoCodeNoQueryExecPlans) {
		return true
	}
	return se.HasErrorCode(mongoCodeBadValue) && se.HasErrorMessage("hint")
}

func mongoDirection(d Direction) int {
	if d == Desc {
		return -1
	}
	return 1
}

func currentDate(fields []string) bson.M {
	cd := bson.M{}
	for _, f := range fields {
		cd[f] = true
	}
	return cd
}

func fromBSON(raw bson.M) Document {
	doc := Document{Fields: Fields{}}
	for k, v := range raw {
		if k == "_id" {
			if oid, ok := v.(primitive.ObjectID); ok {
				doc.ID = oid.Hex()
			} else {
				doc.ID = fmt.Sprint(v)
			}
			continue
		}
		doc.Fields[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0).UTC()
	case int32:
		return int64(x)
	default:
		return v
	}
}

// splitServerTimestamps separates plain values from ServerTimestamp fields.
func splitServerTimestamps(fields Fields) (Fields, []string) {
	set := Fields{}
	var stamps []string
	for k, v := range fields {
		if IsServerTimestamp(v) {
			stamps = append(stamps, k)
			continue
		}
		set[k] = v
	}
	return set, stamps
}
