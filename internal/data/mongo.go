package data

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"gridweather/internal/model"
)

// MongoStore reads Elhub collections from MongoDB.
type MongoStore struct {
	client   *mongo.Client
	database string
	log      *zap.Logger

	// OnRequest, if set, is called after every collection read.
	OnRequest func(source string, d time.Duration, err error)
}

// OpenMongo connects to uri and verifies the connection with a ping.
func OpenMongo(ctx context.Context, uri, database string, timeout time.Duration, log *zap.Logger) (*MongoStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, mongoError("connect", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, mongoError("ping", err)
	}
	log.Info("connected to mongodb", zap.String("database", database))
	return &MongoStore{client: client, database: database, log: log}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// FetchCollection returns every document of the named collection. BSON
// datetimes become time.Time in UTC and the _id field is dropped.
func (s *MongoStore) FetchCollection(ctx context.Context, name string) ([]model.Record, error) {
	start := time.Now()
	records, err := s.fetch(ctx, name)
	d := time.Since(start)
	if s.OnRequest != nil {
		s.OnRequest("mongodb", d, err)
	}
	if err != nil {
		s.log.Warn("mongodb read failed", zap.String("collection", name), zap.Error(err), zap.Duration("duration", d))
		return nil, err
	}
	s.log.Info("mongodb read", zap.String("collection", name), zap.Int("documents", len(records)), zap.Duration("duration", d))
	return records, nil
}

func (s *MongoStore) fetch(ctx context.Context, name string) ([]model.Record, error) {
	cur, err := s.client.Database(s.database).Collection(name).Find(ctx, bson.D{})
	if err != nil {
		return nil, mongoError("find "+name, err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongoError("read "+name, err)
	}
	out := make([]model.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, recordFromBSON(doc))
	}
	return out, nil
}

func recordFromBSON(doc bson.M) model.Record {
	rec := make(model.Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		switch x := v.(type) {
		case primitive.DateTime:
			rec[k] = x.Time().UTC()
		case primitive.Decimal128:
			rec[k] = x.String()
		default:
			rec[k] = v
		}
	}
	return rec
}

func mongoError(op string, err error) error {
	return &model.UpstreamFetchError{
		Source:  "mongodb",
		Code:    "DOCUMENT_STORE_ERROR",
		Message: fmt.Sprintf("%s failed", op),
		Err:     err,
	}
}
