package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
)

// RecordStore is the generic document store behind the gateway. It is
// collection-name driven and schema-free on purpose; integrity is the
// validator's job and scoping is the gateway's. Nothing outside the
// gateway should call it with a protected collection name; that is
// what cmd/collectionlint enforces.
type RecordStore struct {
	db *mongo.Database
}

func NewRecordStore(db *mongo.Database) *RecordStore {
	return &RecordStore{db: db}
}

// GetAll returns the records matching the query. Ownership predicates
// from the gateway are pushed into the Mongo filter; results come back
// in insertion (_id) order.
func (s *RecordStore) GetAll(ctx context.Context, collection string, q ports.RecordQuery) ([]domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if q.ClientID != "" {
		filter[domain.FieldClientID] = q.ClientID
	}
	if q.TrainerID != "" {
		filter[domain.FieldTrainerID] = q.TrainerID
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}

	cur, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var out []domain.Record
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		out = append(out, toRecord(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor %s: %w", collection, err)
	}
	return out, nil
}

func (s *RecordStore) GetByID(ctx context.Context, collection, id string) (domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	return toRecord(doc), nil
}

func (s *RecordStore) Insert(ctx context.Context, collection string, rec domain.Record) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M(rec.Clone())
	delete(doc, domain.FieldID)
	doc["createdAt"] = time.Now().UTC()

	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

func (s *RecordStore) Update(ctx context.Context, collection, id string, rec domain.Record) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M(rec.Clone())
	delete(doc, domain.FieldID)
	doc["updatedAt"] = time.Now().UTC()

	res, err := s.db.Collection(collection).ReplaceOne(ctx, idFilter(id), doc)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (s *RecordStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// EnsureIndexes creates ownership-field indexes on every protected
// collection so the pushdown predicates stay cheap.
func (s *RecordStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, c := range domain.ProtectedCollections() {
		rule, _ := domain.RuleFor(c)
		var indexes []mongo.IndexModel
		if rule.ClientScoped {
			indexes = append(indexes, mongo.IndexModel{Keys: bson.D{{Key: domain.FieldClientID, Value: 1}}})
		}
		if rule.TrainerScoped {
			indexes = append(indexes, mongo.IndexModel{Keys: bson.D{{Key: domain.FieldTrainerID, Value: 1}}})
		}
		if len(indexes) == 0 {
			continue
		}
		if _, err := s.db.Collection(c.String()).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", c, err)
		}
	}
	return nil
}

// idFilter matches _id stored either as an ObjectID or as a plain
// string, since records imported from the hosted platform carry string
// ids while natively inserted ones get ObjectIDs.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{domain.FieldID: bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{domain.FieldID: id}
}

// toRecord converts a raw document into a domain.Record, normalising
// the _id to its hex string so ownership and identity comparisons all
// run on plain strings.
func toRecord(doc bson.M) domain.Record {
	rec := domain.Record(doc)
	if oid, ok := doc[domain.FieldID].(primitive.ObjectID); ok {
		rec[domain.FieldID] = oid.Hex()
	}
	return rec
}
