package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

const collectionAssignments = "trainerclientassignments"

type AssignmentRepository struct {
	col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{col: db.Collection(collectionAssignments)}
}

type assignmentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	TrainerID string             `bson:"trainerId"`
	ClientID  string             `bson:"clientId"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d assignmentDoc) toDomain() domain.TrainerClientAssignment {
	return domain.TrainerClientAssignment{
		ID:        d.ID.Hex(),
		TrainerID: d.TrainerID,
		ClientID:  d.ClientID,
		Status:    domain.Status(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *AssignmentRepository) FindActiveByTrainer(ctx context.Context, trainerID string) ([]domain.TrainerClientAssignment, error) {
	return r.findActive(ctx, bson.M{"trainerId": trainerID})
}

func (r *AssignmentRepository) FindActiveByClient(ctx context.Context, clientID string) ([]domain.TrainerClientAssignment, error) {
	return r.findActive(ctx, bson.M{"clientId": clientID})
}

func (r *AssignmentRepository) findActive(ctx context.Context, filter bson.M) ([]domain.TrainerClientAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter["status"] = string(domain.StatusActive)
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find assignments: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.TrainerClientAssignment
	for cur.Next(ctx) {
		var doc assignmentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode assignment: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *AssignmentRepository) FindActivePair(ctx context.Context, trainerID, clientID string) (*domain.TrainerClientAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"trainerId": trainerID,
		"clientId":  clientID,
		"status":    string(domain.StatusActive),
	}

	var doc assignmentDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("find assignment pair: %w", err)
	}
	out := doc.toDomain()
	return &out, nil
}

func (r *AssignmentRepository) Insert(ctx context.Context, a *domain.TrainerClientAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	_, err := r.col.InsertOne(ctx, assignmentDoc{
		TrainerID: a.TrainerID,
		ClientID:  a.ClientID,
		Status:    string(a.Status),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) DeactivatePair(ctx context.Context, trainerID, clientID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"trainerId": trainerID, "clientId": clientID, "status": string(domain.StatusActive)},
		bson.M{"$set": bson.M{"status": string(domain.StatusInactive), "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate assignment: %w", err)
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the lookup indexes for both directions of the
// relationship plus the exact-pair check.
func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "clientId", Value: 1}, {Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
