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
)

const collectionRoles = "roleassignments"

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	MemberID  string             `bson:"memberId"`
	Role      string             `bson:"role"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d roleDoc) toDomain() *domain.RoleAssignment {
	return &domain.RoleAssignment{
		ID:        d.ID.Hex(),
		MemberID:  d.MemberID,
		Role:      domain.Role(d.Role),
		Status:    domain.Status(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// FindActive returns the first active assignment for the member.
// Sorted by creation so duplicate active rows, a defect the unique
// index should prevent, resolve deterministically.
func (r *RoleRepository) FindActive(ctx context.Context, memberID string) (*domain.RoleAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"memberId": memberID, "status": string(domain.StatusActive)}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	var doc roleDoc
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find active role: %w", err)
	}
	return doc.toDomain(), nil
}

// InsertIfAbsent is the conditional write behind the default-role path:
// a single FindOneAndUpdate with upsert, filtered on (memberId, active),
// creates the row only when no active one exists and returns whichever
// assignment is current afterwards. Concurrent calls for the same new
// member race inside Mongo, not in application code.
func (r *RoleRepository) InsertIfAbsent(ctx context.Context, memberID string, role domain.Role) (*domain.RoleAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"memberId": memberID, "status": string(domain.StatusActive)}
	update := bson.M{"$setOnInsert": bson.M{
		"memberId":  memberID,
		"role":      string(role),
		"status":    string(domain.StatusActive),
		"createdAt": now,
		"updatedAt": now,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc roleDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("insert role if absent: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) Insert(ctx context.Context, ra *domain.RoleAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	_, err := r.col.InsertOne(ctx, roleDoc{
		MemberID:  ra.MemberID,
		Role:      string(ra.Role),
		Status:    string(ra.Status),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("insert role assignment: %w", err)
	}
	return nil
}

func (r *RoleRepository) DeactivateAll(ctx context.Context, memberID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"memberId": memberID, "status": string(domain.StatusActive)},
		bson.M{"$set": bson.M{"status": string(domain.StatusInactive), "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate roles: %w", err)
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the partial unique index that backs the
// one-active-role-per-member invariant at the storage layer.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "memberId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": string(domain.StatusActive)}),
	})
	return err
}
