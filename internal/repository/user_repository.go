package repository

import (
	"context"
	"errors"
	"fmt"
	"matchos/internal/models"
	"matchos/internal/privacy"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (r *UserRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "skills", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context, page, limit int) ([]*models.User, error) {
	opts := pageOptions(page, limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) FindProviders(ctx context.Context, skill string, page, limit int) ([]*models.User, int64, error) {
	filter := providerFilter(skill)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count providers: %w", err)
	}

	opts := pageOptions(page, limit).SetSort(bson.D{{Key: "reputation_score", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search providers: %w", err)
	}
	defer cursor.Close(ctx)

	providers := []*models.User{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, 0, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, total, nil
}

func (r *UserRepository) UpdatePrivacyLevel(ctx context.Context, id string, level privacy.Level) (*models.User, error) {
	return r.update(ctx, id, bson.M{"privacy_level": level})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.User, error) {
	return r.update(ctx, id, profileUpdate(req))
}

func (r *UserRepository) UpdateReputation(ctx context.Context, id string, score float64) error {
	_, err := r.update(ctx, id, bson.M{"reputation_score": score})
	return err
}

func (r *UserRepository) update(ctx context.Context, id string, set bson.M) (*models.User, error) {
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// AdjustCredits adds delta to the user's balance in a single update. A debit
// only matches while the balance covers it, so balances never go negative.
func (r *UserRepository) AdjustCredits(ctx context.Context, id string, delta int64) (int64, error) {
	update := bson.M{
		"$inc": bson.M{"credits": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, creditsFilter(id, delta), update, opts).Decode(&user)
	if err == nil {
		return user.Credits, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("failed to adjust credits: %w", err)
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return 0, err
	}
	return 0, ErrInsufficientCredits
}

func providerFilter(skill string) bson.M {
	filter := bson.M{"role": privacy.RoleProvider}
	if skill != "" {
		filter["skills"] = bson.M{"$regex": "^" + regexp.QuoteMeta(skill) + "$", "$options": "i"}
	}
	return filter
}

func creditsFilter(id string, delta int64) bson.M {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["credits"] = bson.M{"$gte": -delta}
	}
	return filter
}

func profileUpdate(req *models.UpdateProfileRequest) bson.M {
	set := bson.M{}
	if req.FullName != nil {
		set["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.WalletAddress != nil {
		set["wallet_address"] = *req.WalletAddress
	}
	if req.LocationZoneID != nil {
		set["location_zone_id"] = *req.LocationZoneID
	}
	if req.Timezone != nil {
		set["timezone"] = *req.Timezone
	}
	if req.Skills != nil {
		set["skills"] = req.Skills
	}
	if req.Languages != nil {
		set["languages"] = req.Languages
	}
	if req.Location != nil {
		set["precise_location"] = req.Location
	}
	return set
}

func pageOptions(page, limit int) *options.FindOptionsBuilder {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
}
