package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexosphere/backend/internal/models"
)

type MongoProfileService struct {
	profilesCol *mongo.Collection
}

func NewMongoProfileService(ctx context.Context, db *mongo.Database) (*MongoProfileService, error) {
	col := db.Collection("profiles")

	// The unique email index is load-bearing: it is what turns the
	// bootstrap existence check into a safe lookup-or-create under
	// concurrent first logins.
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "contact_info.email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("collection", "profiles").Msg("MongoDB collection ready")
	return &MongoProfileService{profilesCol: col}, nil
}

func (s *MongoProfileService) Create(ctx context.Context, p *models.Profile) error {
	_, err := s.profilesCol.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (s *MongoProfileService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *MongoProfileService) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"contact_info.email": email}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *MongoProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoProfileService) ListExcept(ctx context.Context, excludeID string) ([]*models.Profile, error) {
	return s.find(ctx, bson.M{"_id": bson.M{"$ne": excludeID}})
}

func (s *MongoProfileService) find(ctx context.Context, filter bson.M) ([]*models.Profile, error) {
	cur, err := s.profilesCol.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Profile, 0)
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (s *MongoProfileService) Update(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Headline != nil {
		set["headline"] = *req.Headline
	}
	if req.Pronouns != nil {
		set["pronouns"] = *req.Pronouns
	}
	if req.About != nil {
		set["about"] = *req.About
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Skills != nil {
		set["skills"] = *req.Skills
	}
	if req.Connections != nil {
		set["connections"] = *req.Connections
	}
	if req.Posts != nil {
		set["posts"] = *req.Posts
	}

	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrProfileNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *MongoProfileService) Delete(ctx context.Context, id string) error {
	res, err := s.profilesCol.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *MongoProfileService) AddConnection(ctx context.Context, id, peerID string) error {
	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"connections": peerID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *MongoProfileService) SetConnections(ctx context.Context, id string, connections []string) error {
	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"connections": dedupStrings(connections)},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}
