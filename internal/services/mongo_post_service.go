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

type MongoPostService struct {
	postsCol *mongo.Collection
}

func NewMongoPostService(ctx context.Context, db *mongo.Database) (*MongoPostService, error) {
	col := db.Collection("posts")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	})

	log.Info().Str("collection", "posts").Msg("MongoDB collection ready")
	return &MongoPostService{postsCol: col}, nil
}

func (s *MongoPostService) Create(ctx context.Context, p *models.Post) error {
	_, err := s.postsCol.InsertOne(ctx, p)
	return err
}

func (s *MongoPostService) CreateMany(ctx context.Context, posts []*models.Post) error {
	docs := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		docs = append(docs, p)
	}
	_, err := s.postsCol.InsertMany(ctx, docs)
	return err
}

func (s *MongoPostService) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.postsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *MongoPostService) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	cur, err := s.postsCol.Find(
		ctx,
		bson.M{"author_id": authorID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Post, 0)
	for cur.Next(ctx) {
		var p models.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (s *MongoPostService) Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	set := bson.M{}
	if req.Content != nil {
		set["post_content"] = *req.Content
	}
	if req.Likes != nil {
		set["likes"] = *req.Likes
	}

	res, err := s.postsCol.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrPostNotFound
	}
	return s.GetByID(ctx, id)
}

// SetAuthor closes the author back-reference window opened when bootstrap
// inserts placeholder posts before their owning profile exists.
func (s *MongoPostService) SetAuthor(ctx context.Context, postIDs []string, authorID string) error {
	_, err := s.postsCol.UpdateMany(
		ctx,
		bson.M{"_id": bson.M{"$in": postIDs}},
		bson.M{"$set": bson.M{"author_id": authorID}},
	)
	return err
}

func (s *MongoPostService) Delete(ctx context.Context, id, authorID string) error {
	res, err := s.postsCol.DeleteOne(ctx, bson.M{"_id": id, "author_id": authorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *MongoPostService) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	start := time.Now()
	res, err := s.postsCol.DeleteMany(ctx, bson.M{"author_id": authorID})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount > 0 {
		log.Debug().
			Str("author_id", authorID).
			Int64("deleted", res.DeletedCount).
			Dur("took", time.Since(start)).
			Msg("cascade-deleted posts")
	}
	return res.DeletedCount, nil
}
