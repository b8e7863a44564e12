package blog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, post Post) error
	GetByID(ctx context.Context, id string) (Post, error)
	Update(ctx context.Context, id string, patch Patch) (Post, error)
	// StampPublished sets publishedAt only if the post is published and has
	// never been stamped; otherwise it returns mongo.ErrNoDocuments.
	StampPublished(ctx context.Context, id string, at time.Time) (Post, error)
	// IncrementViews adds one view to a published post and returns it.
	IncrementViews(ctx context.Context, slug string) (Post, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListPublished(ctx context.Context, filter PublicListFilter, limit, skip int64) ([]Post, error)
	CountPublished(ctx context.Context, filter PublicListFilter) (int64, error)
	ListAll(ctx context.Context) ([]Post, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, post Post) error {
	_, err := r.col.InsertOne(ctx, post)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Post, error) {
	var post Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return Post{}, err
	}
	return post, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, patch Patch) (Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": patchToBSON(patch)}

	var updated Post
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Post{}, err
	}
	return updated, nil
}

func (r *MongoRepository) StampPublished(ctx context.Context, id string, at time.Time) (Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": id, "published": true, "publishedAt": nil}
	update := bson.M{"$set": bson.M{"publishedAt": at}}

	var updated Post
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return Post{}, err
	}
	return updated, nil
}

func (r *MongoRepository) IncrementViews(ctx context.Context, slug string) (Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"slug": slug, "published": true}
	update := bson.M{"$inc": bson.M{"views": 1}}

	var updated Post
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return Post{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ListPublished(ctx context.Context, filter PublicListFilter, limit, skip int64) ([]Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	return r.find(ctx, publishedQuery(filter), opts)
}

func (r *MongoRepository) CountPublished(ctx context.Context, filter PublicListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, publishedQuery(filter))
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Post, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Post, 0)
	for cursor.Next(ctx) {
		var post Post
		if err := cursor.Decode(&post); err != nil {
			return nil, err
		}
		items = append(items, post)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func publishedQuery(filter PublicListFilter) bson.M {
	query := bson.M{"published": true}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}
	return query
}

func patchToBSON(p Patch) bson.M {
	set := bson.M{"updatedAt": p.UpdatedAt}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Slug != nil {
		set["slug"] = *p.Slug
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Excerpt != nil {
		set["excerpt"] = *p.Excerpt
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	if p.FeaturedImage != nil {
		set["featuredImage"] = *p.FeaturedImage
	}
	if p.Published != nil {
		set["published"] = *p.Published
	}
	return set
}
