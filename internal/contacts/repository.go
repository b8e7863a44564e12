package contacts

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, contact Contact) error
	GetByID(ctx context.Context, id string) (Contact, error)
	// MarkRead moves a contact from new to read. It reports
	// mongo.ErrNoDocuments when the contact is missing or no longer new.
	MarkRead(ctx context.Context, id string) (Contact, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Contact, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]Contact, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, contact Contact) error {
	_, err := r.col.InsertOne(ctx, contact)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Contact, error) {
	var contact Contact
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&contact); err != nil {
		return Contact{}, err
	}
	return contact, nil
}

func (r *MongoRepository) MarkRead(ctx context.Context, id string) (Contact, error) {
	filter := bson.M{"_id": id, "status": StatusNew}
	return r.setStatus(ctx, filter, StatusRead)
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status Status) (Contact, error) {
	return r.setStatus(ctx, bson.M{"_id": id}, status)
}

func (r *MongoRepository) setStatus(ctx context.Context, filter bson.M, status Status) (Contact, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status}}

	var updated Contact
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return Contact{}, err
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

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]Contact, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Contact, 0)
	for cursor.Next(ctx) {
		var item Contact
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
