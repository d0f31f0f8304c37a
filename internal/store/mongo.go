package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jsvasan/health-registration-api/internal/models"
)

type MongoRegistrationStore struct {
	coll *mongo.Collection
}

func NewMongoRegistrationStore(db *mongo.Database) *MongoRegistrationStore {
	return &MongoRegistrationStore{coll: db.Collection("registrations")}
}

func (s *MongoRegistrationStore) FindByPhone(ctx context.Context, phone string) (*models.Registration, error) {
	var reg models.Registration
	err := s.coll.FindOne(ctx, bson.M{"personalInfo.registrantPhone": phone}).Decode(&reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (s *MongoRegistrationStore) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var reg models.Registration
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (s *MongoRegistrationStore) FindAll(ctx context.Context, limit int64) ([]models.Registration, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var regs []models.Registration
	if err := cursor.All(ctx, &regs); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = make([]models.Registration, 0)
	}
	return regs, nil
}

func (s *MongoRegistrationStore) Insert(ctx context.Context, reg *models.Registration) error {
	if reg.ID.IsZero() {
		reg.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, reg)
	return err
}

func (s *MongoRegistrationStore) Update(ctx context.Context, reg *models.Registration) error {
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": reg.ID}, reg)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoRegistrationStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoAdminStore struct {
	coll *mongo.Collection
}

func NewMongoAdminStore(db *mongo.Database) *MongoAdminStore {
	return &MongoAdminStore{coll: db.Collection("admins")}
}

func (s *MongoAdminStore) FindOne(ctx context.Context) (*models.Admin, error) {
	var admin models.Admin
	err := s.coll.FindOne(ctx, bson.M{}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *MongoAdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *MongoAdminStore) Insert(ctx context.Context, admin *models.Admin) error {
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, admin)
	return err
}

func (s *MongoAdminStore) UpdateAdditionalEmails(ctx context.Context, id string, emails []string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"additionalEmails": emails}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoAdminStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
