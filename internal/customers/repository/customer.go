package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	customerserrors "fleetbook/internal/customers/errors"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Customers"

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	UpdateContacts(ctx context.Context, id string, fullName, phone string, email *string) error
}

type mongoCustomerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCustomerRepository(cfg *config.Config) CustomerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCustomerRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoCustomerRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoCustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	customer.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

func (r *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if !model.ValidCustomerID(id) {
		return nil, fmt.Errorf("%w: %s", customerserrors.ErrInvalidID, id)
	}

	var customer model.Customer
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, customerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	return &customer, nil
}

// UpdateContacts overwrites the contact fields of a stored identity with the
// authority-resolved values. Email unsets when nil.
func (r *mongoCustomerRepository) UpdateContacts(ctx context.Context, id string, fullName, phone string, email *string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if !model.ValidCustomerID(id) {
		return fmt.Errorf("%w: %s", customerserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"full_name": fullName,
		"phone":     phone,
	}
	update := bson.M{"$set": set}
	if email != nil {
		set["email"] = *email
	} else {
		update["$unset"] = bson.M{"email": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update customer contacts: %w", err)
	}
	if result.MatchedCount == 0 {
		return customerserrors.ErrNotFound
	}

	return nil
}
