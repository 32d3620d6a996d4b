package entity

import (
	"time"

	"shopsight-gateway/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoStoreDoc represents a store in MongoDB
type MongoStoreDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Domain      string             `bson:"domain"`
	AccessToken string             `bson:"accessToken"`
	Scope       string             `bson:"scope"`
	ShopName    string             `bson:"shopName,omitempty"`
	Email       string             `bson:"email,omitempty"`
	Currency    string             `bson:"currency,omitempty"`
	ConnectedAt time.Time          `bson:"connectedAt"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoStoreDoc) ToDomain() *domain.Store {
	return &domain.Store{
		ID:          d.ID.Hex(),
		Domain:      d.Domain,
		AccessToken: d.AccessToken,
		Scope:       d.Scope,
		ShopName:    d.ShopName,
		Email:       d.Email,
		Currency:    d.Currency,
		ConnectedAt: d.ConnectedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoStoreDocFromDomain converts a domain entity to a MongoDB document
func MongoStoreDocFromDomain(store *domain.Store) *MongoStoreDoc {
	doc := &MongoStoreDoc{
		Domain:      store.Domain,
		AccessToken: store.AccessToken,
		Scope:       store.Scope,
		ShopName:    store.ShopName,
		Email:       store.Email,
		Currency:    store.Currency,
		ConnectedAt: store.ConnectedAt,
		CreatedAt:   store.CreatedAt,
		UpdatedAt:   store.UpdatedAt,
	}

	if store.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(store.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}
