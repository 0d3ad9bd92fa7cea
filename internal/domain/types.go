package domain

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      Role               `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Product lives in the catalog under a numeric id; the graph keys the same
// product by the string form of that id (see GraphID).
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CatalogID int64              `bson:"id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Category  string             `bson:"category" json:"category"`
	Tags      []string           `bson:"tags" json:"tags"`
	Price     float64            `bson:"price" json:"price"`
	Image     string             `bson:"image" json:"image"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (p *Product) GraphID() string {
	return strconv.FormatInt(p.CatalogID, 10)
}

type Purchase struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PurchaseID   string             `bson:"purchase_id" json:"purchase_id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	ProductID    string             `bson:"product_id" json:"product_id"`
	ProductName  string             `bson:"product_name" json:"product_name"`
	Quantity     int64              `bson:"quantity" json:"quantity"`
	Price        float64            `bson:"price" json:"price"`
	TotalAmount  float64            `bson:"total_amount" json:"total_amount"`
	PurchaseDate time.Time          `bson:"purchase_date" json:"purchase_date"`
}

type ProductView struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ViewID    string             `bson:"view_id" json:"view_id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	ProductID string             `bson:"product_id" json:"product_id"`
	ViewedAt  time.Time          `bson:"viewed_at" json:"viewed_at"`
	Extra     map[string]any     `bson:"extra,omitempty" json:"extra,omitempty"`
}

const (
	InteractionLike      = "like"
	InteractionAddToCart = "add_to_cart"
)

// Interaction is an append-only raw event record; the graph edge derived from
// it may lag or be missing (no cross-store transaction).
type Interaction struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	InteractionID   string             `bson:"interaction_id" json:"interaction_id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	ProductID       string             `bson:"product_id" json:"product_id"`
	InteractionType string             `bson:"interaction_type" json:"interaction_type"`
	InteractedAt    time.Time          `bson:"interacted_at" json:"interacted_at"`
	Extra           map[string]any     `bson:"extra,omitempty" json:"extra,omitempty"`
}

type Preference struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Values    map[string]any     `bson:"values" json:"values"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type OrderItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Name      string  `bson:"name" json:"name"`
	Quantity  int64   `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OrderID     string             `bson:"order_id" json:"order_id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Items       []OrderItem        `bson:"items" json:"items"`
	TotalAmount float64            `bson:"total_amount" json:"total_amount"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Ranked query result rows. Ordering is score descending with product id
// ascending as the tie break, so repeated queries are reproducible.

type RecommendedProduct struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ViewCount   int64  `json:"view_count"`
}

type SimilarProduct struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	CommonUsers int64  `json:"common_users"`
}

type BoughtTogetherProduct struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Frequency int64   `json:"frequency"`
}

type ContentMatch struct {
	ProductID  string  `json:"id"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
	SharedTags int64   `json:"shared_tags"`
}
