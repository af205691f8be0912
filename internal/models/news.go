package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultNewsCategory is applied when an item has no category.
const DefaultNewsCategory = "Update"

// News is an announcement shown on the portal's home page.
type News struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	StartDate   *time.Time         `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time         `bson:"end_date,omitempty" json:"endDate,omitempty"`
	IsImportant bool               `bson:"is_important" json:"isImportant"`
	Category    string             `bson:"category" json:"category"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NewsInput is the admin request body for news items.
type NewsInput struct {
	Title       string `json:"title" validate:"required,max=300"`
	Content     string `json:"content" validate:"required"`
	StartDate   string `json:"startDate" validate:"omitempty,date_value"`
	EndDate     string `json:"endDate" validate:"omitempty,date_value"`
	IsImportant bool   `json:"isImportant"`
	Category    string `json:"category" validate:"max=50"`
}

// Trim normalises free text before validation.
func (in *NewsInput) Trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
}

// ApplyTo copies the input onto n.
func (in *NewsInput) ApplyTo(n *News) {
	n.Title = in.Title
	n.Content = in.Content
	n.IsImportant = in.IsImportant
	n.Category = in.Category
	if n.Category == "" {
		n.Category = DefaultNewsCategory
	}
	n.StartDate, n.EndDate = nil, nil
	if t, ok := ParseDate(in.StartDate); ok {
		n.StartDate = &t
	}
	if t, ok := ParseDate(in.EndDate); ok {
		n.EndDate = &t
	}
}
