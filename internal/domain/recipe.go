package domain

import "time"

// Recipe is a single recipe record owned by one user.
// (OwnerID, RecipeID) identifies the record; both are immutable after creation.
type Recipe struct {
	OwnerID       string    `bson:"userId" json:"userId" gorm:"column:user_id;primaryKey;size:255"`
	RecipeID      string    `bson:"recipeId" json:"recipeId" gorm:"column:recipe_id;primaryKey;size:64"`
	Name          string    `bson:"name" json:"name" gorm:"column:name;not null"`
	Description   string    `bson:"description" json:"description" gorm:"column:description"`
	IsFavourite   bool      `bson:"isFavourite" json:"isFavourite" gorm:"column:is_favourite;not null"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt" gorm:"column:created_at;autoCreateTime:false"`
	AttachmentURL string    `bson:"attachmentUrl,omitempty" json:"attachmentUrl,omitempty" gorm:"column:attachment_url"`
}

// RecipeInput carries the caller-supplied fields of a new recipe.
type RecipeInput struct {
	Name        string
	Description string
	IsFavourite bool
}

// RecipeUpdate holds the only fields an update may change.
type RecipeUpdate struct {
	Name        string
	Description string
	IsFavourite bool
}
