package models

import (
	"time"
)

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;not null;uniqueIndex:uniq_ingredient" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null;uniqueIndex:uniq_ingredient" json:"measurement_unit"`
}

// Tag color is stored as the hex value submitted by the client. Input is
// rejected unless the hex maps to a known color name.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Color string `gorm:"size:16;uniqueIndex;not null" json:"color"`
	Slug  string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
}

type Recipe struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	Name        string             `gorm:"size:200;not null" json:"name"`
	Text        string             `gorm:"size:200;not null" json:"text"`
	Image       string             `gorm:"size:255" json:"image"`
	CookingTime int                `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	AuthorID    uint               `gorm:"not null;index" json:"author_id"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	PubDate     time.Time          `gorm:"autoCreateTime;index" json:"pub_date"`
	Ingredients []IngredientRecipe `gorm:"foreignKey:RecipeID" json:"-"`
	Tags        []Tag              `gorm:"many2many:tag_recipes;constraint:OnDelete:CASCADE" json:"-"`
}

// IngredientRecipe joins a recipe with one ingredient and its amount.
type IngredientRecipe struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	RecipeID     uint       `gorm:"not null;index" json:"recipe_id"`
	IngredientID uint       `gorm:"not null;index" json:"ingredient_id"`
	Amount       int        `gorm:"not null;check:amount >= 1" json:"amount"`
	Recipe       Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (IngredientRecipe) TableName() string {
	return "ingredient_recipes"
}

// TagRecipe is the recipe/tag join row backing the many2many association.
type TagRecipe struct {
	RecipeID uint `gorm:"primarykey" json:"recipe_id"`
	TagID    uint `gorm:"primarykey" json:"tag_id"`
}

func (TagRecipe) TableName() string {
	return "tag_recipes"
}

type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_favorite" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:uniq_favorite" json:"recipe_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

type ShoppingCart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_shopping_cart" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:uniq_shopping_cart" json:"recipe_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}
