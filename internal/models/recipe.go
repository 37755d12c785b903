package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attribute holds the fields shared by tags and ingredients
type Attribute struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
}

// Base gives generic code access to the shared fields
func (a *Attribute) Base() *Attribute { return a }

// Tag labels recipes. Owned by the user that created it.
type Tag struct {
	Attribute
	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Ingredient is referenced by recipes. Owned by the user that created it.
type Ingredient struct {
	Attribute
	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Recipe struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	TimeMinutes int             `gorm:"not null" json:"time_minutes"`
	Price       decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"price"`
	Link        string          `gorm:"size:255;not null;default:''" json:"link"`
	Description string          `gorm:"type:text;not null;default:''" json:"description"`
	Instruction string          `gorm:"type:text;not null;default:''" json:"instruction"`
	Image       string          `gorm:"size:255;not null;default:''" json:"image"`
	Tags        []Tag           `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []Ingredient    `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE" json:"ingredients"`
}

// TagIDs returns the ids of the attached tags in load order
func (r *Recipe) TagIDs() []uint {
	ids := make([]uint, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// IngredientIDs returns the ids of the attached ingredients in load order
func (r *Recipe) IngredientIDs() []uint {
	ids := make([]uint, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}

type Article struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Author    string    `gorm:"size:255;not null" json:"author"`
	Body      string    `gorm:"type:text;not null;default:''" json:"body"`
	Date      time.Time `gorm:"not null" json:"date"`
	Image     string    `gorm:"size:255;not null;default:''" json:"image"`
}

// AllModels lists every table in migration order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&AuthToken{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&Article{},
	}
}
