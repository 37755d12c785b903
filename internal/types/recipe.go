package types

import (
	"github.com/shopspring/decimal"

	"github.com/pageza/recipebox/backend/internal/models"
)

// AttributeRequest is the write model of a tag or ingredient
type AttributeRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// AttributePatchRequest is the partial write model of a tag or ingredient
type AttributePatchRequest struct {
	Name *string `json:"name" binding:"omitempty,max=255"`
}

// AttributeResponse is the read model of a tag or ingredient
type AttributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewAttributeResponse(a *models.Attribute) AttributeResponse {
	return AttributeResponse{ID: a.ID, Name: a.Name}
}

// RecipeRequest is the full write model used by POST and PUT. Missing
// tags or ingredients mean an empty set.
type RecipeRequest struct {
	Title       string           `json:"title" binding:"required,max=255"`
	TimeMinutes *int             `json:"time_minutes" binding:"required,gte=0"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Link        string           `json:"link" binding:"max=255"`
	Description string           `json:"description"`
	Instruction string           `json:"instruction"`
	Tags        []uint           `json:"tags"`
	Ingredients []uint           `json:"ingredients"`
}

// RecipePatchRequest is the partial write model used by PATCH
type RecipePatchRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=255"`
	TimeMinutes *int             `json:"time_minutes" binding:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price"`
	Link        *string          `json:"link" binding:"omitempty,max=255"`
	Description *string          `json:"description"`
	Instruction *string          `json:"instruction"`
	Tags        *[]uint          `json:"tags"`
	Ingredients *[]uint          `json:"ingredients"`
}

// RecipeListItem is the flat read model: relations are ids only
type RecipeListItem struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Ingredients []uint `json:"ingredients"`
	Tags        []uint `json:"tags"`
	TimeMinutes int    `json:"time_minutes"`
	Price       string `json:"price"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Instruction string `json:"instruction"`
}

// RecipeDetail is the expanded read model with nested relations and the image URL
type RecipeDetail struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Ingredients []AttributeResponse `json:"ingredients"`
	Tags        []AttributeResponse `json:"tags"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       string              `json:"price"`
	Link        string              `json:"link"`
	Description string              `json:"description"`
	Instruction string              `json:"instruction"`
	Image       *string             `json:"image"`
}

// ImageResponse is returned by the upload-image endpoints
type ImageResponse struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

func formatPrice(p decimal.Decimal) string {
	return p.StringFixed(2)
}

func NewRecipeListItem(r *models.Recipe) RecipeListItem {
	return RecipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		Ingredients: r.IngredientIDs(),
		Tags:        r.TagIDs(),
		TimeMinutes: r.TimeMinutes,
		Price:       formatPrice(r.Price),
		Link:        r.Link,
		Description: r.Description,
		Instruction: r.Instruction,
	}
}

func NewRecipeDetail(r *models.Recipe, image *string) RecipeDetail {
	tags := make([]AttributeResponse, 0, len(r.Tags))
	for i := range r.Tags {
		tags = append(tags, NewAttributeResponse(&r.Tags[i].Attribute))
	}
	ingredients := make([]AttributeResponse, 0, len(r.Ingredients))
	for i := range r.Ingredients {
		ingredients = append(ingredients, NewAttributeResponse(&r.Ingredients[i].Attribute))
	}

	return RecipeDetail{
		ID:          r.ID,
		Title:       r.Title,
		Ingredients: ingredients,
		Tags:        tags,
		TimeMinutes: r.TimeMinutes,
		Price:       formatPrice(r.Price),
		Link:        r.Link,
		Description: r.Description,
		Instruction: r.Instruction,
		Image:       image,
	}
}
