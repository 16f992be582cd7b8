package types

import (
	"github.com/google/uuid"
)

// RegisterRequest represents the request body for sign-up
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for sign-in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	ImageURL     string   `json:"image_url"`
	Ingredients  []string `json:"ingredients" binding:"required"`
	Instructions []string `json:"instructions" binding:"required"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	IsPublic     bool     `json:"is_public"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Pointer fields distinguish "leave unchanged" (absent) from an explicit
// zero value, so a caller can clear a description or reset a nutrient.
type UpdateRecipeRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	ImageURL     *string  `json:"image_url"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Calories     *float64 `json:"calories"`
	Protein      *float64 `json:"protein"`
	Carbs        *float64 `json:"carbs"`
	Fat          *float64 `json:"fat"`
	IsPublic     *bool    `json:"is_public"`
}

// CreateCollectionRequest represents the request body for creating a collection
type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// UpdateCollectionRequest represents the request body for updating a collection
type UpdateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

// AddCollectionRecipeRequest links a recipe into a collection
type AddCollectionRecipeRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Note     string    `json:"note"`
}

// CreateReviewRequest represents the request body for reviewing a recipe
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// UpdateReviewRequest represents the request body for editing a review
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// StartConversationRequest opens a chat conversation
type StartConversationRequest struct {
	Title string `json:"title"`
}

// PostMessageRequest sends a chat message
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SetUserRoleRequest changes a user's role (admin only)
type SetUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}
