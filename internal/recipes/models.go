package recipes

import "recipebook/internal/shoppinglist"

// Recipe is one entry in the recipe book. Recipes are addressed by their
// position in the list.
type Recipe struct {
	Name        string                    `json:"name" binding:"required"`
	Description string                    `json:"description"`
	ImagePath   string                    `json:"imagePath"`
	Ingredients []shoppinglist.Ingredient `json:"ingredients" binding:"dive"`
}
