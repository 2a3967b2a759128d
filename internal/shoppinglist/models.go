package shoppinglist

// Ingredient is a named amount on the shopping list.
type Ingredient struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// NoEdit marks the edit cursor as inactive.
const NoEdit = -1
