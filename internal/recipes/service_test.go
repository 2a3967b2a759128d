package recipes

import (
	"context"
	"testing"
	"time"

	"recipebook/internal/shoppinglist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecipe(name string) Recipe {
	return Recipe{
		Name:        name,
		Description: "A " + name,
		ImagePath:   "images/" + name + ".png",
		Ingredients: []shoppinglist.Ingredient{
			{Name: "Flour", Amount: 1},
			{Name: "Sugar", Amount: 2},
		},
	}
}

func TestService_CRUD(t *testing.T) {
	svc := NewService(shoppinglist.NewService(), nil)

	svc.Add(testRecipe("Schnitzel"))
	svc.Add(testRecipe("Burger"))
	require.Len(t, svc.All(), 2)

	got, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Burger", got.Name)

	_, err = svc.Get(2)
	assert.ErrorIs(t, err, ErrNotFound)

	updated := testRecipe("Burger")
	updated.Description = "now with cheese"
	require.NoError(t, svc.Update(1, updated))
	got, err = svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "now with cheese", got.Description)

	assert.ErrorIs(t, svc.Update(9, updated), ErrNotFound)

	require.NoError(t, svc.Delete(0))
	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Burger", all[0].Name)

	assert.ErrorIs(t, svc.Delete(9), ErrNotFound)
}

func TestService_SetReplacesList(t *testing.T) {
	svc := NewService(shoppinglist.NewService(), nil)
	svc.Add(testRecipe("Old"))

	incoming := []Recipe{testRecipe("A"), testRecipe("B")}
	svc.Set(incoming)

	all := svc.All()
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)

	// The service keeps its own copy of the incoming slice.
	incoming[0].Name = "mutated"
	assert.Equal(t, "A", svc.All()[0].Name)
}

func TestService_AddToShoppingList(t *testing.T) {
	shopping := shoppinglist.NewService()
	svc := NewService(shopping, nil)
	svc.Add(testRecipe("Schnitzel"))

	require.NoError(t, svc.AddToShoppingList(0))

	ings := shopping.All()
	require.Len(t, ings, 2)
	assert.Equal(t, "Flour", ings[0].Name)
	assert.Equal(t, "Sugar", ings[1].Name)

	assert.ErrorIs(t, svc.AddToShoppingList(4), ErrNotFound)
	assert.Len(t, shopping.All(), 2, "a failed dispatch must not touch the list")
}

func TestService_PersistenceUnconfigured(t *testing.T) {
	svc := NewService(shoppinglist.NewService(), nil)

	_, err := svc.FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrNoRepository)

	assert.ErrorIs(t, svc.StoreAll(context.Background()), ErrNoRepository)
}

func TestService_SubscribeReceivesSnapshots(t *testing.T) {
	svc := NewService(shoppinglist.NewService(), nil)

	updates, cancel := svc.Subscribe()
	defer cancel()

	svc.Add(testRecipe("Schnitzel"))

	select {
	case snap := <-updates:
		require.Len(t, snap, 1)
		assert.Equal(t, "Schnitzel", snap[0].Name)
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}
}
