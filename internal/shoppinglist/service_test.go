package shoppinglist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_AddAndAll(t *testing.T) {
	svc := NewService()

	svc.Add(Ingredient{Name: "Apples", Amount: 5})
	svc.Add(Ingredient{Name: "Tomatoes", Amount: 10})

	all := svc.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Apples", all[0].Name)
	assert.Equal(t, "Tomatoes", all[1].Name)

	// Mutating the returned slice must not touch the service state.
	all[0].Name = "mutated"
	fresh := svc.All()
	assert.Equal(t, "Apples", fresh[0].Name)
}

func TestService_AddMany(t *testing.T) {
	svc := NewService()

	svc.AddMany([]Ingredient{
		{Name: "Flour", Amount: 1},
		{Name: "Sugar", Amount: 2},
	})
	svc.AddMany(nil)

	assert.Len(t, svc.All(), 2)
}

func TestService_Get(t *testing.T) {
	svc := NewService()
	svc.Add(Ingredient{Name: "Apples", Amount: 5})

	ing, err := svc.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "Apples", ing.Name)

	_, err = svc.Get(1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(-1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update(t *testing.T) {
	svc := NewService()
	svc.Add(Ingredient{Name: "Apples", Amount: 5})

	require.NoError(t, svc.StartEdit(0))
	require.Equal(t, 0, svc.EditIndex())

	require.NoError(t, svc.Update(0, Ingredient{Name: "Apples", Amount: 8}))

	ing, err := svc.Get(0)
	require.NoError(t, err)
	assert.Equal(t, float64(8), ing.Amount)
	assert.Equal(t, NoEdit, svc.EditIndex(), "updating the edited row ends the edit")

	assert.ErrorIs(t, svc.Update(5, Ingredient{Name: "X", Amount: 1}), ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	svc := NewService()
	svc.Add(Ingredient{Name: "Apples", Amount: 5})
	svc.Add(Ingredient{Name: "Tomatoes", Amount: 10})

	require.NoError(t, svc.StartEdit(1))
	require.NoError(t, svc.Delete(1))

	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Apples", all[0].Name)
	assert.Equal(t, NoEdit, svc.EditIndex())

	assert.ErrorIs(t, svc.Delete(7), ErrNotFound)
}

func TestService_EditCursor(t *testing.T) {
	svc := NewService()
	assert.Equal(t, NoEdit, svc.EditIndex())

	assert.ErrorIs(t, svc.StartEdit(0), ErrNotFound)

	svc.Add(Ingredient{Name: "Apples", Amount: 5})
	require.NoError(t, svc.StartEdit(0))
	assert.Equal(t, 0, svc.EditIndex())

	svc.StopEdit()
	assert.Equal(t, NoEdit, svc.EditIndex())
	svc.StopEdit()
	assert.Equal(t, NoEdit, svc.EditIndex())
}

func TestService_SubscribeReceivesSnapshots(t *testing.T) {
	svc := NewService()

	updates, cancel := svc.Subscribe()
	defer cancel()

	svc.Add(Ingredient{Name: "Apples", Amount: 5})

	select {
	case snap := <-updates:
		require.Len(t, snap, 1)
		assert.Equal(t, "Apples", snap[0].Name)
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}

	cancel()
	svc.Add(Ingredient{Name: "Tomatoes", Amount: 10})

	// After cancel the channel is closed and drains without new snapshots.
	for snap := range updates {
		require.LessOrEqual(t, len(snap), 1)
	}
}
