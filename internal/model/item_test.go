package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestItemValidate(t *testing.T) {
	i := Item{Name: "Hammer", Quantity: 5, Price: 10}
	assert.NoError(t, i.Validate())

	i = Item{Quantity: 5}
	assert.Error(t, i.Validate(), "name is required")

	i = Item{Name: "Hammer", Quantity: -1}
	assert.Error(t, i.Validate())

	i = Item{Name: "Hammer", Price: -0.01}
	assert.Error(t, i.Validate())

	i = Item{Name: "Hammer"}
	assert.NoError(t, i.Validate(), "zero quantity and price are valid")
}

func TestItemVerified(t *testing.T) {
	i := Item{Name: "Hammer"}
	assert.False(t, i.Verified(24*time.Hour), "never verified")

	ts := primitive.NewDateTimeFromTime(time.Now().Add(-time.Hour))
	i.LastVerified = &ts
	assert.True(t, i.Verified(24*time.Hour))
	assert.False(t, i.Verified(30*time.Minute), "verification expired")
}
