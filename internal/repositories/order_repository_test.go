package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-backend/internal/models"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestAssignUpdates_OnlyProvidedFields(t *testing.T) {
	sets, args := assignUpdates(&models.AssignOrderRequest{
		PackerID: intPtr(4),
	})

	require.Len(t, sets, 1)
	assert.Equal(t, "packer_id = $1", sets[0])
	assert.Equal(t, []interface{}{4}, args)
}

func TestAssignUpdates_AllFields(t *testing.T) {
	sets, args := assignUpdates(&models.AssignOrderRequest{
		TesterID:   intPtr(2),
		PackerID:   intPtr(4),
		ShipByDate: strPtr("2026-03-14"),
		OutOfStock: strPtr("true"),
	})

	assert.Equal(t, []string{
		"tester_id = $1",
		"packer_id = $2",
		"ship_by_date = $3",
		"out_of_stock = $4",
	}, sets)
	assert.Equal(t, []interface{}{2, 4, "2026-03-14", "true"}, args)
}

func TestAssignUpdates_ZeroStaffIDClearsToNull(t *testing.T) {
	sets, args := assignUpdates(&models.AssignOrderRequest{
		TesterID: intPtr(0),
	})

	require.Len(t, sets, 1)
	assert.Equal(t, "tester_id = $1", sets[0])
	require.Len(t, args, 1)
	assert.Nil(t, args[0])
}

func TestAssignUpdates_EmptyRequestChangesNothing(t *testing.T) {
	sets, args := assignUpdates(&models.AssignOrderRequest{})

	assert.Empty(t, sets)
	assert.Empty(t, args)
}
