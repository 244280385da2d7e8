package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-backend/internal/models"
)

func TestBuildTrackingDiagnostics(t *testing.T) {
	packTime := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	testTime := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	check := &models.TrackingCheck{
		Tracking: "1Z999AA10123456784",
		Orders: []models.Order{{
			ID:                     10,
			OrderID:                "12-34567-89012",
			ProductTitle:           "Refurbished Laptop",
			ShippingTrackingNumber: "1Z999AA10123456784",
			CreatedAt:              time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		}},
		PackEvents: []models.PackerLog{{
			ID:                     5,
			ShippingTrackingNumber: "999AA10123456784",
			PackedBy:               2,
			PackDateTime:           &packTime,
		}},
		TestEvents: []models.TechSerialNumber{
			{ID: 1, ShippingTrackingNumber: "1Z999AA10123456784", SerialNumber: "NOTIME1", TestedBy: 5},
			{ID: 2, ShippingTrackingNumber: "1Z999AA10123456784", SerialNumber: "TIMED99", TestedBy: 7, TestDateTime: &testTime},
		},
	}
	legacy := []*models.LegacyShippedRecord{
		{ID: 3, OrderID: "OLD-77", ShippingTrkNum: "999AA10123456784"},
	}

	buildTrackingDiagnostics(check, legacy)

	require.Len(t, check.Legacy, 1)
	assert.Equal(t, "OLD-77", check.Legacy[0].OrderID)
	assert.True(t, check.Summary.InLegacyShipped)

	// The reconciled row is what /api/shipped would show for this number.
	require.Len(t, check.Reconciled, 1)
	row := check.Reconciled[0]
	assert.Equal(t, models.RowSourceOrder, row.RowSource)
	require.NotNil(t, row.PackedBy)
	assert.Equal(t, 2, *row.PackedBy)
	assert.Equal(t, "TIMED99,NOTIME1", row.SerialNumber)
	require.NotNil(t, row.TestedBy)
	assert.Equal(t, 7, *row.TestedBy)
}

func TestBuildTrackingDiagnostics_NoHits(t *testing.T) {
	check := &models.TrackingCheck{Tracking: "99999999"}

	buildTrackingDiagnostics(check, nil)

	assert.False(t, check.Summary.InLegacyShipped)
	assert.Empty(t, check.Legacy)
	assert.Empty(t, check.Reconciled)
}
