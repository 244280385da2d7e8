package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-backend/internal/models"
)

func ts(h, m int) *time.Time {
	t := time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
	return &t
}

func TestLatestPack_MostRecentWins(t *testing.T) {
	events := []models.PackerLog{
		{ID: 1, PackDateTime: ts(9, 0), PackedBy: 1},
		{ID: 2, PackDateTime: ts(11, 30), PackedBy: 2},
		{ID: 3, PackDateTime: ts(10, 15), PackedBy: 3},
	}

	latest := LatestPack(events)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.ID)
	assert.Equal(t, 2, latest.PackedBy)
}

func TestLatestPack_NilTimeLosesToAnyTime(t *testing.T) {
	events := []models.PackerLog{
		{ID: 9, PackDateTime: nil, PackedBy: 1},
		{ID: 2, PackDateTime: ts(8, 0), PackedBy: 2},
	}

	latest := LatestPack(events)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.ID)
}

func TestLatestPack_TieBrokenByHighestID(t *testing.T) {
	events := []models.PackerLog{
		{ID: 4, PackDateTime: ts(12, 0), PackedBy: 1},
		{ID: 7, PackDateTime: ts(12, 0), PackedBy: 2},
	}

	latest := LatestPack(events)
	require.NotNil(t, latest)
	assert.Equal(t, 7, latest.ID)

	// Both nil: highest id still wins.
	latest = LatestPack([]models.PackerLog{{ID: 1}, {ID: 3}, {ID: 2}})
	require.NotNil(t, latest)
	assert.Equal(t, 3, latest.ID)
}

func TestLatestPack_Empty(t *testing.T) {
	assert.Nil(t, LatestPack(nil))
}

func TestAggregateSerials_ChronologicalOrder(t *testing.T) {
	events := []models.TechSerialNumber{
		{ID: 3, SerialNumber: "GHI789", TestedBy: 4, TestDateTime: ts(10, 10)},
		{ID: 1, SerialNumber: "ABC123", TestedBy: 2, TestDateTime: ts(10, 0)},
		{ID: 2, SerialNumber: "XYZ789", TestedBy: 3, TestDateTime: ts(10, 5)},
	}

	serial, testedBy, testTime := AggregateSerials(events)
	assert.Equal(t, "ABC123,XYZ789,GHI789", serial)
	require.NotNil(t, testedBy)
	assert.Equal(t, 2, *testedBy) // earliest scan's tester
	require.NotNil(t, testTime)
	assert.Equal(t, *ts(10, 0), *testTime)
}

func TestAggregateSerials_NilTimesSortLast(t *testing.T) {
	// A scan without a timestamp must not become the serial head or supply
	// the representative tester; timed scans come first.
	events := []models.TechSerialNumber{
		{ID: 1, SerialNumber: "NOTIME1", TestedBy: 5, TestDateTime: nil},
		{ID: 2, SerialNumber: "TIMED99", TestedBy: 7, TestDateTime: ts(10, 0)},
	}

	serial, testedBy, testTime := AggregateSerials(events)
	assert.Equal(t, "TIMED99,NOTIME1", serial)
	require.NotNil(t, testedBy)
	assert.Equal(t, 7, *testedBy)
	require.NotNil(t, testTime)
	assert.Equal(t, *ts(10, 0), *testTime)
}

func TestAggregateSerials_Empty(t *testing.T) {
	serial, testedBy, testTime := AggregateSerials(nil)
	assert.Equal(t, "", serial)
	assert.Nil(t, testedBy)
	assert.Nil(t, testTime)
}

func TestCombine_SuffixMatchAcrossFormats(t *testing.T) {
	// Order and pack event carry differently formatted numbers for the same
	// shipment; they share the trailing 8 digits after non-digit stripping.
	in := Input{
		Orders: []models.Order{{
			ID:                     10,
			OrderID:                "12-34567-89012",
			ShippingTrackingNumber: "1Z999AA10123456784",
			CreatedAt:              ts(9, 0).UTC(),
		}},
		PackEvents: []models.PackerLog{{
			ID:                     5,
			ShippingTrackingNumber: "999AA10123456784",
			PackedBy:               2,
			PackDateTime:           ts(14, 0),
		}},
	}

	rows := Combine(in)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].PackedBy)
	assert.Equal(t, 2, *rows[0].PackedBy)
	assert.Equal(t, models.RowSourceOrder, rows[0].RowSource)
}

func TestCombine_ShortTrackingNeverSuffixMatches(t *testing.T) {
	in := Input{
		Orders: []models.Order{{
			ID:                     1,
			ShippingTrackingNumber: "1234567", // seven digits
			CreatedAt:              ts(9, 0).UTC(),
		}},
		PackEvents: []models.PackerLog{{
			ID:                     2,
			ShippingTrackingNumber: "9991234567",
			PackedBy:               1,
			PackDateTime:           ts(10, 0),
		}},
	}

	rows := Combine(in)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].PackedBy)
}

func TestCombine_OrphanExceptionRoundTrip(t *testing.T) {
	exc := models.OrderException{
		ID:                     3,
		ShippingTrackingNumber: "1Z888BB20987654321",
		SourceStation:          models.StationPacker,
		ExceptionReason:        "not_found",
		Status:                 "open",
		CreatedAt:              ts(8, 0).UTC(),
	}

	// No matching order yet: bare exception row.
	rows := Combine(Input{Exceptions: []models.OrderException{exc}})
	require.Len(t, rows, 1)
	assert.Equal(t, models.RowSourceException, rows[0].RowSource)
	assert.Empty(t, rows[0].ProductTitle)

	// A matching order arrives: same row source, enriched metadata.
	rows = Combine(Input{
		Orders: []models.Order{{
			ID:                     20,
			OrderID:                "EB-1001",
			ProductTitle:           "Refurbished Laptop",
			SKU:                    "LAP-120",
			ShippingTrackingNumber: "888BB20987654321",
			CreatedAt:              ts(9, 30).UTC(),
		}},
		Exceptions: []models.OrderException{exc},
	})
	require.Len(t, rows, 2)

	var excRow *models.ShippedRow
	for i := range rows {
		if rows[i].RowSource == models.RowSourceException {
			excRow = &rows[i]
		}
	}
	require.NotNil(t, excRow)
	assert.Equal(t, "Refurbished Laptop", excRow.ProductTitle)
	assert.Equal(t, "LAP-120", excRow.SKU)
	assert.Equal(t, models.RowSourceException, excRow.RowSource)
}

func TestCombine_OrderingMostRecentlyActionedFirst(t *testing.T) {
	in := Input{
		Orders: []models.Order{
			// Packed yesterday at 15:00.
			{ID: 1, ShippingTrackingNumber: "11111111", CreatedAt: ts(9, 0).UTC()},
			// Never packed, created at 11:00 - sorts by creation time.
			{ID: 2, ShippingTrackingNumber: "22222222", CreatedAt: ts(11, 0).UTC()},
		},
		PackEvents: []models.PackerLog{
			{ID: 1, ShippingTrackingNumber: "11111111", PackedBy: 1, PackDateTime: ts(15, 0)},
		},
	}

	rows := Combine(in)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].ID) // pack at 15:00 beats creation at 11:00
	assert.Equal(t, 2, rows[1].ID)
}

func TestCombine_SkipsResolvedExceptions(t *testing.T) {
	rows := Combine(Input{Exceptions: []models.OrderException{
		{ID: 1, ShippingTrackingNumber: "33333333", Status: "resolved", CreatedAt: ts(9, 0).UTC()},
		{ID: 2, ShippingTrackingNumber: "44444444", Status: "open", CreatedAt: ts(9, 5).UTC()},
	}})
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].ID)
}
