package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
)

var catalog = []domain.RoomType{
	{ID: 1, Name: "Standard", Price: 350000},
	{ID: 2, Name: "Deluxe", Price: 750000},
	{ID: 3, Name: "Deluxe Family", Price: 950000},
	{ID: 4, Name: "Suite", Price: 1500000},
}

func ids(rts []domain.RoomType) []int64 {
	out := make([]int64, 0, len(rts))
	for _, rt := range rts {
		out = append(out, rt.ID)
	}
	return out
}

func TestFilterAvailableRoomTypes_NoDatesIgnoresFreeRooms(t *testing.T) {
	free := []domain.Room{{ID: 10, RoomTypeID: 4}}

	got, err := FilterAvailableRoomTypes(catalog, free, domain.AvailabilityQuery{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(got))

	got, err = FilterAvailableRoomTypes(catalog, nil, domain.AvailabilityQuery{Search: "DELUXE"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(got))

	got, err = FilterAvailableRoomTypes(catalog, nil, domain.AvailabilityQuery{Search: "deluxe", RoomTypeID: 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(got))
}

func TestFilterAvailableRoomTypes_WithDates(t *testing.T) {
	q := domain.AvailabilityQuery{
		CheckIn:  date(2024, time.January, 1),
		CheckOut: date(2024, time.January, 3),
	}

	got, err := FilterAvailableRoomTypes(catalog, nil, q)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	got, err = FilterAvailableRoomTypes(catalog, []domain.Room{}, q)
	require.NoError(t, err)
	assert.Empty(t, got)

	free := []domain.Room{
		{ID: 40, Number: "401", RoomTypeID: 4},
		{ID: 11, Number: "101", RoomTypeID: 1},
		{ID: 12, Number: "102", RoomTypeID: 1},
		{ID: 99, Number: "999", RoomTypeID: 77},
	}
	got, err = FilterAvailableRoomTypes(catalog, free, q)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids(got), "catalog order is kept")

	q.Search = "suite"
	got, err = FilterAvailableRoomTypes(catalog, free, q)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(got))
}

func TestFilterAvailableRoomTypes_RejectsMalformedQuery(t *testing.T) {
	_, err := FilterAvailableRoomTypes(catalog, nil, domain.AvailabilityQuery{CheckIn: date(2024, time.January, 1)})
	assert.ErrorIs(t, err, domain.ErrIncompleteDateRange)

	_, err = FilterAvailableRoomTypes(catalog, nil, domain.AvailabilityQuery{
		CheckIn:  date(2024, time.January, 3),
		CheckOut: date(2024, time.January, 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestFilterAvailableRoomTypes_EmptyCatalog(t *testing.T) {
	got, err := FilterAvailableRoomTypes(nil, nil, domain.AvailabilityQuery{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilterByBand(t *testing.T) {
	assert.Equal(t, []int64{2, 3}, ids(FilterByBand(catalog, BandMedium)))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(FilterByBand(catalog, "")))
}

func TestCountFreeRoomsAndFind(t *testing.T) {
	counts := CountFreeRooms([]domain.Room{{RoomTypeID: 1}, {RoomTypeID: 1}, {RoomTypeID: 2}})
	assert.Equal(t, map[int64]int{1: 2, 2: 1}, counts)

	rt, ok := FindRoomType(catalog, 2)
	require.True(t, ok)
	assert.Equal(t, "Deluxe", rt.Name)
	_, ok = FindRoomType(catalog, 42)
	assert.False(t, ok)
}

func TestFilterBookingsByCheckIn(t *testing.T) {
	bookings := []domain.Booking{
		{ID: 1, CheckIn: date(2024, time.March, 1)},
		{ID: 2, CheckIn: date(2024, time.March, 5)},
		{ID: 3, CheckIn: date(2024, time.March, 10)},
		{ID: 4, CheckIn: date(2024, time.March, 11)},
		{ID: 5},
	}

	got := FilterBookingsByCheckIn(bookings, date(2024, time.March, 5), date(2024, time.March, 10))
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	assert.Len(t, FilterBookingsByCheckIn(bookings, domain.Date{}, date(2024, time.March, 10)), 5)
	assert.Empty(t, FilterBookingsByCheckIn(bookings, date(2024, time.April, 1), date(2024, time.April, 2)))
}
