package pricing

import (
	"strings"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/internal/utils"
)

// FilterAvailableRoomTypes keeps the catalog entries that match the search
// term and room type filter and, when the query has both dates, have at
// least one room in freeRooms. Catalog order is preserved.
func FilterAvailableRoomTypes(all []domain.RoomType, freeRooms []domain.Room, q domain.AvailabilityQuery) ([]domain.RoomType, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var free map[int64]int
	if q.HasDates() {
		free = CountFreeRooms(freeRooms)
	}

	search := strings.TrimSpace(q.Search)
	out := make([]domain.RoomType, 0, len(all))
	for _, rt := range all {
		if !utils.ContainsFold(rt.Name, search) {
			continue
		}
		if q.RoomTypeID != 0 && rt.ID != q.RoomTypeID {
			continue
		}
		if free != nil && free[rt.ID] == 0 {
			continue
		}
		out = append(out, rt)
	}
	return out, nil
}

// FilterByBand keeps room types in the given band. The empty band keeps all.
func FilterByBand(all []domain.RoomType, band PriceBand) []domain.RoomType {
	if band == "" {
		return all
	}
	out := make([]domain.RoomType, 0, len(all))
	for _, rt := range all {
		if PriceBandOf(rt.Price) == band {
			out = append(out, rt)
		}
	}
	return out
}

// CountFreeRooms tallies free rooms per room type id.
func CountFreeRooms(freeRooms []domain.Room) map[int64]int {
	counts := make(map[int64]int)
	for _, r := range freeRooms {
		counts[r.RoomTypeID]++
	}
	return counts
}

// FindRoomType looks a type up by id in a fetched catalog.
func FindRoomType(all []domain.RoomType, id int64) (domain.RoomType, bool) {
	for _, rt := range all {
		if rt.ID == id {
			return rt, true
		}
	}
	return domain.RoomType{}, false
}

// FilterBookingsByCheckIn keeps bookings whose check-in falls within
// [from, to], both ends inclusive. If either bound is unset every booking
// is returned.
func FilterBookingsByCheckIn(bookings []domain.Booking, from, to domain.Date) []domain.Booking {
	if from.IsZero() || to.IsZero() {
		return bookings
	}
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.CheckIn.IsZero() || b.CheckIn.Before(from) || b.CheckIn.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}
