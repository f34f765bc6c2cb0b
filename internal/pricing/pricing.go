// Package pricing computes stay length, booking totals and room-type
// availability. Nothing here performs I/O; callers pass in data already
// fetched from the hotel API.
package pricing

import (
	"math"
	"time"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
)

const day = 24 * time.Hour

// NightsBetween returns the number of nights between two instants, rounding
// a partial day up. checkOut must be strictly after checkIn.
func NightsBetween(checkIn, checkOut time.Time) (int, error) {
	if checkIn.IsZero() {
		return 0, domain.Invalid("tgl_check_in", domain.ErrMissingDate)
	}
	if checkOut.IsZero() {
		return 0, domain.Invalid("tgl_check_out", domain.ErrMissingDate)
	}
	if !checkOut.After(checkIn) {
		return 0, domain.Invalid("tgl_check_out", domain.ErrInvalidDateRange)
	}

	span := checkOut.Sub(checkIn)
	nights := int(span / day)
	if span%day != 0 {
		nights++
	}
	return nights, nil
}

// TotalPrice is price * rooms * nights. Zero nights is the "no dates chosen
// yet" state and yields 0.
func TotalPrice(rt domain.RoomType, roomCount, nights int) (int64, error) {
	if rt.Price < 0 {
		return 0, domain.Invalid("harga", domain.ErrNegativePrice)
	}
	if roomCount < 1 {
		return 0, domain.Invalid("jumlah_kamar", domain.ErrInvalidRoomCount)
	}
	if nights < 0 {
		return 0, domain.Invalid("malam", domain.ErrNegativeNights)
	}
	perNight, ok := mulInt64(rt.Price, int64(roomCount))
	if !ok {
		return 0, domain.Invalid("total_harga", domain.ErrTotalOverflow)
	}
	total, ok := mulInt64(perNight, int64(nights))
	if !ok {
		return 0, domain.Invalid("total_harga", domain.ErrTotalOverflow)
	}
	return total, nil
}

// mulInt64 multiplies two non-negative values and reports false on overflow.
func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

// Quote is the booking summary shown before the customer submits.
type Quote struct {
	RoomTypeID   int64       `json:"id_tipe_kamar"`
	RoomTypeName string      `json:"nama_tipe_kamar"`
	NightlyPrice int64       `json:"harga"`
	RoomCount    int         `json:"jumlah_kamar"`
	CheckIn      domain.Date `json:"tgl_check_in"`
	CheckOut     domain.Date `json:"tgl_check_out"`
	Nights       int         `json:"malam"`
	Total        int64       `json:"total_harga"`
	Band         PriceBand   `json:"price_band"`
}

// NewQuote prices a stay. If either date is unset the quote has zero nights
// and a zero total; a reversed range is still an error.
func NewQuote(rt domain.RoomType, checkIn, checkOut domain.Date, roomCount int) (Quote, error) {
	q := Quote{
		RoomTypeID:   rt.ID,
		RoomTypeName: rt.Name,
		NightlyPrice: rt.Price,
		RoomCount:    roomCount,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Band:         PriceBandOf(rt.Price),
	}

	if !checkIn.IsZero() && !checkOut.IsZero() {
		nights, err := NightsBetween(checkIn.Time(), checkOut.Time())
		if err != nil {
			return Quote{}, err
		}
		q.Nights = nights
	}

	total, err := TotalPrice(rt, roomCount, q.Nights)
	if err != nil {
		return Quote{}, err
	}
	q.Total = total
	return q, nil
}
