package domain

import (
	"github.com/diagnosis/hotel-frontdesk/internal/utils"
)

// BookingRequest is the payload a customer submits and the gateway forwards
// to the hotel API once validated.
type BookingRequest struct {
	GuestName  string        `json:"nama_tamu"`
	CheckIn    Date          `json:"tgl_check_in"`
	CheckOut   Date          `json:"tgl_check_out"`
	RoomCount  int           `json:"jumlah_kamar"`
	RoomTypeID int64         `json:"id_tipe_kamar"`
	Email      string        `json:"email_pemesanan"`
	Status     BookingStatus `json:"status_pemesanan"`
}

func (b *BookingRequest) Normalize() {
	b.GuestName = utils.NormalizeString(b.GuestName)
	b.Email = utils.NormalizeEmail(b.Email)
	if b.Status == "" {
		b.Status = BookingPending
	}
}

// Validate checks fields in form order and reports the first problem.
func (b BookingRequest) Validate() error {
	if utils.NormalizeString(b.GuestName) == "" {
		return Invalid("nama_tamu", ErrMissingField)
	}
	if b.CheckIn.IsZero() {
		return Invalid("tgl_check_in", ErrMissingDate)
	}
	if b.CheckOut.IsZero() {
		return Invalid("tgl_check_out", ErrMissingDate)
	}
	if !b.CheckOut.After(b.CheckIn) {
		return Invalid("tgl_check_out", ErrInvalidDateRange)
	}
	if b.RoomCount < 1 {
		return Invalid("jumlah_kamar", ErrInvalidRoomCount)
	}
	if b.RoomTypeID <= 0 {
		return Invalid("id_tipe_kamar", ErrInvalidRoomType)
	}
	if !utils.IsValidEmail(b.Email) {
		return Invalid("email_pemesanan", ErrInvalidEmail)
	}
	if b.Status != "" {
		if _, ok := ParseBookingStatus(string(b.Status)); !ok {
			return Invalid("status_pemesanan", ErrInvalidStatus)
		}
	}
	return nil
}

// AvailabilityQuery filters the catalog. Every field is optional; a zero
// RoomTypeID means any type.
type AvailabilityQuery struct {
	CheckIn    Date   `json:"tgl_check_in"`
	CheckOut   Date   `json:"tgl_check_out"`
	RoomTypeID int64  `json:"id_tipe_kamar"`
	Search     string `json:"search"`
}

func (q AvailabilityQuery) HasDates() bool {
	return !q.CheckIn.IsZero() && !q.CheckOut.IsZero()
}

func (q AvailabilityQuery) Validate() error {
	if q.CheckIn.IsZero() != q.CheckOut.IsZero() {
		field := "tgl_check_out"
		if q.CheckIn.IsZero() {
			field = "tgl_check_in"
		}
		return Invalid(field, ErrIncompleteDateRange)
	}
	if q.HasDates() && !q.CheckOut.After(q.CheckIn) {
		return Invalid("tgl_check_out", ErrInvalidDateRange)
	}
	if q.RoomTypeID < 0 {
		return Invalid("id_tipe_kamar", ErrInvalidRoomType)
	}
	return nil
}

// QuoteRequest asks for the booking summary price. Dates may be absent while
// the customer is still filling the form.
type QuoteRequest struct {
	RoomTypeID int64 `json:"id_tipe_kamar"`
	CheckIn    Date  `json:"tgl_check_in"`
	CheckOut   Date  `json:"tgl_check_out"`
	RoomCount  int   `json:"jumlah_kamar"`
}

// Credentials is the login form body. Password is forwarded, never stored.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if !utils.IsValidEmail(c.Email) {
		return Invalid("email", ErrInvalidEmail)
	}
	if c.Password == "" {
		return Invalid("password", ErrMissingField)
	}
	return nil
}
