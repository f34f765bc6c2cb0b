package domain

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// RoomType is a catalog entry owned by the hotel API.
type RoomType struct {
	ID          int64  `json:"id_tipe_kamar"`
	Name        string `json:"nama_tipe_kamar"`
	Price       int64  `json:"harga"`
	Description string `json:"deskripsi"`
	Photo       string `json:"foto"`
}

type Room struct {
	ID         int64  `json:"id_kamar"`
	Number     string `json:"nomor_kamar"`
	RoomTypeID int64  `json:"id_tipe_kamar"`
}

// RoomTypeRef is the nested room type the hotel API embeds in booking rows.
type RoomTypeRef struct {
	Name  string `json:"nama_tipe_kamar"`
	Price int64  `json:"harga,omitempty"`
}

// Booking is one row of the hotel API booking list.
type Booking struct {
	ID            int64         `json:"id_pemesanan"`
	CustomerID    int64         `json:"id_pelanggan"`
	BookingNumber string        `json:"nomor_pemesanan"`
	GuestName     string        `json:"nama_tamu"`
	Email         string        `json:"email_pemesanan,omitempty"`
	BookedOn      Date          `json:"tgl_pemesanan"`
	CheckIn       Date          `json:"tgl_check_in"`
	CheckOut      Date          `json:"tgl_check_out"`
	RoomCount     int           `json:"jumlah_kamar"`
	RoomType      RoomTypeRef   `json:"tipe_kamar"`
	Status        BookingStatus `json:"status_pemesanan"`
}

// BookingConfirmation is what the receipt page and email render.
type BookingConfirmation struct {
	ID            int64       `json:"id"`
	BookingNumber string      `json:"nomor_pemesanan"`
	GuestName     string      `json:"nama_tamu"`
	Email         string      `json:"email_pemesanan,omitempty"`
	CheckIn       Date        `json:"tgl_check_in"`
	CheckOut      Date        `json:"tgl_check_out"`
	RoomCount     int         `json:"jumlah_kamar"`
	RoomType      RoomTypeRef `json:"tipe_kamar"`
	TotalPrice    int64       `json:"total_harga"`
}
