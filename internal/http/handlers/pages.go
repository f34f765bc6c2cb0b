package handlers

import (
	"net/http"

	"github.com/diagnosis/hotel-frontdesk/internal/access"
	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
)

// pageHandler hands every non-API path to the page front end once the gate
// has let it through.
func pageHandler(pages Forwarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pages == nil {
			response.NotFound(w, "page not found")
			return
		}
		pages.Forward(w, r, access.CleanPath(r.URL.Path))
	}
}
