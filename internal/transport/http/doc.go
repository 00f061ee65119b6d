// Package http implements the fxdesk HTTP handlers. Handlers stay thin: they
// decode and validate the request, call a service through a small interface
// and render the result or an RFC 7807 problem.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Store
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Handler Structure
//
// Each JSON handler embeds handlerBase and follows this pattern:
//
//	func (h *Handler) Something(w http.ResponseWriter, r *http.Request) {
//	    var req api.SomethingRequest
//	    if !h.decode(w, r, &req) {
//	        return
//	    }
//	    result, err := h.service.Something(r.Context(), ...)
//	    if err != nil {
//	        h.fail(w, r, "something failed", err)
//	        return
//	    }
//	    render.JSON(w, r, result)
//	}
//
// # Error Mapping
//
// Service errors are *errors.AppError values and map to status codes by type:
// pricing failures (invalid settlement, unpriceable date, insufficient curve
// data) are 422, a missing base rate or unknown pair is 404, bad input is 400
// and storage failures are 500 with the detail masked.
//
// # Routes
//
// Each handler exposes Routes() for mounting under /api, except
// HealthHandler which registers its endpoints directly on the API router.
package http
