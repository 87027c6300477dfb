package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// catalogBody wraps products in the double envelope of the catalog
// endpoints, {"products": {"products": [...]}}.
func catalogBody(products []scaleapi.Product) scaleapi.CachedProducts {
	return scaleapi.CachedProducts{Products: scaleapi.ProductList{Products: products}}
}

func (s *Server) handleFetchProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}

	products, err := s.products.FetchIntoCache(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogBody(products))
}

func (s *Server) handleCachedProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}

	products, err := s.products.Cached(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogBody(products))
}

func (s *Server) handlePatchProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}

	plu, err := strconv.ParseInt(chi.URLParam(r, "plu"), 10, 64)
	if err != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, []scaleapi.FieldError{
			fieldError("value is not a valid integer", "type_error.integer", "path", "plu"),
		})
		return
	}

	var patch scaleapi.ProductPatch
	if !s.decodeJSON(w, r, &patch) {
		return
	}

	p, err := s.products.PatchCached(r.Context(), userIDFrom(r.Context()), id, plu, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePushProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}

	pushed, err := s.products.Push(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scaleapi.PushResult{Pushed: pushed})
}
