package cities

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const searchLimit = 20

// ListHandler returns the whole dataset grouped by departamento.
func ListHandler(idx *Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(idx.Grouped())
	}
}

// SearchHandler implements the autocomplete endpoint. With full=1 the
// response carries the whole City objects instead of bare labels.
func SearchHandler(idx *Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		full, _ := strconv.ParseBool(r.URL.Query().Get("full"))

		matches := idx.Search(q, searchLimit)
		w.Header().Set("Content-Type", "application/json")

		if full {
			if matches == nil {
				matches = []City{}
			}
			json.NewEncoder(w).Encode(matches)
			return
		}
		labels := make([]string, len(matches))
		for i, c := range matches {
			labels[i] = c.Label
		}
		json.NewEncoder(w).Encode(labels)
	}
}

// GeoHandler resolves a city label to its coordinates, used by the
// booking form to estimate the distance between origin and destination.
func GeoHandler(idx *Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		label := r.URL.Query().Get("label")
		city, ok := idx.Lookup(label)
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Ciudad no encontrada"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"label": city.Label,
			"lat":   city.Lat,
			"lng":   city.Lng,
		})
	}
}
