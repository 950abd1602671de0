package cities

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `departamento,ciudad,lat,lng
Antioquia,Medellín,6.2442,-75.5812
Antioquia,Itagüí,6.1849,-75.5994
Bogotá D.C.,Bogotá,4.7110,-74.0721
Nariño,Pasto,1.2136,-77.2811
Valle del Cauca,Cali,3.4516,-76.5320
`

func sampleIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return idx
}

func TestParseBuildsLabels(t *testing.T) {
	idx := sampleIndex(t)
	all := idx.All()
	require.Len(t, all, 5)
	assert.Equal(t, "Medellín - Antioquia", all[0].Label)
	assert.Equal(t, 6.2442, all[0].Lat)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "medellin", Fold("Medellín"))
	assert.Equal(t, "itagui", Fold("Itagüí"))
	assert.Equal(t, "narino", Fold("NARIÑO"))
}

func TestSearchIgnoresAccentsAndCase(t *testing.T) {
	idx := sampleIndex(t)

	tests := []struct {
		query string
		want  string
	}{
		{"medellin", "Medellín - Antioquia"},
		{"MEDELLÍN", "Medellín - Antioquia"},
		{"itagui", "Itagüí - Antioquia"},
		{"narino", "Pasto - Nariño"},
	}
	for _, tt := range tests {
		got := idx.Search(tt.query, 20)
		require.NotEmpty(t, got, "query %q", tt.query)
		assert.Equal(t, tt.want, got[0].Label)
	}

	assert.Empty(t, idx.Search("", 20))
	assert.Empty(t, idx.Search("zzz", 20))
}

func TestSearchHonorsLimit(t *testing.T) {
	idx := sampleIndex(t)
	got := idx.Search("a", 2)
	assert.Len(t, got, 2)
}

func TestLookupExactLabel(t *testing.T) {
	idx := sampleIndex(t)

	city, ok := idx.Lookup("medellin - antioquia")
	require.True(t, ok)
	assert.Equal(t, "Medellín - Antioquia", city.Label)

	_, ok = idx.Lookup("Atlantis - Nowhere")
	assert.False(t, ok)
}

func TestSearchHandler(t *testing.T) {
	idx := sampleIndex(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ciudades/buscar?q=medellin", nil)
	rec := httptest.NewRecorder()
	SearchHandler(idx)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var labels []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &labels))
	assert.Equal(t, []string{"Medellín - Antioquia"}, labels)

	// full=1 returns whole objects.
	req = httptest.NewRequest(http.MethodGet, "/api/ciudades/buscar?q=medellin&full=1", nil)
	rec = httptest.NewRecorder()
	SearchHandler(idx)(rec, req)

	var cities []City
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cities))
	require.Len(t, cities, 1)
	assert.Equal(t, 6.2442, cities[0].Lat)
}

func TestGeoHandler(t *testing.T) {
	idx := sampleIndex(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ciudades/geo?label=Cali+-+Valle+del+Cauca", nil)
	rec := httptest.NewRecorder()
	GeoHandler(idx)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3.4516, resp["lat"])

	req = httptest.NewRequest(http.MethodGet, "/api/ciudades/geo?label=Nada", nil)
	rec = httptest.NewRecorder()
	GeoHandler(idx)(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListHandlerGroupsByDepartamento(t *testing.T) {
	idx := sampleIndex(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ciudades", nil)
	rec := httptest.NewRecorder()
	ListHandler(idx)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var grouped map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grouped))
	assert.Len(t, grouped, 4)
	assert.ElementsMatch(t, []string{"Medellín", "Itagüí"}, grouped["Antioquia"])
	assert.Equal(t, []string{"Pasto"}, grouped["Nariño"])
}
