package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyMarshalKeepsClears(t *testing.T) {
	tests := []struct {
		name string
		prop Property
		want string
	}{
		{"empty text", Text(""), `{"rich_text":[],"type":"rich_text"}`},
		{"cleared select", Select(""), `{"select":null,"type":"select"}`},
		{"cleared date", Date(""), `{"date":null,"type":"date"}`},
		{"zero number", Number(0), `{"number":0,"type":"number"}`},
		{"false checkbox", Checkbox(false), `{"checkbox":false,"type":"checkbox"}`},
		{"status", Status("En curso"), `{"status":{"name":"En curso"},"type":"status"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.prop)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestPropertyRoundTripThroughJSON(t *testing.T) {
	props := Properties{
		"Incidencia": Title("Ríos Rosas - 3B - 5/2/2024"),
		"Urgencia":   MultiSelect("Alta", "Urgente"),
		"Fotos":      ExternalFiles("foto", []string{"https://x/1.jpg"}),
	}
	b, err := json.Marshal(props)
	require.NoError(t, err)

	var back Properties
	require.NoError(t, json.Unmarshal(b, &back))

	title, ok := back.TitleText()
	assert.True(t, ok)
	assert.Equal(t, "Ríos Rosas - 3B - 5/2/2024", title)

	first, ok := back.FirstOption("Urgencia")
	assert.True(t, ok)
	assert.Equal(t, "Alta", first)
	assert.Equal(t, []string{"https://x/1.jpg"}, back.FileURLs("Fotos"))
}

func TestAccessorsTolerateMissingAndMismatched(t *testing.T) {
	props := Properties{"Edificio": Select("Juan Bravo")}

	_, ok := props.Text("Edificio")
	assert.False(t, ok)
	v, ok := props.SelectOrText("Edificio")
	assert.True(t, ok)
	assert.Equal(t, "Juan Bravo", v)

	_, ok = props.DateStart("missing")
	assert.False(t, ok)
	_, ok = props.Number("Edificio")
	assert.False(t, ok)
	assert.Empty(t, props.FileURLs("missing"))
	assert.NotNil(t, props.FileURLs("missing"))
}

func TestMemoryStoreUpdateMergesPatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	page, err := store.Create(ctx, "db1", Properties{
		"Estado":  Status("Pendiente"),
		"Técnico": Text("Ana"),
	})
	require.NoError(t, err)

	updated, err := store.Update(ctx, page.ID, Properties{"Estado": Status("En proceso")})
	require.NoError(t, err)

	status, _ := updated.Properties.SelectName("Estado")
	tech, _ := updated.Properties.Text("Técnico")
	assert.Equal(t, "En proceso", status)
	assert.Equal(t, "Ana", tech)
	assert.Equal(t, "db1", updated.Parent.DatabaseID)

	_, err = store.Update(ctx, "nope", Properties{})
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = store.Retrieve(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	page, err := store.Create(ctx, "db1", Properties{"Estado": Status("Pendiente")})
	require.NoError(t, err)

	page.Properties["Estado"] = Status("Cancelada")

	again, err := store.Retrieve(ctx, page.ID)
	require.NoError(t, err)
	status, _ := again.Properties.SelectName("Estado")
	assert.Equal(t, "Pendiente", status)
}

func TestMemoryStoreQuerySorts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	store.Put("db1", Page{ID: "a", CreatedTime: base.Add(2 * time.Hour), Properties: Properties{"Fecha": Date("2024-01-05")}})
	store.Put("db1", Page{ID: "b", CreatedTime: base, Properties: Properties{}})
	store.Put("db1", Page{ID: "c", CreatedTime: base.Add(time.Hour), Properties: Properties{"Fecha": Date("2024-03-01")}})
	store.Put("db2", Page{ID: "d", CreatedTime: base})

	byDate, err := store.Query(ctx, "db1", Sort{Property: "Fecha", Direction: Descending})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(byDate))

	byCreated, err := store.Query(ctx, "db1", Sort{Timestamp: TimestampCreated, Direction: Ascending})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(byCreated))
}

func ids(pages []Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.ID)
	}
	return out
}
