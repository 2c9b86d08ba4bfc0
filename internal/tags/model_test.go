package tags

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
)

func TestTag_Schema(t *testing.T) {
	schema := rest.NewStructSchema(New)

	tests := []struct {
		name    string
		payload string
		want    rest.FieldErrors
	}{
		{name: "valid", payload: `{"name":"draft","color":"#ff8800"}`},
		{name: "color is optional", payload: `{"name":"draft"}`},
		{name: "missing name", payload: `{"color":"#fff"}`, want: rest.FieldErrors{"name": {"Missing data for required field."}}},
		{name: "bad color", payload: `{"name":"draft","color":"orange"}`, want: rest.FieldErrors{"color": {"Not a valid color."}}},
		{name: "name with punctuation", payload: `{"name":"to do!"}`, want: rest.FieldErrors{"name": {"Must contain only letters and digits."}}},
		{name: "unicode letters", payload: `{"name":"café"}`},
		{name: "name too long", payload: `{"name":"` + strings.Repeat("x", 65) + `"}`, want: rest.FieldErrors{"name": {"Longer than maximum length 64."}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.Load(json.RawMessage(tt.payload), schema.New()))
		})
	}
}

func TestNewView_DefaultsName(t *testing.T) {
	v := NewView(rest.Resource{}, nil)
	assert.Equal(t, Name, v.Resource().Name)
	assert.Equal(t, "/tags", v.Resource().BasePath())
}
