package tags

import (
	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
	"github.com/GoSim-25-26J-441/seed-api/internal/storage/postgres"
)

var Table = postgres.Table[*Tag]{
	Name:      "tags",
	Columns:   []string{"id", "name", "color", "created_at", "updated_at"},
	Immutable: []string{"created_at"},
	DDL: `
CREATE TABLE IF NOT EXISTS tags (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	color      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`,
	New: New,
	Values: func(t *Tag) []any {
		return []any{t.ID, t.Name, t.Color, t.CreatedAt, t.UpdatedAt}
	},
	Fields: func(t *Tag) []any {
		return []any{&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt}
	},
}

func NewView(res rest.Resource, store rest.Store[*Tag]) *rest.View[*Tag] {
	if res.Name == "" {
		res.Name = Name
	}
	return rest.NewView[*Tag](res, store, rest.NewStructSchema(New))
}
