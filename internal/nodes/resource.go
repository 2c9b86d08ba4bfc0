package nodes

import (
	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
	"github.com/GoSim-25-26J-441/seed-api/internal/storage/postgres"
)

const ddl = `
CREATE TABLE IF NOT EXISTS nodes (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	parent_id  TEXT REFERENCES nodes (id) ON DELETE SET NULL,
	position   INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS nodes_parent_id_idx ON nodes (parent_id);
`

// Table describes how nodes are stored in Postgres.
var Table = postgres.Table[*Node]{
	Name:      "nodes",
	Columns:   []string{"id", "title", "content", "parent_id", "position", "created_at", "updated_at"},
	Immutable: []string{"created_at"},
	DDL:       ddl,
	New:       New,
	Values: func(n *Node) []any {
		return []any{n.ID, n.Title, n.Content, n.ParentID, n.Position, n.CreatedAt, n.UpdatedAt}
	},
	Fields: func(n *Node) []any {
		return []any{&n.ID, &n.Title, &n.Content, &n.ParentID, &n.Position, &n.CreatedAt, &n.UpdatedAt}
	},
}

// NewView wires the node resource onto store.
func NewView(res rest.Resource, store rest.Store[*Node]) *rest.View[*Node] {
	if res.Name == "" {
		res.Name = Name
	}
	return rest.NewView[*Node](res, store, rest.NewStructSchema(New))
}
