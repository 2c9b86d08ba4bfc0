// Package nodes is the paragraph-node resource: the text blocks of a document
// tree, exposed through the generic CRUD view.
package nodes

import "time"

const Name = "nodes"

// Node is one paragraph of a document. ParentID links it to its enclosing node.
type Node struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required,max=200"`
	Content   string    `json:"content"`
	ParentID  *string   `json:"parent_id"`
	Position  int       `json:"position" validate:"gte=0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New() *Node {
	return &Node{}
}

func (n *Node) GetID() string   { return n.ID }
func (n *Node) SetID(id string) { n.ID = id }

func (n *Node) CreatedTime() time.Time { return n.CreatedAt }

func (n *Node) SetTimes(created, updated time.Time) {
	n.CreatedAt = created.UTC()
	n.UpdatedAt = updated.UTC()
}
