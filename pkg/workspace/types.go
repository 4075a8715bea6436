package workspace

import (
	"time"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/ordering"
	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
)

// DocumentVersion is stamped on every saved document.
const DocumentVersion = "1.0.0"

// customIDPrefix starts every generated custom field id.
const customIDPrefix = "custom-"

// Selection identifies the active (schema, template) context. An empty
// Template means the schema is used without a template.
type Selection struct {
	Schema   string `json:"schema"`
	Template string `json:"template,omitempty"`
}

// Key returns the context key used to scope ordering state.
func (s Selection) Key() string {
	if s.Template == "" {
		return s.Schema
	}
	return s.Schema + "/" + s.Template
}

// Metadata records document timestamps.
type Metadata struct {
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Version  string    `json:"version"`
}

// DocumentInstance is a saved copy of the form data for one context.
type DocumentInstance struct {
	ID       string            `json:"id"`
	Schema   string            `json:"schema"`
	Template string            `json:"template,omitempty"`
	Data     document.FormData `json:"data"`
	Metadata Metadata          `json:"metadata"`
}

func (d DocumentInstance) clone() DocumentInstance {
	d.Data = d.Data.Clone()
	return d
}

// ContextSnapshot is the persisted ordering state of one context.
type ContextSnapshot struct {
	Overrides    ordering.Overrides  `json:"fieldOrder,omitempty"`
	CustomFields []schema.Field      `json:"customFields,omitempty"`
	ItemOrders   map[string][]string `json:"itemOrders,omitempty"`
}

// Snapshot is the JSON compatible form of a workspace.
type Snapshot struct {
	Selection       Selection                  `json:"selection"`
	Contexts        map[string]ContextSnapshot `json:"contexts,omitempty"`
	FormData        document.FormData          `json:"formData,omitempty"`
	Documents       []DocumentInstance         `json:"documents,omitempty"`
	CurrentDocument string                     `json:"currentDocument,omitempty"`
	PreviewFormat   serialize.Format           `json:"previewFormat,omitempty"`
}

type contextState struct {
	overrides  ordering.Overrides
	custom     []schema.Field
	itemOrders map[string][]string
}

func (c *contextState) empty() bool {
	return len(c.overrides) == 0 && len(c.custom) == 0 && len(c.itemOrders) == 0
}

func (c *contextState) snapshot() ContextSnapshot {
	out := ContextSnapshot{
		Overrides:    c.overrides.Clone(),
		CustomFields: schema.CloneFields(c.custom),
	}
	if len(c.itemOrders) > 0 {
		out.ItemOrders = make(map[string][]string, len(c.itemOrders))
		for id, items := range c.itemOrders {
			out.ItemOrders[id] = append([]string(nil), items...)
		}
	}
	return out
}

func contextFromSnapshot(snap ContextSnapshot) *contextState {
	state := &contextState{
		overrides: snap.Overrides.Clone(),
		custom:    schema.CloneFields(snap.CustomFields),
	}
	if len(snap.ItemOrders) > 0 {
		state.itemOrders = make(map[string][]string, len(snap.ItemOrders))
		for id, items := range snap.ItemOrders {
			state.itemOrders[id] = append([]string(nil), items...)
		}
	}
	return state
}
