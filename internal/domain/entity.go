package domain

import (
	"encoding/json"
	"fmt"
)

// Field types understood by the generator.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Field represents one property of an entity's response or request schema.
type Field struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Format     string   `json:"format,omitempty"`
	EnumValues []string `json:"enumValues,omitempty"`
	Required   bool     `json:"required"`
	Nullable   bool     `json:"nullable"`
	MinLength  *int     `json:"minLength,omitempty"`
	MaxLength  *int     `json:"maxLength,omitempty"`
	Minimum    *float64 `json:"minimum,omitempty"`
	Maximum    *float64 `json:"maximum,omitempty"`
	Pattern    string   `json:"pattern,omitempty"`
	ItemsType  string   `json:"itemsType,omitempty"`
	Items      *Field   `json:"items,omitempty"`
}

// CrudRole is the role an operation plays for its entity.
type CrudRole string

// CRUD roles.
const (
	RoleList   CrudRole = "list"
	RoleGet    CrudRole = "get"
	RoleCreate CrudRole = "create"
	RoleUpdate CrudRole = "update"
	RoleDelete CrudRole = "delete"
	RoleCustom CrudRole = "custom"
)

// CrudRoles lists the canonical roles in their fixed order.
var CrudRoles = []CrudRole{RoleList, RoleGet, RoleCreate, RoleUpdate, RoleDelete}

// EntityOperation is one HTTP operation attached to an entity.
type EntityOperation struct {
	Name        string   `json:"name"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Role        CrudRole `json:"role"`
	HasInput    bool     `json:"hasInput"`
	QueryParams []Field  `json:"queryParams"`
	BodySchema  string   `json:"bodySchema,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
}

// ParentRef points at the collection an entity is nested under.
type ParentRef struct {
	Param string `json:"param"`
	Path  string `json:"path"`
}

// Entity is one inferred CRUD resource.
type Entity struct {
	Name         string            `json:"name"`
	PascalName   string            `json:"pascalName"`
	PluralName   string            `json:"pluralName"`
	Path         string            `json:"path"`
	Parent       *ParentRef        `json:"parent,omitempty"`
	Fields       []Field           `json:"fields"`
	CreateFields []Field           `json:"createFields"`
	UpdateFields []Field           `json:"updateFields"`
	QueryParams  []Field           `json:"queryParams"`
	Operations   []EntityOperation `json:"operations"`
	Tags         []string          `json:"tags"`

	// LegacyOperations holds the version 1 flag map until the snapshot is migrated.
	LegacyOperations map[string]bool `json:"-"`
}

// Operation returns the operation playing role, or nil.
func (e *Entity) Operation(role CrudRole) *EntityOperation {
	for i := range e.Operations {
		if e.Operations[i].Role == role {
			return &e.Operations[i]
		}
	}

	return nil
}

// Has reports whether the entity supports role.
func (e *Entity) Has(role CrudRole) bool {
	return e.Operation(role) != nil
}

// CustomOperations returns the operations outside the CRUD roles.
func (e *Entity) CustomOperations() []EntityOperation {
	var ops []EntityOperation

	for _, op := range e.Operations {
		if op.Role == RoleCustom {
			ops = append(ops, op)
		}
	}

	return ops
}

// UnmarshalJSON accepts both the array form of operations and the version 1 flag map.
func (e *Entity) UnmarshalJSON(data []byte) error {
	type plain Entity

	var raw struct {
		plain
		Operations json.RawMessage `json:"operations"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Entity(raw.plain)
	e.Operations = nil
	e.LegacyOperations = nil

	if len(raw.Operations) == 0 || string(raw.Operations) == "null" {
		return nil
	}

	switch raw.Operations[0] {
	case '[':
		return json.Unmarshal(raw.Operations, &e.Operations)
	case '{':
		return json.Unmarshal(raw.Operations, &e.LegacyOperations)
	default:
		return fmt.Errorf("entity %q: operations must be an array or an object", e.Name)
	}
}

// DomainGroup is a named partition of entities.
type DomainGroup struct {
	DomainName string
	Entities   []*Entity
}

// Snapshot versions.
const (
	SnapshotV1 = 1
	SnapshotV2 = 2
)

// Snapshot is the persisted entity model as of the last successful generation.
type Snapshot struct {
	Version     int       `json:"version"`
	GeneratedAt string    `json:"generatedAt"`
	SpecSource  string    `json:"specSource"`
	Entities    []*Entity `json:"entities"`
}

// ChangedField records a field whose shape differs between two snapshots.
type ChangedField struct {
	Name string `json:"name"`
	From Field  `json:"from"`
	To   Field  `json:"to"`
}

// ModifiedEntity lists the field-level changes of an entity present in both snapshots.
type ModifiedEntity struct {
	Name          string         `json:"name"`
	AddedFields   []Field        `json:"addedFields"`
	RemovedFields []Field        `json:"removedFields"`
	ChangedFields []ChangedField `json:"changedFields"`
}

// Diff is the delta between a snapshot and a freshly extracted entity list.
type Diff struct {
	HasChanges bool             `json:"hasChanges"`
	Added      []*Entity        `json:"added"`
	Removed    []*Entity        `json:"removed"`
	Modified   []ModifiedEntity `json:"modified"`
}
