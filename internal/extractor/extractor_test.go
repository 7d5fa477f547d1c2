package extractor

import (
	"encoding/json"
	"testing"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(format string) *domain.Schema {
	return &domain.Schema{Type: "string", Format: format}
}

func object(required []string, props ...domain.Property) *domain.Schema {
	return &domain.Schema{Type: "object", Properties: props, Required: required}
}

func prop(name string, schema *domain.Schema) domain.Property {
	return domain.Property{Name: name, Schema: schema}
}

func jsonContent(schema *domain.Schema) []domain.MediaType {
	return []domain.MediaType{{ContentType: "application/json", Schema: schema}}
}

func ok(schema *domain.Schema) []domain.Response {
	return []domain.Response{{StatusCode: "200", Description: "OK", Content: jsonContent(schema)}}
}

func body(schema *domain.Schema) *domain.RequestBody {
	return &domain.RequestBody{Required: true, Content: jsonContent(schema)}
}

func userSchema() *domain.Schema {
	return object(
		[]string{"id", "email", "name", "createdAt", "updatedAt"},
		prop("id", str("uuid")),
		prop("email", str("email")),
		prop("name", str("")),
		prop("createdAt", str("date-time")),
		prop("updatedAt", str("date-time")),
	)
}

func usersDoc() *domain.OpenAPIDocument {
	user := userSchema()

	return &domain.OpenAPIDocument{
		Title: "Users",
		Paths: []domain.Path{
			{
				Path: "/users",
				Operations: []domain.Operation{
					{
						Method: "GET",
						Tags:   []string{"IAM"},
						Parameters: []domain.Parameter{
							{Name: "limit", In: "query", Schema: &domain.Schema{Type: "integer", Minimum: float64Ptr(1)}},
							{Name: "X-Trace", In: "header", Schema: str("")},
						},
						Responses: ok(&domain.Schema{Type: "array", Items: user}),
					},
					{
						Method:      "POST",
						Tags:        []string{"IAM", "Users"},
						RequestBody: body(user),
						Responses:   ok(user),
					},
				},
			},
			{
				Path: "/users/{id}",
				Operations: []domain.Operation{
					{Method: "GET", Tags: []string{"Users"}, Responses: ok(user)},
					{Method: "PATCH", RequestBody: body(user), Responses: ok(user)},
					{Method: "DELETE"},
				},
			},
		},
	}
}

func float64Ptr(v float64) *float64 { return &v }

func fieldNames(fields []domain.Field) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}

func TestExtractEntitiesUsers(t *testing.T) {
	entities := ExtractEntities(usersDoc(), nil)
	require.Len(t, entities, 1)

	user := entities[0]
	assert.Equal(t, "user", user.Name)
	assert.Equal(t, "User", user.PascalName)
	assert.Equal(t, "users", user.PluralName)
	assert.Equal(t, "/users", user.Path)
	assert.Nil(t, user.Parent)

	for _, role := range domain.CrudRoles {
		assert.True(t, user.Has(role), "missing role %s", role)
	}
	assert.Empty(t, user.CustomOperations())

	assert.Equal(t, []string{"id", "email", "name", "createdAt", "updatedAt"}, fieldNames(user.Fields))
	assert.Equal(t, []string{"email", "name"}, fieldNames(user.CreateFields))
	assert.Equal(t, []string{"email", "name"}, fieldNames(user.UpdateFields))
	assert.Equal(t, []string{"IAM", "Users"}, user.Tags)

	require.Len(t, user.QueryParams, 1)
	assert.Equal(t, "limit", user.QueryParams[0].Name)
	assert.Equal(t, domain.TypeInteger, user.QueryParams[0].Type)

	id := user.Fields[0]
	assert.Equal(t, domain.TypeString, id.Type)
	assert.Equal(t, "uuid", id.Format)
	assert.True(t, id.Required)

	assert.Equal(t, "listUsers", user.Operation(domain.RoleList).Name)
	assert.Equal(t, "getUser", user.Operation(domain.RoleGet).Name)
	assert.Equal(t, "/users/{id}", user.Operation(domain.RoleDelete).Path)
	assert.True(t, user.Operation(domain.RoleCreate).HasInput)
	assert.Equal(t, "application/json", user.Operation(domain.RoleCreate).ContentType)
	assert.False(t, user.Operation(domain.RoleDelete).HasInput)
}

func TestExtractEntitiesNested(t *testing.T) {
	doc := &domain.OpenAPIDocument{
		Paths: []domain.Path{{
			Path: "/topologies/{topologyId}/controllers",
			Operations: []domain.Operation{{
				Method:    "GET",
				Responses: ok(&domain.Schema{Type: "array", Items: object(nil, prop("name", str("")))}),
			}},
		}},
	}

	entities := ExtractEntities(doc, nil)
	require.Len(t, entities, 1)

	controller := entities[0]
	assert.Equal(t, "controller", controller.Name)
	assert.Equal(t, "/topologies/{topologyId}/controllers", controller.Path)
	require.NotNil(t, controller.Parent)
	assert.Equal(t, domain.ParentRef{Param: "topologyId", Path: "/topologies"}, *controller.Parent)
	assert.True(t, controller.Has(domain.RoleList))
	assert.False(t, controller.Has(domain.RoleGet))
	assert.Equal(t, []string{"name"}, fieldNames(controller.Fields))
}

func TestExtractEntitiesIndependentInputs(t *testing.T) {
	doc := &domain.OpenAPIDocument{
		Paths: []domain.Path{
			{
				Path: "/widgets",
				Operations: []domain.Operation{
					{Method: "GET", Responses: ok(&domain.Schema{Type: "array", Items: object(nil, prop("id", str("uuid")), prop("label", str("")))})},
					{Method: "POST", RequestBody: body(object([]string{"label"}, prop("label", str("")), prop("secret", str(""))))},
				},
			},
			{
				Path: "/widgets/{widgetId}",
				Operations: []domain.Operation{
					{Method: "PUT", RequestBody: body(object(nil, prop("archived", &domain.Schema{Type: "boolean"})))},
				},
			},
		},
	}

	widget := ExtractEntities(doc, nil)[0]

	assert.Equal(t, []string{"id", "label"}, fieldNames(widget.Fields))
	assert.Equal(t, []string{"label", "secret"}, fieldNames(widget.CreateFields))
	assert.Equal(t, []string{"archived"}, fieldNames(widget.UpdateFields))
	assert.True(t, widget.CreateFields[0].Required)
	assert.False(t, widget.CreateFields[1].Required)
}

func TestExtractEntitiesInputFallbackAndReadOnly(t *testing.T) {
	item := object(nil,
		prop("id", str("uuid")),
		prop("slug", &domain.Schema{Type: "string", ReadOnly: true}),
		prop("title", str("")),
	)
	doc := &domain.OpenAPIDocument{
		Paths: []domain.Path{
			{Path: "/posts", Operations: []domain.Operation{
				{Method: "GET", Responses: ok(&domain.Schema{Type: "object", Properties: []domain.Property{prop("data", &domain.Schema{Type: "array", Items: item})}})},
				{Method: "POST"},
			}},
		},
	}

	post := ExtractEntities(doc, nil)[0]

	assert.Equal(t, []string{"id", "slug", "title"}, fieldNames(post.Fields), "envelope is unwrapped")
	assert.Equal(t, []string{"title"}, fieldNames(post.CreateFields))
	assert.Empty(t, post.UpdateFields)
	assert.False(t, post.Operation(domain.RoleCreate).HasInput)
}

func TestExtractEntitiesGetOnly(t *testing.T) {
	doc := &domain.OpenAPIDocument{
		Paths: []domain.Path{{
			Path:       "/settings/{key}",
			Operations: []domain.Operation{{Method: "GET", Responses: ok(object([]string{"value"}, prop("value", str(""))))}},
		}},
	}

	setting := ExtractEntities(doc, nil)[0]

	assert.Equal(t, "setting", setting.Name)
	assert.Equal(t, "/settings", setting.Path)
	assert.Equal(t, []string{"value"}, fieldNames(setting.Fields))
}

func TestExtractEntitiesCustomOperations(t *testing.T) {
	doc := &domain.OpenAPIDocument{
		Paths: []domain.Path{
			{Path: "/orders", Operations: []domain.Operation{
				{Method: "GET", Tags: []string{"Sales"}},
				{Method: "DELETE", OperationID: "purge_orders"},
			}},
			{Path: "/orders/{id}", Operations: []domain.Operation{
				{Method: "PUT"},
				{Method: "PATCH"},
			}},
			{Path: "/orders/{id}/cancel", Operations: []domain.Operation{
				{Method: "POST", Tags: []string{"Fulfilment"}},
			}},
		},
	}

	entities := ExtractEntities(doc, nil)
	require.Len(t, entities, 1, "action sub-path folds into its parent")

	order := entities[0]
	assert.Equal(t, "update", string(order.Operation(domain.RoleUpdate).Role))
	assert.Equal(t, "PUT", order.Operation(domain.RoleUpdate).Method)

	var names []string
	for _, op := range order.CustomOperations() {
		names = append(names, op.Name)
	}
	assert.Equal(t, []string{"purgeOrders", "patchOrders", "postOrdersCancel"}, names)
	assert.Equal(t, []string{"Sales", "Fulfilment"}, order.Tags)
}

func TestExtractEntitiesBodySchemaOverride(t *testing.T) {
	doc := usersDoc()
	doc.Components = map[string]*domain.Schema{
		"UserInvite": object([]string{"email"}, prop("email", str("email")), prop("role", &domain.Schema{Type: "string", Enum: []string{"admin", "user"}})),
	}

	cfg := &CrudDetectionConfig{BodySchemas: map[string]string{"user.create": "UserInvite"}}
	user := ExtractEntities(doc, cfg)[0]

	assert.Equal(t, []string{"email", "role"}, fieldNames(user.CreateFields))
	assert.Equal(t, "UserInvite", user.Operation(domain.RoleCreate).BodySchema)
	assert.Equal(t, []string{"email", "name"}, fieldNames(user.UpdateFields))
}

func TestExtractEntitiesContentTypeFallback(t *testing.T) {
	doc := &domain.OpenAPIDocument{
		Paths: []domain.Path{{
			Path: "/files",
			Operations: []domain.Operation{{
				Method: "GET",
				Responses: []domain.Response{{
					StatusCode: "200",
					Content: []domain.MediaType{
						{ContentType: "application/xml", Schema: &domain.Schema{Type: "array", Items: object(nil, prop("xml", str("")))}},
						{ContentType: "application/json", Schema: &domain.Schema{Type: "array", Items: object(nil, prop("json", str("")))}},
					},
				}},
			}},
		}},
	}

	assert.Equal(t, []string{"json"}, fieldNames(ExtractEntities(doc, nil)[0].Fields))

	xmlFirst := &CrudDetectionConfig{ContentTypes: []string{"application/xml"}}
	assert.Equal(t, []string{"xml"}, fieldNames(ExtractEntities(doc, xmlFirst)[0].Fields))
}

func TestExtractEntitiesAllOfAndArrays(t *testing.T) {
	base := object([]string{"id"}, prop("id", str("uuid")))
	doc := &domain.OpenAPIDocument{
		Paths: []domain.Path{{
			Path: "/teams",
			Operations: []domain.Operation{{
				Method: "GET",
				Responses: ok(&domain.Schema{Type: "array", Items: &domain.Schema{AllOf: []*domain.Schema{
					base,
					object([]string{"members"},
						prop("members", &domain.Schema{Type: "array", Items: str("uuid")}),
						prop("owner", &domain.Schema{AllOf: []*domain.Schema{str("email")}, Nullable: true}),
						prop("lead", &domain.Schema{Ref: "#/components/schemas/Missing"}),
					),
				}}}),
			}},
		}},
	}

	team := ExtractEntities(doc, nil)[0]
	require.Equal(t, []string{"id", "members", "owner", "lead"}, fieldNames(team.Fields))

	members := team.Fields[1]
	assert.Equal(t, domain.TypeArray, members.Type)
	assert.True(t, members.Required)
	assert.Equal(t, domain.TypeString, members.ItemsType)
	require.NotNil(t, members.Items)
	assert.Equal(t, "uuid", members.Items.Format)

	owner := team.Fields[2]
	assert.Equal(t, "email", owner.Format)
	assert.True(t, owner.Nullable)

	assert.Equal(t, domain.TypeObject, team.Fields[3].Type, "unresolved refs surface as opaque objects")
}

func TestExtractEntitiesSkipsUnrecognisedPaths(t *testing.T) {
	doc := &domain.OpenAPIDocument{
		Paths: []domain.Path{
			{Path: "/", Operations: []domain.Operation{{Method: "GET"}}},
			{Path: "/{tenant}", Operations: []domain.Operation{{Method: "GET"}}},
			{Path: "/empty"},
		},
	}

	assert.Empty(t, ExtractEntities(doc, nil))
	assert.Nil(t, ExtractEntities(nil, nil))
}

func TestExtractEntitiesDeterministic(t *testing.T) {
	doc := usersDoc()

	first, err := json.Marshal(ExtractEntities(doc, nil))
	require.NoError(t, err)
	second, err := json.Marshal(ExtractEntities(doc, nil))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, ExtractEntities(doc, nil), ExtractEntities(doc, nil))
}

func TestNaming(t *testing.T) {
	tests := []struct {
		segment, name, pascal, plural string
	}{
		{"users", "user", "User", "users"},
		{"categories", "category", "Category", "categories"},
		{"addresses", "address", "Address", "addresses"},
		{"boxes", "box", "Box", "boxes"},
		{"user-groups", "usergroup", "UserGroup", "userGroups"},
		{"api_keys", "apikey", "ApiKey", "apiKeys"},
		{"people", "person", "Person", "people"},
		{"status", "status", "Status", "status"},
		{"statuses", "status", "Status", "statuses"},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			n := entityNames(tt.segment)
			assert.Equal(t, tt.name, n.name)
			assert.Equal(t, tt.pascal, n.pascal)
			assert.Equal(t, tt.plural, n.plural)
		})
	}
}

func listPath(path string, schema *domain.Schema) domain.Path {
	return domain.Path{
		Path: path,
		Operations: []domain.Operation{
			{Method: "GET", Responses: ok(&domain.Schema{Type: "array", Items: schema})},
		},
	}
}

func TestExtractEntitiesNestedNameClash(t *testing.T) {
	task := object([]string{"id"}, prop("id", str("uuid")), prop("title", str("")))
	projectTask := object([]string{"id"}, prop("id", str("uuid")), prop("dueAt", str("date-time")))

	doc := &domain.OpenAPIDocument{
		Paths: []domain.Path{
			listPath("/projects", object(nil, prop("id", str("uuid")))),
			listPath("/tasks", task),
			listPath("/projects/{projectId}/tasks", projectTask),
			{
				Path: "/projects/{projectId}/tasks/{taskId}",
				Operations: []domain.Operation{
					{Method: "DELETE"},
				},
			},
		},
	}

	entities := ExtractEntities(doc, nil)
	require.Len(t, entities, 3)

	assert.Equal(t, "project", entities[0].Name)

	assert.Equal(t, "task", entities[1].Name)
	assert.Equal(t, "listTasks", entities[1].Operations[0].Name)
	assert.Equal(t, "title", entities[1].Fields[1].Name)

	nested := entities[2]
	assert.Equal(t, "projecttask", nested.Name)
	assert.Equal(t, "ProjectTask", nested.PascalName)
	assert.Equal(t, "projectTasks", nested.PluralName)
	assert.Equal(t, "/projects/{projectId}/tasks", nested.Path)
	require.Len(t, nested.Operations, 2)
	assert.Equal(t, "listProjectTasks", nested.Operations[0].Name)
	assert.Equal(t, "deleteProjectTask", nested.Operations[1].Name)
	assert.Equal(t, "dueAt", nested.Fields[1].Name)
}

func TestExtractEntitiesNameClashSuffix(t *testing.T) {
	item := object(nil, prop("id", str("uuid")))

	doc := &domain.OpenAPIDocument{
		Paths: []domain.Path{
			listPath("/users/{userId}/notes", item),
			listPath("/teams/{teamId}/notes", item),
			listPath("/v2/notes", item),
			listPath("/notes", item),
		},
	}

	entities := ExtractEntities(doc, nil)
	require.Len(t, entities, 4)

	names := make([]string, len(entities))
	for i, e := range entities {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"usernote", "teamnote", "note", "note2"}, names)
	assert.Equal(t, "Note2", entities[3].PascalName)
	assert.Equal(t, "listNotes2", entities[3].Operations[0].Name)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "audit_logs", ToSnakeCase("auditLogs"))
	assert.Equal(t, "user_groups", ToSnakeCase("user-groups"))
	assert.Equal(t, "created_at", ToSnakeCase("createdAt"))
	assert.Equal(t, "users", ToSnakeCase("users"))
}
