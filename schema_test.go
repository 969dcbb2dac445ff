package eventkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidate(t *testing.T) {

	testcases := []struct {
		name       string
		schema     Schema
		wantErrors []string
	}{
		{
			name: "valid schema passes",
			schema: Schema{
				"pathParameters": Group{
					"id": Field{Label: "id", Required: true, Type: TypeString},
				},
				"body": Group{
					"email": Field{Label: "email", Type: TypeString},
					"profile": Group{
						"age": Field{Label: "age", Type: TypeNumber},
					},
				},
			},
		},
		{
			name: "field without a label is rejected",
			schema: Schema{
				"body": Group{
					"email": Field{},
				},
			},
			wantErrors: []string{`schema path "body.email": field has no label`},
		},
		{
			name: "unknown type name is rejected",
			schema: Schema{
				"body": Group{
					"age": Field{Label: "age", Type: "integer"},
				},
			},
			wantErrors: []string{`schema path "body.age": unknown type "integer"`},
		},
		{
			name: "duplicate leaf keys are rejected",
			schema: Schema{
				"body": Group{
					"id": Field{Label: "body id"},
				},
				"pathParameters": Group{
					"id": Field{Label: "path id"},
				},
			},
			wantErrors: []string{`schema path "pathParameters.id": leaf key "id" already used at "body.id"`},
		},
		{
			name: "duplicate leaf keys in nested groups are rejected",
			schema: Schema{
				"body": Group{
					"user": Group{
						"name": Field{Label: "user name"},
					},
					"team": Group{
						"name": Field{Label: "team name"},
					},
				},
			},
			wantErrors: []string{`schema path "body.user.name": leaf key "name" already used at "body.team.name"`},
		},
		{
			name: "nil node is rejected",
			schema: Schema{
				"body": Group{
					"email": nil,
				},
			},
			wantErrors: []string{`schema path "body.email": nil node`},
		},
		{
			name: "nil field pointer is rejected",
			schema: Schema{
				"pathParameters": Group{
					"id": (*Field)(nil),
				},
			},
			wantErrors: []string{`schema path "pathParameters.id": nil node`},
		},
		{
			name: "all problems are reported together",
			schema: Schema{
				"body": Group{
					"email": Field{},
					"age":   Field{Label: "age", Type: "integer"},
				},
			},
			wantErrors: []string{
				`schema path "body.age": unknown type "integer"`,
				`schema path "body.email": field has no label`,
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.schema.Validate()
			if len(tc.wantErrors) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tc.wantErrors {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}

func TestSchemaValidate_PointerFields(t *testing.T) {
	shared := &Field{Label: "id", Required: true}
	schema := Schema{
		"pathParameters": Group{
			"id": shared,
		},
	}
	assert.NoError(t, schema.Validate())

	values, err := Extract(schema, map[string]any{"pathParameters": map[string]any{"id": "7"}})
	require.NoError(t, err)
	assert.Equal(t, "7", values["id"])
}
