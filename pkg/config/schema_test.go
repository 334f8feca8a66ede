package config

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_IsValidJSON(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(Schema(), &v))
	assert.Equal(t, "object", v["type"])

	_, err := handlerSchema()
	require.NoError(t, err)
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
		field   string
	}{
		{
			name: "minimal",
			doc:  `{"handlers": [{"url": "/a", "responses": []}]}`,
		},
		{
			name: "generator only",
			doc:  `{"handlers": [{"glob": "/a/**", "generator": {"count": 1, "name": "\"x\"", "data": "1"}}]}`,
		},
		{
			name:    "missing handlers",
			doc:     `{"options": {}}`,
			wantErr: true,
		},
		{
			name:    "two patterns",
			doc:     `{"handlers": [{"url": "/a", "regex": "^/a$", "responses": []}]}`,
			wantErr: true,
			field:   "handlers.0",
		},
		{
			name:    "no response source",
			doc:     `{"handlers": [{"url": "/a"}]}`,
			wantErr: true,
			field:   "handlers.0",
		},
		{
			name:    "response without name",
			doc:     `{"handlers": [{"url": "/a", "responses": [{"data": 1}]}]}`,
			wantErr: true,
			field:   "handlers.0.responses.0",
		},
		{
			name:    "unknown field",
			doc:     `{"handlers": [{"url": "/a", "responses": [], "method": "GET"}]}`,
			wantErr: true,
			field:   "handlers.0",
		},
		{
			name:    "bad duration",
			doc:     `{"options": {"replayInterval": "fast"}, "handlers": []}`,
			wantErr: true,
			field:   "options.replayInterval",
		},
		{
			name:    "zero generator count",
			doc:     `{"handlers": [{"url": "/a", "generator": {"count": 0, "name": "\"x\"", "data": "1"}}]}`,
			wantErr: true,
			field:   "handlers.0.generator.count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &doc))

			err := ValidateDocument(doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)

			if tt.field != "" {
				var serr *SchemaError
				require.True(t, errors.As(err, &serr))
				fields := make([]string, 0, len(serr.Errors))
				for _, fe := range serr.Errors {
					fields = append(fields, fe.Field)
				}
				assert.Contains(t, fields, tt.field)
			}
		})
	}
}

func TestFieldFromPointer(t *testing.T) {
	assert.Equal(t, "", fieldFromPointer(""))
	assert.Equal(t, "", fieldFromPointer("/"))
	assert.Equal(t, "handlers.0.url", fieldFromPointer("/handlers/0/url"))
}
