// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validScholarshipDocument() map[string]interface{} {
	return map[string]interface{}{
		"scholarshipName":     "Global Excellence Scholarship",
		"universityName":      "Harvard University",
		"scholarshipCategory": "Full fund",
		"degree":              "Masters",
		"applicationFees":     50,
		"serviceCharge":       10,
	}
}

func TestValidateInput_ReviewSchema(t *testing.T) {
	schema := ReviewInputSchema()

	result := ValidateInput(map[string]interface{}{
		"scholarshipId": "sch-1",
		"rating":        5,
		"comment":       "Straightforward process.",
	}, schema)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateInput_ReviewSchemaViolations(t *testing.T) {
	schema := ReviewInputSchema()

	tests := []struct {
		name      string
		input     map[string]interface{}
		wantField string
	}{
		{
			name:      "missing comment",
			input:     map[string]interface{}{"scholarshipId": "sch-1", "rating": 4},
			wantField: "comment",
		},
		{
			name:      "rating above maximum",
			input:     map[string]interface{}{"scholarshipId": "sch-1", "rating": 9, "comment": "x"},
			wantField: "rating",
		},
		{
			name:      "rating below minimum",
			input:     map[string]interface{}{"scholarshipId": "sch-1", "rating": 0, "comment": "x"},
			wantField: "rating",
		},
		{
			name:      "rating wrong type",
			input:     map[string]interface{}{"scholarshipId": "sch-1", "rating": "five", "comment": "x"},
			wantField: "rating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, schema)
			require.False(t, result.Valid)

			found := false
			for _, e := range result.Errors {
				if e.Field == tt.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected an error on field %q, got %v", tt.wantField, result.Errors)
		})
	}
}

func TestValidateScholarshipDocument_Valid(t *testing.T) {
	assert.NoError(t, ValidateScholarshipDocument(validScholarshipDocument()))
}

func TestValidateScholarshipDocument_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]interface{})
	}{
		{
			name:   "missing scholarship name",
			mutate: func(doc map[string]interface{}) { delete(doc, "scholarshipName") },
		},
		{
			name:   "unknown category",
			mutate: func(doc map[string]interface{}) { doc["scholarshipCategory"] = "Mega fund" },
		},
		{
			name:   "negative fees",
			mutate: func(doc map[string]interface{}) { doc["applicationFees"] = -5 },
		},
		{
			name:   "fees as string",
			mutate: func(doc map[string]interface{}) { doc["applicationFees"] = "50" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validScholarshipDocument()
			tt.mutate(doc)
			assert.Error(t, ValidateScholarshipDocument(doc))
		})
	}
}
