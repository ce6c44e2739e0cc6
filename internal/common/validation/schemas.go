package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ReviewInputSchema validates the review form before it is posted.
func ReviewInputSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"scholarshipId", "rating", "comment"},
		Properties: map[string]Property{
			"scholarshipId": {
				Type:        "string",
				Description: "Scholarship identifier",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(64),
			},
			"rating": {
				Type:        "integer",
				Description: "Star rating",
				Minimum:     floatPtr(1),
				Maximum:     floatPtr(5),
			},
			"comment": {
				Type:        "string",
				Description: "Review text",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(2000),
			},
			"universityName": {
				Type:        "string",
				Description: "University the review refers to",
				MaxLength:   intPtr(255),
			},
		},
		AdditionalProperties: false,
	}
}

// scholarshipDocumentSchema is the published shape for admin create/edit.
var scholarshipDocumentSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"scholarshipName", "universityName", "scholarshipCategory", "degree", "applicationFees", "serviceCharge"},
	"properties": map[string]interface{}{
		"scholarshipName":     map[string]interface{}{"type": "string", "minLength": 1},
		"universityName":      map[string]interface{}{"type": "string", "minLength": 1},
		"universityImage":     map[string]interface{}{"type": "string"},
		"universityCountry":   map[string]interface{}{"type": "string"},
		"universityCity":      map[string]interface{}{"type": "string"},
		"scholarshipCategory": map[string]interface{}{"type": "string", "enum": []interface{}{"Full fund", "Partial", "Self-fund"}},
		"subjectCategory":     map[string]interface{}{"type": "string"},
		"degree":              map[string]interface{}{"type": "string", "minLength": 1},
		"applicationFees":     map[string]interface{}{"type": "integer", "minimum": 0},
		"serviceCharge":       map[string]interface{}{"type": "integer", "minimum": 0},
		"deadline":            map[string]interface{}{"type": "string"},
		"postedUserEmail":     map[string]interface{}{"type": "string"},
	},
}

// ValidateScholarshipDocument checks an admin create/edit payload against the
// published scholarship schema and returns a readable error summary.
func ValidateScholarshipDocument(doc map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(scholarshipDocumentSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("scholarship document invalid: %s", strings.Join(msgs, "; "))
}
