package order

// ExtractionSchema is the JSON schema for material order extraction output.
var ExtractionSchema = map[string]any{
	"type": "json_schema",
	"json_schema": map[string]any{
		"name":   "material_order",
		"strict": true,
		"schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"material_name": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Concise but descriptive material name",
				},
				"quantity": map[string]any{
					"type":        []string{"number", "null"},
					"description": "Ordered quantity as a number (last stated value wins)",
				},
				"unit": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Unit of measure (bags, units, tons, truckloads)",
				},
				"project_name": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Project the order belongs to, if named",
				},
				"location": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Delivery site or location, if named",
				},
				"urgency": map[string]any{
					"type":        "string",
					"enum":        []string{"low", "medium", "high"},
					"description": "Urgency inferred from keywords or deadline",
				},
				"deadline": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Deadline as ISO date (YYYY-MM-DD), if stated",
				},
			},
			"required": []string{
				"material_name", "quantity", "unit", "project_name",
				"location", "urgency", "deadline",
			},
			"additionalProperties": false,
		},
	},
}
