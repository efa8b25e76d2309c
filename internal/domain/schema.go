package domain

// SchemaType is the JSON type of a schema node.
type SchemaType string

const (
	SchemaObject SchemaType = "object"
	SchemaArray  SchemaType = "array"
	SchemaString SchemaType = "string"
)

// Schema is a backend-neutral description of a JSON shape. Adapters convert
// it to whatever the generation collaborator expects.
type Schema struct {
	Type             SchemaType         `json:"type"`
	Description      string             `json:"description,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"-"`
	Required         []string           `json:"required,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	MinItems         *int64             `json:"minItems,omitempty"`
	MaxItems         *int64             `json:"maxItems,omitempty"`
}

// PlanSchema describes PlanDocument, including the 8/8 cardinality.
func PlanSchema() *Schema {
	subGoals := int64(SubGoalCount)
	actions := int64(ActionCount)

	subGoal := &Schema{
		Type:     SchemaObject,
		Required: []string{"id", "title", "actions"},
		Properties: map[string]*Schema{
			"id":    {Type: SchemaString, Description: "short unique identifier, e.g. sg-1"},
			"title": {Type: SchemaString, Description: "sub-goal label, about 12-18 characters"},
			"actions": {
				Type:     SchemaArray,
				MinItems: &actions,
				MaxItems: &actions,
				Items:    &Schema{Type: SchemaString},
			},
		},
		PropertyOrdering: []string{"id", "title", "actions"},
	}

	return &Schema{
		Type:     SchemaObject,
		Required: []string{"mainGoal", "subGoals"},
		Properties: map[string]*Schema{
			"mainGoal": {Type: SchemaString},
			"subGoals": {
				Type:     SchemaArray,
				MinItems: &subGoals,
				MaxItems: &subGoals,
				Items:    subGoal,
			},
		},
		PropertyOrdering: []string{"mainGoal", "subGoals"},
	}
}
