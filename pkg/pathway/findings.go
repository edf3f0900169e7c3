package pathway

import "fmt"

// Category classifies a validation finding.
type Category string

// Validation categories. Findings are returned from validation passes,
// never raised; the caller decides whether to accept, repair, or reject.
const (
	CategoryMissingFields     Category = "missing_fields"
	CategoryMissingDataFields Category = "missing_data_fields"
	CategoryInvalidConnection Category = "invalid_connection"
	CategoryMissingStart      Category = "missing_start"
	CategoryMultipleStarts    Category = "multiple_starts"
	CategoryMissingEnd        Category = "missing_end"
	CategoryIsolatedNode      Category = "isolated_node"
	CategoryCircularReference Category = "circular_reference"
	CategoryInvalidFlow       Category = "invalid_flow"
)

// ValidationError is a single validation finding. NodeID and EdgeID are set
// when the finding is attributable to a specific node or edge.
type ValidationError struct {
	Category Category `json:"category" bson:"category"`
	Message  string   `json:"message" bson:"message"`
	NodeID   string   `json:"node_id,omitempty" bson:"node_id,omitempty"`
	EdgeID   string   `json:"edge_id,omitempty" bson:"edge_id,omitempty"`
}

// Error implements the error interface so findings can be logged uniformly.
func (v ValidationError) Error() string {
	switch {
	case v.NodeID != "":
		return fmt.Sprintf("%s: %s (node %s)", v.Category, v.Message, v.NodeID)
	case v.EdgeID != "":
		return fmt.Sprintf("%s: %s (edge %s)", v.Category, v.Message, v.EdgeID)
	}
	return fmt.Sprintf("%s: %s", v.Category, v.Message)
}
