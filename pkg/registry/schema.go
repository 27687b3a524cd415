// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema,omitempty"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows,omitempty"`
	Tags                 []string               `json:"tags,omitempty"`
}

// signalSchema describes a typed product signal. Source is left open so an
// unknown marketplace scores with the default markup instead of failing.
func signalSchema() map[string]interface{} {
	return object(map[string]interface{}{
		"title":         str(),
		"price":         nonNegative(),
		"supplierPrice": nonNegative(),
		"rating":        map[string]interface{}{"type": "number", "minimum": 0, "maximum": 5},
		"reviewCount":   count(),
		"orderCount":    count(),
		"imageCount":    count(),
		"source":        str(),
	})
}

func listingSchema() map[string]interface{} {
	return object(map[string]interface{}{
		"title":         str(),
		"url":           str(),
		"price":         str(),
		"supplierPrice": str(),
		"rating":        str(),
		"reviews":       str(),
		"orders":        str(),
		"images":        map[string]interface{}{"type": "array", "items": str()},
		"source":        str(),
	})
}

func analysisSchema() map[string]interface{} {
	s := object(map[string]interface{}{
		"totalScore":    count(),
		"totalScoreRaw": map[string]interface{}{"type": "number"},
		"isWinner":      boolean(),
		"potential":     map[string]interface{}{"type": "string", "enum": []interface{}{"high", "medium", "low"}},
		"reasons":       map[string]interface{}{"type": "array", "items": str()},
		"warnings":      map[string]interface{}{"type": "array", "items": str()},
	})
	s["required"] = []interface{}{"totalScore", "isWinner", "potential"}
	return s
}

func productID() map[string]interface{} {
	return map[string]interface{}{"type": "string", "minLength": 1}
}

func object(props map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": props}
}

func str() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

func boolean() map[string]interface{} {
	return map[string]interface{}{"type": "boolean"}
}

func count() map[string]interface{} {
	return map[string]interface{}{"type": "integer", "minimum": 0}
}

func nonNegative() map[string]interface{} {
	return map[string]interface{}{"type": "number", "minimum": 0}
}
