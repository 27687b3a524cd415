// pkg/registry/defaults.go
package registry

const (
	TaskScoreProduct         = "score-product"
	TaskScreenProducts       = "screen-products"
	TaskEstimatePrice        = "estimate-price"
	TaskSaveProductAnalysis  = "save-product-analysis"
	TaskIndexTrendingProduct = "index-trending-product"
	TaskNotifyWinner         = "notify-winner"
)

// Default returns the built-in activity registry for the product workers.
// Each call returns a fresh copy.
func Default() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2026-10-01",
		Activities: []Activity{
			{
				ID:                   "product.score",
				DisplayName:          "Score Product",
				Description:          "Scores a product signal or raw listing and returns its winning-product analysis",
				Category:             "products",
				Version:              "1.0.0",
				TaskType:             TaskScoreProduct,
				ImplementationStatus: "implemented",
				InputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"productId": str(),
						"signal":    signalSchema(),
						"listing":   listingSchema(),
						"skipCache": boolean(),
					},
					"anyOf": []interface{}{
						map[string]interface{}{"required": []interface{}{"signal"}},
						map[string]interface{}{"required": []interface{}{"listing"}},
					},
				},
				ErrorCodes: []string{"INVALID_PRODUCT_SIGNAL"},
				Timeout:    "10s",
				Retries:    2,
				Workflows:  []string{"product-import", "product-rescore"},
				Tags:       []string{"scoring"},
			},
			{
				ID:                   "product.screen",
				DisplayName:          "Screen Products",
				Description:          "Scores a batch of products and ranks them by total score",
				Category:             "products",
				Version:              "1.0.0",
				TaskType:             TaskScreenProducts,
				ImplementationStatus: "implemented",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"products"},
					"properties": map[string]interface{}{
						"products":      map[string]interface{}{"type": "array", "items": signalSchema()},
						"applyCriteria": boolean(),
						"concurrency":   map[string]interface{}{"type": "integer", "minimum": 1},
					},
				},
				ErrorCodes: []string{"INVALID_PRODUCT_SIGNAL"},
				Timeout:    "30s",
				Retries:    1,
				Workflows:  []string{"supplier-scan"},
				Tags:       []string{"scoring", "batch"},
			},
			{
				ID:                   "product.estimate-price",
				DisplayName:          "Estimate Price",
				Description:          "Suggests a charm-priced resale price from a supplier price",
				Category:             "products",
				Version:              "1.0.0",
				TaskType:             TaskEstimatePrice,
				ImplementationStatus: "implemented",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"supplierPrice"},
					"properties": map[string]interface{}{
						"supplierPrice": nonNegative(),
						"source":        str(),
						"price":         nonNegative(),
					},
				},
				ErrorCodes: []string{"INVALID_PRODUCT_SIGNAL"},
				Timeout:    "5s",
				Retries:    1,
				Workflows:  []string{"product-import"},
				Tags:       []string{"pricing"},
			},
			{
				ID:                   "product.save-analysis",
				DisplayName:          "Save Product Analysis",
				Description:          "Stores a product's viral score, potential and reasons",
				Category:             "products",
				Version:              "1.0.0",
				TaskType:             TaskSaveProductAnalysis,
				ImplementationStatus: "implemented",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"productId", "analysis"},
					"properties": map[string]interface{}{
						"productId": productID(),
						"analysis":  analysisSchema(),
					},
				},
				ErrorCodes: []string{"PRODUCT_NOT_FOUND", "ANALYSIS_PERSIST_FAILED"},
				Timeout:    "10s",
				Retries:    3,
				Workflows:  []string{"product-import", "product-rescore"},
				Tags:       []string{"storage"},
			},
			{
				ID:                   "product.index-trending",
				DisplayName:          "Index Trending Product",
				Description:          "Adds a scored product to the trending products search index",
				Category:             "products",
				Version:              "1.0.0",
				TaskType:             TaskIndexTrendingProduct,
				ImplementationStatus: "implemented",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"productId", "analysis"},
					"properties": map[string]interface{}{
						"productId": productID(),
						"analysis":  analysisSchema(),
						"product":   signalSchema(),
						"url":       str(),
						"force":     boolean(),
					},
				},
				ErrorCodes: []string{"SEARCH_INDEX_FAILED"},
				Timeout:    "10s",
				Retries:    3,
				Workflows:  []string{"product-import"},
				Tags:       []string{"search"},
			},
			{
				ID:                   "product.notify-winner",
				DisplayName:          "Notify Winner",
				Description:          "Announces winning products over SNS and optionally SES",
				Category:             "products",
				Version:              "1.0.0",
				TaskType:             TaskNotifyWinner,
				ImplementationStatus: "implemented",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"productId", "analysis"},
					"properties": map[string]interface{}{
						"productId": productID(),
						"analysis":  analysisSchema(),
						"product":   signalSchema(),
						"url":       str(),
					},
				},
				ErrorCodes: []string{"NOTIFICATION_SEND_FAILED"},
				Timeout:    "15s",
				Retries:    3,
				Workflows:  []string{"product-import"},
				Tags:       []string{"notification"},
			},
		},
	}
}
