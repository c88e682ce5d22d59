package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "recipe_matcher_http_requests_total"
	MetricNameHTTPRequestDuration  = "recipe_matcher_http_request_duration_seconds"
	MetricNameRecipesEvaluated     = "recipe_matcher_recipes_evaluated_total"
	MetricNameIngredientUnresolved = "recipe_matcher_ingredient_unresolved_total"
	MetricNameQueryResults         = "recipe_matcher_query_results"
	MetricNameHighlightsReturned   = "recipe_matcher_highlights_returned"
	MetricNameCorpusSkipped        = "recipe_matcher_recipe_corpus_skipped_total"
	MetricNameCatalogDriftUpdates  = "recipe_matcher_catalog_drift_updates_total"
	MetricNameCartOperations       = "recipe_matcher_cart_operations_total"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextRecipesEvaluated     = "Total number of recipe evaluations"
	HelpTextIngredientUnresolved = "Total number of ingredient tokens without a catalog match"
	HelpTextQueryResults         = "Number of recipes returned per query"
	HelpTextHighlightsReturned   = "Number of highlights returned per request"
	HelpTextCorpusSkipped        = "Total number of malformed corpus entries skipped"
	HelpTextCatalogDriftUpdates  = "Total number of catalog items changed by the drift simulator"
	HelpTextCartOperations       = "Total number of cart operations"
)

// Labels
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelStrategy  = "strategy"
	LabelOperation = "operation"
)

// Buckets
var (
	HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
	ResultCountBuckets = []float64{0, 1, 2, 4, 8, 12, 24}
)
