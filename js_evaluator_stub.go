//go:build !js_eval

package valuestore

// NewJSEvaluator is unavailable without the js_eval build tag.
func NewJSEvaluator(...JSEvaluatorOption) Evaluator {
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}

func jsEngineName(Evaluator) string {
	return ""
}
