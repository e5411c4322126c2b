// Formatação de valores numéricos para headers de rate limit.

package ratelimit

import "strconv"

func formatInt(v int) string { return strconv.Itoa(v) }

// sem notação científica para valores comuns (ex: 0.0833 req/s para 5/minute)
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
