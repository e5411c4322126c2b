package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Rate é uma cota do tipo "N requisições por janela", no formato usado em
// variáveis de ambiente como RATELIMIT=5/minute.
type Rate struct {
	Count  int
	Amount int
	Unit   string
	Period time.Duration
}

var ErrInvalidRate = errors.New("invalid rate expression")

// aceita "5/minute", "5 / minutes", "10 per hour", "100 per 5 minutes", "30/2 seconds"
var rateExpr = regexp.MustCompile(`^(\d+)\s*(?:/|per)\s*(\d+)?\s*(second|minute|hour|day|month|year)s?$`)

var rateUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// ParseRate interpreta uma expressão de cota. Apenas uma cota por expressão.
func ParseRate(expr string) (Rate, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	m := rateExpr.FindStringSubmatch(s)
	if m == nil {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, expr)
	}

	count, err := strconv.Atoi(m[1])
	if err != nil || count <= 0 {
		return Rate{}, fmt.Errorf("%w: count must be > 0 in %q", ErrInvalidRate, expr)
	}
	amount := 1
	if m[2] != "" {
		amount, err = strconv.Atoi(m[2])
		if err != nil || amount <= 0 {
			return Rate{}, fmt.Errorf("%w: window must be > 0 in %q", ErrInvalidRate, expr)
		}
	}

	unit := rateUnits[m[3]]
	if int64(amount) > math.MaxInt64/int64(unit) {
		return Rate{}, fmt.Errorf("%w: window too large in %q", ErrInvalidRate, expr)
	}

	return Rate{
		Count:  count,
		Amount: amount,
		Unit:   m[3],
		Period: time.Duration(amount) * unit,
	}, nil
}

// RPS é a taxa de reposição do token bucket equivalente à cota.
func (r Rate) RPS() float64 {
	if r.Period <= 0 {
		return 0
	}
	return float64(r.Count) / r.Period.Seconds()
}

// Burst permite consumir a cota inteira de uma vez, como numa janela fixa.
func (r Rate) Burst() int { return r.Count }

// RetryAfter é o tempo para repor um token.
func (r Rate) RetryAfter() time.Duration {
	if r.Count <= 0 {
		return 0
	}
	return r.Period / time.Duration(r.Count)
}

func (r Rate) String() string {
	return fmt.Sprintf("%d per %d %s", r.Count, r.Amount, r.Unit)
}
