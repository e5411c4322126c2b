// Package application contém os casos de uso de rate limit e limite de
// concorrência: Service.Decide(key) devolve allow/deny + retry-after e
// ConcurrencyService.Acquire aplica o timeout de espera por vaga.
//
// Depende apenas do pacote domain.
package application
