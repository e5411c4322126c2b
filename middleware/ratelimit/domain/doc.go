// Package domain define contratos e tipos para rate limit e concorrência,
// incluindo a cota configurável (Rate) e os eventos de estatística.
//
// Não depende de net/http nem de implementações concretas, o que mantém os
// testes de unidade puros.
package domain
