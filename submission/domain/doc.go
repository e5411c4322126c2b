// Package domain define o registro de submissão, a allow-list de origens e os
// contratos (Storage, Notifier) implementados pela camada infra.
//
// Não depende de net/http nem de drivers concretos.
package domain
