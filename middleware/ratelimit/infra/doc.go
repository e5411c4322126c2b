// Package infra implementa os contratos de domain.
//
// Store guarda um token bucket (golang.org/x/time/rate) por cliente, criado a
// partir de uma domain.Rate. ChanPool limita requisições simultâneas.
// RedisStatsStore e MemoryStatsStore contam as decisões do limiter.
package infra
