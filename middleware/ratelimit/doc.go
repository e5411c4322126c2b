// Package ratelimit fornece adapters HTTP (net/http) para rate limit e limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos, tipos e a cota (Rate) sem dependência de net/http
//   - application: casos de uso (decisão allow/deny, acquire/timeout) sem net/http
//   - infra: implementações concretas (token bucket, semáforo, estatísticas em Redis/memória)
//   - ratelimit (este pacote): middlewares HTTP + extração de chave + tradução para status/headers
//
// Fluxo no endpoint de submissão:
//
//  1. Extrai a chave do cliente (IP/header/XFF)
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, responde 429 com {"detail": ...} (rate limit) ou 503 (concorrência)
//  4. Se permitido, chama o próximo handler (parser, origem, persistência)
//
// A cota vem de RATELIMIT (ex: "5/minute"), convertida por domain.ParseRate em
// taxa e burst do token bucket.
package ratelimit
