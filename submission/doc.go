// Package submission é o adapter HTTP do endpoint POST /submit.
//
// Fluxo de uma requisição:
//
//  1. rate limit por cliente (middleware/ratelimit), 429 ao exceder
//  2. ParseBody: JSON, urlencoded ou multipart viram um domain.Record
//  3. origem: Referer ou Origin precisa começar com um prefixo da allow-list
//  4. application.Service: notificação best-effort, timestamp e gravação
//  5. resposta: redirect 302 (se ?redirect=) ou 200 com o registro gravado
//
// Erros de parse e de origem viram {"detail": ...}; falha de gravação vira
// 500 {"status": "error", "message": ...}.
package submission
