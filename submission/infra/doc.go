// Package infra implementa os contratos de submission/domain.
//
// Persistência (Storage):
//   - FileStore: arquivo JSON no formato do TinyDB, uma tabela por nome
//   - MongoStore: coleção do MongoDB via go.mongodb.org/mongo-driver/v2
//
// Notificação (Notifier):
//   - ServiceNotifier: telegram, slack e discord via github.com/nikoksr/notify
//   - WebhookNotifier: POST do registro em JSON para uma URL
//
// OpenStorage e NewNotifier escolhem a implementação a partir da configuração.
package infra
