// Package application orquestra uma submissão: notificação best-effort,
// timestamp e gravação no Storage configurado.
//
// Depende apenas do pacote domain; HTTP fica no pacote submission.
package application
