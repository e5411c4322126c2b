package domain

import (
	"encoding/json"
	"maps"
)

const (
	// TimestampField é injetado em todo registro antes da gravação.
	TimestampField = "timestamp"
	// InternalIDField é o identificador do documento no backend; nunca é
	// devolvido ao cliente.
	InternalIDField = "_id"

	// TimestampLayout é ISO-8601 em horário local com microssegundos.
	TimestampLayout = "2006-01-02T15:04:05.000000"

	// SummaryBanner é o assunto das notificações; o corpo é PrettyJSON.
	SummaryBanner = "New submission received:"
)

// Record é o conjunto plano de campos enviados pelo formulário ou JSON.
// Nenhum schema é aplicado.
type Record map[string]any

// Clone copia o primeiro nível do registro.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	return maps.Clone(r)
}

// PrettyJSON renderiza o registro com indentação de dois espaços.
func (r Record) PrettyJSON() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
