package domain

import "strings"

// AllowList é a lista ordenada de prefixos de origem confiáveis.
//
// A comparação é por prefixo de string: "https://good.com" também aceita
// "https://good.com.evil.com". Não é uma fronteira de segurança.
type AllowList []string

// ParseAllowList separa uma lista por vírgulas, descartando itens vazios.
func ParseAllowList(csv string) AllowList {
	var out AllowList
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Allows informa se Referer ou Origin começa com algum prefixo da lista.
// String vazia significa header ausente.
func (l AllowList) Allows(referer, origin string) bool {
	for _, prefix := range l {
		if referer != "" && strings.HasPrefix(referer, prefix) {
			return true
		}
		if origin != "" && strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}
