package submission

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime"
	"net/http"
	"strings"

	"formgate/submission/domain"
)

const (
	DefaultMaxBodyBytes = 10 << 20
	multipartMemory     = 8 << 20
)

// ParseBody converte o corpo em um registro plano, conforme o Content-Type.
// Os erros devolvidos são os sentinels de domain, todos 400.
func ParseBody(r *http.Request) (domain.Record, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return nil, domain.ErrContentTypeMissing
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, domain.ErrUnsupportedContentType
	}

	switch {
	case mediaType == "application/json":
		return parseJSON(r.Body)
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, domain.ErrInvalidFormData
		}
		return lastValues(r.PostForm), nil
	case strings.HasPrefix(mediaType, "multipart/form-data"):
		return parseMultipart(r)
	default:
		return nil, domain.ErrUnsupportedContentType
	}
}

func parseJSON(body io.Reader) (domain.Record, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, domain.ErrInvalidJSON
	}
	// lixo depois do documento também é JSON inválido
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, domain.ErrInvalidJSON
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, domain.ErrUnsupportedDataType
	}
	return domain.Record(normalizeNumbers(obj).(map[string]any)), nil
}

func parseMultipart(r *http.Request) (domain.Record, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, domain.ErrInvalidFormData
	}
	form := r.MultipartForm
	defer form.RemoveAll()

	rec := lastValues(form.Value)
	for name, files := range form.File {
		if len(files) > 0 {
			rec[name] = files[len(files)-1].Filename
		}
	}
	return rec, nil
}

// lastValues achata o formulário: chave repetida fica com o último valor.
func lastValues(values map[string][]string) domain.Record {
	rec := make(domain.Record, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			rec[k] = vs[len(vs)-1]
		}
	}
	return rec
}

// normalizeNumbers troca json.Number por int64 quando inteiro e dentro do
// intervalo, senão float64. Os backends não entendem json.Number.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil && !math.IsInf(f, 0) {
			return f
		}
		return t.String()
	default:
		return v
	}
}
