package model

import "strings"

// Resposta is the flat answer record the backend speaks. Exactly one of
// EscolhaID, Texto and AssinaturaBase64 is non-nil, according to Tipo.
// ImageURL is only ever set by the backend, on signature records it has
// already persisted.
type Resposta struct {
	PerguntaID       int          `json:"formulario_pergunta_id"`
	Tipo             TipoPergunta `json:"tipo_pergunta"`
	EscolhaID        *int         `json:"resposta_escolha_id"`
	Texto            *string      `json:"resposta_texto"`
	AssinaturaBase64 *string      `json:"assinatura_base64"`
	ImageURL         string       `json:"resposta_image_url,omitempty"`
	Anexos           []Anexo      `json:"anexos,omitempty"`
}

// Anexo is an attachment reference: either a remote http(s) URL or an
// inline base64 data URI.
type Anexo string

// Answer is the in-memory value of a single question, discriminated by
// question type. The wire shape is produced by form.Flatten.
type Answer interface {
	Tipo() TipoPergunta
	// Empty reports whether the answer fails its type's emptiness rule
	// and must block submission.
	Empty() bool
}

// TextAnswer holds a TEXTO free-text value.
type TextAnswer string

func (TextAnswer) Tipo() TipoPergunta { return TipoTexto }
func (a TextAnswer) Empty() bool      { return strings.TrimSpace(string(a)) == "" }

// SingleChoice holds the selected choice id of a UNICA question.
type SingleChoice int

func (SingleChoice) Tipo() TipoPergunta { return TipoUnica }
func (SingleChoice) Empty() bool        { return false }

// MultiChoice holds the selected choice ids of a MULTIPLA question.
// Order carries no meaning.
type MultiChoice []int

func (MultiChoice) Tipo() TipoPergunta { return TipoMultipla }
func (a MultiChoice) Empty() bool      { return len(a) == 0 }

// Signature holds an ASSINATURA image, either an inline data URI (before
// submission) or the backend's persisted image URL (after).
type Signature string

func (Signature) Tipo() TipoPergunta { return TipoAssinatura }
func (a Signature) Empty() bool      { return a == "" }

// AnswerMap keys in-memory answers by question id.
type AnswerMap map[int]Answer

// AnexoMap keys attachment lists by question id; slice order is display
// order only.
type AnexoMap map[int][]Anexo
