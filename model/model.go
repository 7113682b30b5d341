package model

import "time"

// Ordem is a read-only snapshot of a service order as returned by the
// backend. The client never mutates it.
type Ordem struct {
	ID          int        `json:"ordem_id"`
	NomeCliente string     `json:"ordem_nome_cliente"`
	Endereco    string     `json:"ordem_endereco"`
	Cidade      string     `json:"ordem_cidade"`
	Estado      string     `json:"ordem_estado"`
	CEP         string     `json:"ordem_cep"`
	Data        time.Time  `json:"ordem_data"`
	Concluida   bool       `json:"ordem_concluida"`
	ConcluidaEm *time.Time `json:"ordem_concluida_em,omitempty"`
}

// CompletedAt is the reference instant for the edit window. Older
// backends only populate ordem_data, so fall back to it.
func (o Ordem) CompletedAt() time.Time {
	if o.ConcluidaEm != nil {
		return *o.ConcluidaEm
	}
	return o.Data
}

// Formulario is the dynamic questionnaire attached to an order.
type Formulario struct {
	OrdemID   int        `json:"ordem_id,omitempty"`
	Perguntas []Pergunta `json:"perguntas"`
}

// Pergunta returns the question with the given id, or nil.
func (f Formulario) Pergunta(id int) *Pergunta {
	for i := range f.Perguntas {
		if f.Perguntas[i].ID == id {
			return &f.Perguntas[i]
		}
	}
	return nil
}

type Pergunta struct {
	ID       int          `json:"formulario_pergunta_id"`
	Indice   int          `json:"pergunta_indice"`
	Titulo   string       `json:"pergunta_titulo"`
	Tipo     TipoPergunta `json:"pergunta_type_id"`
	Escolhas []Escolha    `json:"respostaEscolha,omitempty"`
}

// Escolha returns the choice with the given id, or nil.
func (p Pergunta) Escolha(id int) *Escolha {
	for i := range p.Escolhas {
		if p.Escolhas[i].ID == id {
			return &p.Escolhas[i]
		}
	}
	return nil
}

type Escolha struct {
	ID    int    `json:"resposta_escolha_id"`
	Label string `json:"resposta_label"`
}

type TipoPergunta string

const (
	TipoTexto      TipoPergunta = "TEXTO"
	TipoMultipla   TipoPergunta = "MULTIPLA"
	TipoUnica      TipoPergunta = "UNICA"
	TipoAssinatura TipoPergunta = "ASSINATURA"
)

// Envio couples the order snapshot with its submitted answer records,
// as echoed by the submission and final-answers endpoints.
type Envio struct {
	Ordem     Ordem      `json:"ordem"`
	Respostas []Resposta `json:"respostas"`
}
