// Package form converts between the in-memory answer map of a
// questionnaire and the flat answer records the backend expects, and
// hosts the submission-side policies: answer validation, the 24-hour
// edit window and attachment normalization.
package form

import (
	"github.com/LRM-Solutions/fortelyne-app-checklist/log"
	"github.com/LRM-Solutions/fortelyne-app-checklist/model"
)

// Mode selects between the first submission of a form and an amendment
// of already persisted answers.
type Mode int

const (
	// Create flattens every answer; callers are expected to run
	// Validate first, so every question has a non-empty answer.
	Create Mode = iota
	// Edit omits absent answers and excludes signatures entirely:
	// signatures are immutable after first submission.
	Edit
)

// Flatten converts an answer map plus its attachments into the flat
// record list of the submission payload, in schema order.
//
// MULTIPLA answers fan out into one record per selected choice, each
// carrying the question's full attachment list. Answer-map keys that
// reference no schema question are skipped, matching backend behavior
// for questions removed from a schema after answers were recorded.
func Flatten(answers model.AnswerMap, anexos model.AnexoMap, f model.Formulario, mode Mode) []model.Resposta {
	for id := range answers {
		if f.Pergunta(id) == nil {
			log.Debugf("form.flatten: answer for unknown pergunta %d skipped", id)
		}
	}

	var out []model.Resposta
	for _, p := range f.Perguntas {
		a, ok := answers[p.ID]
		if !ok {
			continue
		}

		switch a := a.(type) {
		case model.TextAnswer:
			texto := string(a)
			out = append(out, model.Resposta{
				PerguntaID: p.ID,
				Tipo:       model.TipoTexto,
				Texto:      &texto,
				Anexos:     anexos[p.ID],
			})
		case model.SingleChoice:
			escolha := int(a)
			out = append(out, model.Resposta{
				PerguntaID: p.ID,
				Tipo:       model.TipoUnica,
				EscolhaID:  &escolha,
				Anexos:     anexos[p.ID],
			})
		case model.MultiChoice:
			for _, id := range a {
				escolha := id
				out = append(out, model.Resposta{
					PerguntaID: p.ID,
					Tipo:       model.TipoMultipla,
					EscolhaID:  &escolha,
					Anexos:     anexos[p.ID],
				})
			}
		case model.Signature:
			if mode == Edit {
				continue
			}
			assinatura := string(a)
			out = append(out, model.Resposta{
				PerguntaID:       p.ID,
				Tipo:             model.TipoAssinatura,
				AssinaturaBase64: &assinatura,
				Anexos:           anexos[p.ID],
			})
		}
	}
	return out
}

// Unflatten groups flat answer records back into an answer map, keyed
// and typed by the schema. It seeds the editable state when amending a
// submission and feeds the read-only recap after one.
//
// TEXTO and MULTIPLA questions always get an entry (possibly empty);
// UNICA and ASSINATURA stay absent when no record exists for them.
// Signature values prefer the backend's persisted image URL over the
// inline base64 sent at submission time.
func Unflatten(respostas []model.Resposta, f model.Formulario) model.AnswerMap {
	byPergunta := make(map[int][]model.Resposta, len(f.Perguntas))
	for _, r := range respostas {
		byPergunta[r.PerguntaID] = append(byPergunta[r.PerguntaID], r)
	}

	answers := make(model.AnswerMap, len(f.Perguntas))
	for _, p := range f.Perguntas {
		rs := byPergunta[p.ID]

		switch p.Tipo {
		case model.TipoTexto:
			texto := ""
			if len(rs) > 0 && rs[0].Texto != nil {
				texto = *rs[0].Texto
			}
			answers[p.ID] = model.TextAnswer(texto)
		case model.TipoUnica:
			if len(rs) > 0 && rs[0].EscolhaID != nil {
				answers[p.ID] = model.SingleChoice(*rs[0].EscolhaID)
			}
		case model.TipoMultipla:
			escolhas := model.MultiChoice{}
			for _, r := range rs {
				if r.EscolhaID != nil {
					escolhas = append(escolhas, *r.EscolhaID)
				}
			}
			answers[p.ID] = escolhas
		case model.TipoAssinatura:
			if len(rs) == 0 {
				continue
			}
			switch {
			case rs[0].ImageURL != "":
				answers[p.ID] = model.Signature(rs[0].ImageURL)
			case rs[0].AssinaturaBase64 != nil && *rs[0].AssinaturaBase64 != "":
				answers[p.ID] = model.Signature(*rs[0].AssinaturaBase64)
			}
		}
	}
	return answers
}
