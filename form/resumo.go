package form

import (
	"strings"

	"github.com/LRM-Solutions/fortelyne-app-checklist/model"
)

// ResumoItem is one line of a human-readable submission recap.
type ResumoItem struct {
	Indice   int
	Titulo   string
	Resposta string
}

// Resumo renders submitted records into a per-question recap, resolving
// choice ids to their labels. Questions without any record are skipped.
func Resumo(respostas []model.Resposta, f model.Formulario) []ResumoItem {
	answers := Unflatten(respostas, f)

	var items []ResumoItem
	for _, p := range f.Perguntas {
		a, ok := answers[p.ID]
		if !ok {
			continue
		}

		var text string
		switch a := a.(type) {
		case model.TextAnswer:
			text = string(a)
			if strings.TrimSpace(text) == "" {
				text = "(not answered)"
			}
		case model.SingleChoice:
			text = escolhaLabel(p, int(a))
		case model.MultiChoice:
			if len(a) == 0 {
				continue
			}
			labels := make([]string, len(a))
			for i, id := range a {
				labels[i] = escolhaLabel(p, id)
			}
			text = strings.Join(labels, ", ")
		case model.Signature:
			text = "signature captured"
		}

		items = append(items, ResumoItem{Indice: p.Indice, Titulo: p.Titulo, Resposta: text})
	}
	return items
}

func escolhaLabel(p model.Pergunta, id int) string {
	if e := p.Escolha(id); e != nil {
		return e.Label
	}
	return "(unknown escolha)"
}
