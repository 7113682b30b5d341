package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LRM-Solutions/fortelyne-app-checklist/app"
	"github.com/LRM-Solutions/fortelyne-app-checklist/form"
	"github.com/LRM-Solutions/fortelyne-app-checklist/log"
	"github.com/LRM-Solutions/fortelyne-app-checklist/model"
	"github.com/LRM-Solutions/fortelyne-app-checklist/store"
)

func Submit(ctx context.Context, app app.App, args []string) error {
	ordemID, _, err := ordemArg(args)
	if err != nil {
		return err
	}

	ok, err := app.Store.HasDraft(ordemID)
	if err != nil {
		return err
	}
	if !ok {
		return draftErr(store.ErrNoDraft, ordemID)
	}

	f, err := app.Client.FormularioOrdem(ctx, ordemID)
	if err != nil {
		return err
	}
	answers, err := app.Store.Answers(ordemID)
	if err != nil {
		return err
	}
	anexos, err := app.Store.Anexos(ordemID)
	if err != nil {
		return err
	}

	// incomplete forms never reach the network
	if err := validate(answers, *f); err != nil {
		return err
	}
	if err := normalizeAnexos(anexos); err != nil {
		return err
	}

	respostas := form.Flatten(answers, anexos, *f, form.Create)
	envio, err := app.Client.EnviarFormulario(ctx, ordemID, respostas)
	if err != nil {
		return err
	}

	fmt.Printf("formulario submitted for ordem #%d\n\n", envio.Ordem.ID)
	printResumo(envio.Respostas, *f)

	if err := app.Store.DeleteDraft(ordemID); err != nil {
		log.Errorf("submit.delete_draft: %s", err)
	}
	return nil
}

func Amend(ctx context.Context, app app.App, args []string) error {
	ordemID, _, err := ordemArg(args)
	if err != nil {
		return err
	}

	envio, err := app.Client.RespostasFinais(ctx, ordemID)
	if err != nil {
		return err
	}
	if !form.CanEdit(envio.Ordem.CompletedAt(), time.Now()) {
		return fmt.Errorf("ordem #%d can no longer be edited: the %s window after completion has passed",
			ordemID, form.EditWindow)
	}

	f, err := app.Client.FormularioOrdem(ctx, ordemID)
	if err != nil {
		return err
	}

	// start from what was submitted, overlay staged changes
	answers := form.Unflatten(envio.Respostas, *f)
	staged, err := app.Store.Answers(ordemID)
	if err != nil {
		return err
	}
	for perguntaID, a := range staged {
		if a.Tipo() == model.TipoAssinatura {
			log.Warnf("amend: pergunta %d is a signature and cannot be changed after submission", perguntaID)
			continue
		}
		answers[perguntaID] = a
	}
	anexos, err := app.Store.Anexos(ordemID)
	if err != nil {
		return err
	}

	if err := validate(answers, *f); err != nil {
		return err
	}
	if err := normalizeAnexos(anexos); err != nil {
		return err
	}

	respostas := form.Flatten(answers, anexos, *f, form.Edit)
	updated, err := app.Client.EditarFormulario(ctx, ordemID, respostas)
	if err != nil {
		return err
	}

	fmt.Printf("formulario updated for ordem #%d\n\n", updated.Ordem.ID)
	printResumo(updated.Respostas, *f)

	if err := app.Store.DeleteDraft(ordemID); err != nil {
		log.Errorf("amend.delete_draft: %s", err)
	}
	return nil
}

func validate(answers model.AnswerMap, f model.Formulario) error {
	err := form.Validate(answers, f)
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		for _, p := range verr.Missing {
			fmt.Printf("unanswered: %d. %s (pergunta %d)\n", p.Indice, p.Titulo, p.ID)
		}
	}
	return err
}

func normalizeAnexos(anexos model.AnexoMap) error {
	for perguntaID, refs := range anexos {
		normalized, err := form.NormalizeAnexos(refs)
		if err != nil {
			return fmt.Errorf("pergunta %d: %w", perguntaID, err)
		}
		anexos[perguntaID] = normalized
	}
	return nil
}
