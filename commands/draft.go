package commands

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/LRM-Solutions/fortelyne-app-checklist/app"
	"github.com/LRM-Solutions/fortelyne-app-checklist/form"
	"github.com/LRM-Solutions/fortelyne-app-checklist/model"
	"github.com/LRM-Solutions/fortelyne-app-checklist/store"
)

func Answer(ctx context.Context, app app.App, args []string) error {
	ordemID, rest, err := ordemArg(args)
	if err != nil {
		return err
	}
	perguntaID, values, err := perguntaArg(rest)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("usage: answer <ordem> <pergunta> <value>...")
	}

	f, err := app.Client.FormularioOrdem(ctx, ordemID)
	if err != nil {
		return err
	}
	p := f.Pergunta(perguntaID)
	if p == nil {
		return fmt.Errorf("ordem #%d has no pergunta %d", ordemID, perguntaID)
	}

	var a model.Answer
	switch p.Tipo {
	case model.TipoTexto:
		a = model.TextAnswer(strings.Join(values, " "))
	case model.TipoUnica:
		id, err := escolhaID(*p, values[0])
		if err != nil {
			return err
		}
		a = model.SingleChoice(id)
	case model.TipoMultipla:
		escolhas := make(model.MultiChoice, 0, len(values))
		for _, v := range values {
			id, err := escolhaID(*p, v)
			if err != nil {
				return err
			}
			escolhas = append(escolhas, id)
		}
		a = escolhas
	case model.TipoAssinatura:
		return fmt.Errorf("pergunta %d takes a signature, use: sign %d %d <file>", perguntaID, ordemID, perguntaID)
	default:
		return fmt.Errorf("unknown pergunta type %q", p.Tipo)
	}

	if err := app.Store.SetAnswer(ordemID, perguntaID, a); err != nil {
		return draftErr(err, ordemID)
	}
	fmt.Printf("staged answer for pergunta %d\n", perguntaID)
	return nil
}

func escolhaID(p model.Pergunta, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid escolha id %q", arg)
	}
	if p.Escolha(id) == nil {
		return 0, fmt.Errorf("pergunta %d has no escolha %d", p.ID, id)
	}
	return id, nil
}

func Attach(ctx context.Context, app app.App, args []string) error {
	ordemID, rest, err := ordemArg(args)
	if err != nil {
		return err
	}
	perguntaID, rest, err := perguntaArg(rest)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: attach <ordem> <pergunta> <file|url>")
	}

	anexo, err := anexoRef(rest[0])
	if err != nil {
		return err
	}
	if _, err := form.KindOf(anexo); err != nil {
		return err
	}

	if err := app.Store.AddAnexo(ordemID, perguntaID, anexo); err != nil {
		return draftErr(err, ordemID)
	}
	fmt.Printf("staged anexo for pergunta %d\n", perguntaID)
	return nil
}

// anexoRef accepts either a URL of an already uploaded file or a local
// image path, which gets inlined as a data URI the way device captures
// are.
func anexoRef(arg string) (model.Anexo, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "data:") {
		return model.Anexo(arg), nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("attach.read_file: %w", err)
	}
	return form.InlineAnexo(mime.TypeByExtension(filepath.Ext(arg)), data), nil
}

func Sign(app app.App, args []string) error {
	ordemID, rest, err := ordemArg(args)
	if err != nil {
		return err
	}
	perguntaID, rest, err := perguntaArg(rest)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: sign <ordem> <pergunta> <file>")
	}

	data, err := os.ReadFile(rest[0])
	if err != nil {
		return fmt.Errorf("sign.read_file: %w", err)
	}
	anexo := form.InlineAnexo(mime.TypeByExtension(filepath.Ext(rest[0])), data)

	if err := app.Store.SetAnswer(ordemID, perguntaID, model.Signature(anexo)); err != nil {
		return draftErr(err, ordemID)
	}
	fmt.Printf("staged signature for pergunta %d\n", perguntaID)
	return nil
}

func draftErr(err error, ordemID int) error {
	if errors.Is(err, store.ErrNoDraft) {
		return fmt.Errorf("no draft open for ordem #%d, run: start %d -lat <y> -lng <x>", ordemID, ordemID)
	}
	return err
}
