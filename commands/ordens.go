package commands

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/LRM-Solutions/fortelyne-app-checklist/app"
	"github.com/LRM-Solutions/fortelyne-app-checklist/form"
	"github.com/LRM-Solutions/fortelyne-app-checklist/model"
)

func Orders(ctx context.Context, app app.App, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	done := fs.Bool("done", false, "list completed ordens instead of pending ones")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var ordens []model.Ordem
	var err error
	if *done {
		ordens, err = app.Client.OrdensConcluidas(ctx)
	} else {
		ordens, err = app.Client.OrdensAFazer(ctx)
	}
	if err != nil {
		return err
	}

	if len(ordens) == 0 {
		fmt.Println("no ordens")
		return nil
	}
	for _, o := range ordens {
		status := "pending"
		if o.Concluida {
			status = "done"
		}
		fmt.Printf("#%d  %s  [%s]\n", o.ID, o.NomeCliente, status)
		fmt.Printf("    %s, %s - %s - %s\n", o.Endereco, o.Cidade, o.Estado, o.CEP)
		fmt.Printf("    scheduled %s\n", o.Data.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func Form(ctx context.Context, app app.App, args []string) error {
	ordemID, _, err := ordemArg(args)
	if err != nil {
		return err
	}

	f, err := app.Client.FormularioOrdem(ctx, ordemID)
	if err != nil {
		return err
	}

	for _, p := range f.Perguntas {
		fmt.Printf("%d. %s  (%s, pergunta %d)\n", p.Indice, p.Titulo, p.Tipo, p.ID)
		for _, e := range p.Escolhas {
			fmt.Printf("    [%d] %s\n", e.ID, e.Label)
		}
	}
	return nil
}

func Start(ctx context.Context, app app.App, args []string) error {
	ordemID, rest, err := ordemArg(args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	lat := fs.Float64("lat", 0, "device latitude")
	lng := fs.Float64("lng", 0, "device longitude")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	onSite, err := app.Client.VerificarLocalizacao(ctx, ordemID, *lat, *lng)
	if err != nil {
		return fmt.Errorf("location check failed: %w", err)
	}
	if !onSite {
		return fmt.Errorf("you are not within the allowed radius of ordem #%d", ordemID)
	}

	if err := app.Store.StartDraft(ordemID); err != nil {
		return err
	}
	fmt.Printf("on site confirmed, draft open for ordem #%d\n", ordemID)
	return nil
}

func Review(ctx context.Context, app app.App, args []string) error {
	ordemID, _, err := ordemArg(args)
	if err != nil {
		return err
	}

	envio, err := app.Client.RespostasFinais(ctx, ordemID)
	if err != nil {
		return err
	}
	f, err := app.Client.FormularioOrdem(ctx, ordemID)
	if err != nil {
		return err
	}

	o := envio.Ordem
	fmt.Printf("ordem #%d  %s\n", o.ID, o.NomeCliente)
	fmt.Printf("%s, %s - %s - %s\n\n", o.Endereco, o.Cidade, o.Estado, o.CEP)

	printResumo(envio.Respostas, *f)

	if form.CanEdit(o.CompletedAt(), time.Now()) {
		remaining := form.EditWindow - time.Since(o.CompletedAt())
		fmt.Printf("\neditable for another %s\n", remaining.Round(time.Minute))
	} else {
		fmt.Println("\nedit window closed")
	}
	return nil
}

func printResumo(respostas []model.Resposta, f model.Formulario) {
	for _, item := range form.Resumo(respostas, f) {
		fmt.Printf("%d. %s\n   %s\n", item.Indice, item.Titulo, item.Resposta)
	}
}
