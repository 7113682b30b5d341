package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LRM-Solutions/fortelyne-app-checklist/model"
)

// ErrNoDraft is returned when an order has no draft in progress.
var ErrNoDraft = errors.New("no draft in progress for this ordem")

// StartDraft opens (or reopens) the working copy of an order's
// questionnaire. Starting an existing draft is a no-op.
func (s *Store) StartDraft(ordemID int) error {
	_, err := s.db.Exec(`
		INSERT INTO draft (ordem_id, started_at) VALUES (?, ?)
		ON CONFLICT (ordem_id) DO NOTHING`,
		ordemID,
		time.Now(),
	)
	return err
}

// HasDraft reports whether a draft exists for the order.
func (s *Store) HasDraft(ordemID int) (bool, error) {
	var one int
	err := s.db.
		QueryRow("SELECT 1 FROM draft WHERE ordem_id = ?", ordemID).
		Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// SetAnswer stages an answer on the order's draft, replacing any
// previous answer to the same question.
func (s *Store) SetAnswer(ordemID, perguntaID int, a model.Answer) error {
	ok, err := s.HasDraft(ordemID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoDraft
	}

	valor, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("store.draft.encode_answer: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO draft_resposta (ordem_id, pergunta_id, tipo, valor)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (ordem_id, pergunta_id) DO UPDATE SET
			tipo = excluded.tipo,
			valor = excluded.valor`,
		ordemID,
		perguntaID,
		string(a.Tipo()),
		string(valor),
	)
	return err
}

// Answers reassembles the draft's answer map.
func (s *Store) Answers(ordemID int) (model.AnswerMap, error) {
	rows, err := s.db.Query(
		"SELECT pergunta_id, tipo, valor FROM draft_resposta WHERE ordem_id = ?",
		ordemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := model.AnswerMap{}
	for rows.Next() {
		var perguntaID int
		var tipo, valor string
		if err := rows.Scan(&perguntaID, &tipo, &valor); err != nil {
			return nil, err
		}

		a, err := decodeAnswer(model.TipoPergunta(tipo), valor)
		if err != nil {
			return nil, fmt.Errorf("store.draft.decode_answer (pergunta %d): %w", perguntaID, err)
		}
		answers[perguntaID] = a
	}
	return answers, rows.Err()
}

func decodeAnswer(tipo model.TipoPergunta, valor string) (model.Answer, error) {
	switch tipo {
	case model.TipoTexto:
		var a model.TextAnswer
		return a, json.Unmarshal([]byte(valor), &a)
	case model.TipoUnica:
		var a model.SingleChoice
		return a, json.Unmarshal([]byte(valor), &a)
	case model.TipoMultipla:
		var a model.MultiChoice
		return a, json.Unmarshal([]byte(valor), &a)
	case model.TipoAssinatura:
		var a model.Signature
		return a, json.Unmarshal([]byte(valor), &a)
	default:
		return nil, fmt.Errorf("unknown tipo %q", tipo)
	}
}

// AddAnexo stages an attachment at the end of the question's list.
func (s *Store) AddAnexo(ordemID, perguntaID int, ref model.Anexo) error {
	ok, err := s.HasDraft(ordemID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoDraft
	}

	_, err = s.db.Exec(`
		INSERT INTO draft_anexo (id, ordem_id, pergunta_id, ref, pos)
		VALUES (?, ?, ?, ?, (
			SELECT COALESCE(MAX(pos), 0) + 1 FROM draft_anexo
			WHERE ordem_id = ? AND pergunta_id = ?
		))`,
		uuid.NewString(),
		ordemID,
		perguntaID,
		string(ref),
		ordemID,
		perguntaID,
	)
	return err
}

// Anexos reassembles the draft's attachment map in display order.
func (s *Store) Anexos(ordemID int) (model.AnexoMap, error) {
	rows, err := s.db.Query(`
		SELECT pergunta_id, ref FROM draft_anexo
		WHERE ordem_id = ?
		ORDER BY pergunta_id, pos`,
		ordemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	anexos := model.AnexoMap{}
	for rows.Next() {
		var perguntaID int
		var ref string
		if err := rows.Scan(&perguntaID, &ref); err != nil {
			return nil, err
		}
		anexos[perguntaID] = append(anexos[perguntaID], model.Anexo(ref))
	}
	return anexos, rows.Err()
}

// DeleteDraft discards the order's working copy, cascading to its
// answers and attachments.
func (s *Store) DeleteDraft(ordemID int) error {
	_, err := s.db.Exec("DELETE FROM draft WHERE ordem_id = ?", ordemID)
	return err
}
