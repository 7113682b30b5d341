// Package client wraps the Fortelyne field-service REST API. Every call
// takes a context, honors the configured timeout, and resolves failures
// to a uniform *APIError instead of partial results; a 401 clears the
// persisted session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/LRM-Solutions/fortelyne-app-checklist/config"
	"github.com/LRM-Solutions/fortelyne-app-checklist/log"
	"github.com/LRM-Solutions/fortelyne-app-checklist/model"
)

type Client struct {
	base    string
	http    *http.Client
	store   SessionStore
	session *Session
}

// New builds a client around a persisted session store. The stored
// session, if any, is picked up lazily on the first authenticated call.
func New(cfg config.Config, store SessionStore) *Client {
	return &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		http:  &http.Client{Timeout: cfg.Timeout},
		store: store,
	}
}

// Session returns the current session, loading it from the store once.
func (c *Client) Session() (*Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	s, err := c.store.LoadSession()
	if err != nil {
		return nil, fmt.Errorf("client.session.load: %w", err)
	}
	c.session = s
	return s, nil
}

type loginRequest struct {
	Email    string `json:"user_email"`
	Password string `json:"user_password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login acquires a session and persists it.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/login", loginRequest{email, password}, &resp, false)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "login response carried no token"}
	}

	s := newSession(resp.Token, email)
	if err := c.store.SaveSession(s); err != nil {
		return nil, fmt.Errorf("client.session.save: %w", err)
	}
	c.session = s
	return s, nil
}

// Logout discards the session locally. The backend keeps no server-side
// session state to invalidate.
func (c *Client) Logout() error {
	c.session = nil
	return c.store.ClearSession()
}

// OrdensConcluidas lists the technician's completed orders.
func (c *Client) OrdensConcluidas(ctx context.Context) ([]model.Ordem, error) {
	var ordens []model.Ordem
	err := c.do(ctx, http.MethodGet, "/get-all-done-orders-by-user-id", nil, &ordens, true)
	return ordens, err
}

// OrdensAFazer lists the technician's pending orders.
func (c *Client) OrdensAFazer(ctx context.Context) ([]model.Ordem, error) {
	var ordens []model.Ordem
	err := c.do(ctx, http.MethodGet, "/get-incompleted-orders-by-user-id", nil, &ordens, true)
	return ordens, err
}

type formularioEnvelope struct {
	Data model.Formulario `json:"data"`
}

// FormularioOrdem fetches the questionnaire schema of an order.
func (c *Client) FormularioOrdem(ctx context.Context, ordemID int) (*model.Formulario, error) {
	var env formularioEnvelope
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/formulario-ordem/%d", ordemID), nil, &env, true)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// RespostasFinais fetches the previously submitted records of an order
// together with its current snapshot.
func (c *Client) RespostasFinais(ctx context.Context, ordemID int) (*model.Envio, error) {
	var envio model.Envio
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/respostas-finais-ordem/%d", ordemID), nil, &envio, true)
	if err != nil {
		return nil, err
	}
	return &envio, nil
}

type envioRequest struct {
	OrdemID   int              `json:"ordem_id"`
	Respostas []model.Resposta `json:"respostas"`
}

// EnviarFormulario submits a filled questionnaire. The response echoes
// the persisted order and records.
func (c *Client) EnviarFormulario(ctx context.Context, ordemID int, respostas []model.Resposta) (*model.Envio, error) {
	var envio model.Envio
	err := c.do(ctx, http.MethodPost, "/envio-formulario", envioRequest{ordemID, respostas}, &envio, true)
	if err != nil {
		return nil, err
	}
	return &envio, nil
}

// EditarFormulario amends previously submitted answers. Signature
// records must not appear in the payload; form.Flatten in Edit mode
// takes care of that.
func (c *Client) EditarFormulario(ctx context.Context, ordemID int, respostas []model.Resposta) (*model.Envio, error) {
	var envio model.Envio
	err := c.do(ctx, http.MethodPut, "/editar-envio-formulario", envioRequest{ordemID, respostas}, &envio, true)
	if err != nil {
		return nil, err
	}
	return &envio, nil
}

type locRequest struct {
	OrdemID int     `json:"ordem_id"`
	Lat     float64 `json:"funcionario_lat"`
	Lng     float64 `json:"funcionario_lng"`
}

// VerificarLocalizacao asks the backend whether the given coordinates
// are within the order's allowed radius. Any failure resolves to false
// with the error; the gate never fails open.
func (c *Client) VerificarLocalizacao(ctx context.Context, ordemID int, lat, lng float64) (bool, error) {
	var onSite bool
	err := c.do(ctx, http.MethodPost, "/verificar-loc-funcionario", locRequest{ordemID, lat, lng}, &onSite, true)
	if err != nil {
		return false, err
	}
	return onSite, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authenticated bool) error {
	var token string
	if authenticated {
		s, err := c.Session()
		if err != nil {
			return err
		}
		if s == nil {
			return ErrNoSession
		}
		token = s.Token
	}

	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("client.encode_body: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return fmt.Errorf("client.new_request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debugf("client: %s %s", method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return fmt.Errorf("client.request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// expired or revoked token: forget it, the user must log in again
		c.session = nil
		if err := c.store.ClearSession(); err != nil {
			log.Errorf("client.session.clear: %s", err)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "request failed"}
		var body errorResponse
		if err := render.DecodeJSON(resp.Body, &body); err == nil && body.Error != "" {
			apiErr.Message = body.Error
		}
		return apiErr
	}

	if out != nil {
		if err := render.DecodeJSON(resp.Body, out); err != nil {
			return fmt.Errorf("client.decode_response: %w", err)
		}
	}
	return nil
}
