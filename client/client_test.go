package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"github.com/LRM-Solutions/fortelyne-app-checklist/config"
	"github.com/LRM-Solutions/fortelyne-app-checklist/model"
)

// memStore is an in-memory SessionStore for tests.
type memStore struct {
	session *Session
	cleared int
}

func (m *memStore) LoadSession() (*Session, error) { return m.session, nil }
func (m *memStore) SaveSession(s *Session) error   { m.session = s; return nil }
func (m *memStore) ClearSession() error            { m.session = nil; m.cleared++; return nil }

func signedToken(t *testing.T, email string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_email": email,
		"exp":        exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// fakeBackend stands in for the Fortelyne API, implementing the
// endpoints the client consumes.
func fakeBackend(t *testing.T, token string, requests *atomic.Int32) http.Handler {
	t.Helper()

	authenticated := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requests != nil {
				requests.Add(1)
			}
			if r.Header.Get("Authorization") != "Bearer "+token {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, map[string]any{"error": "token invalido"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewRouter()

	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"user_email"`
			Password string `json:"user_password"`
		}
		if err := render.DecodeJSON(r.Body, &body); err != nil || body.Password != "s3cr3t" {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, map[string]any{"error": "credenciais invalidas"})
			return
		}
		render.JSON(w, r, map[string]any{"token": token})
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticated)

		r.Get("/get-incompleted-orders-by-user-id", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, []model.Ordem{{ID: 7, NomeCliente: "ACME"}})
		})
		r.Get("/get-all-done-orders-by-user-id", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, []model.Ordem{{ID: 3, NomeCliente: "Globex", Concluida: true}})
		})
		r.Get("/formulario-ordem/{id}", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, map[string]any{"data": model.Formulario{Perguntas: []model.Pergunta{
				{ID: 10, Indice: 1, Titulo: "Notes", Tipo: model.TipoTexto},
			}}})
		})
		r.Get("/respostas-finais-ordem/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, _ := strconv.Atoi(chi.URLParam(r, "id"))
			texto := "done"
			render.JSON(w, r, model.Envio{
				Ordem: model.Ordem{ID: id, Concluida: true},
				Respostas: []model.Resposta{
					{PerguntaID: 10, Tipo: model.TipoTexto, Texto: &texto},
				},
			})
		})
		r.Post("/envio-formulario", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				OrdemID   int              `json:"ordem_id"`
				Respostas []model.Resposta `json:"respostas"`
			}
			if err := render.DecodeJSON(r.Body, &body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, map[string]any{"error": "payload invalido"})
				return
			}
			render.JSON(w, r, model.Envio{
				Ordem:     model.Ordem{ID: body.OrdemID, Concluida: true},
				Respostas: body.Respostas,
			})
		})
		r.Put("/editar-envio-formulario", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				OrdemID   int              `json:"ordem_id"`
				Respostas []model.Resposta `json:"respostas"`
			}
			if err := render.DecodeJSON(r.Body, &body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, map[string]any{"error": "payload invalido"})
				return
			}
			for _, resposta := range body.Respostas {
				if resposta.Tipo == model.TipoAssinatura {
					w.WriteHeader(http.StatusBadRequest)
					render.JSON(w, r, map[string]any{"error": "assinatura nao pode ser editada"})
					return
				}
			}
			render.JSON(w, r, model.Envio{Ordem: model.Ordem{ID: body.OrdemID, Concluida: true}, Respostas: body.Respostas})
		})
		r.Post("/verificar-loc-funcionario", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Lat float64 `json:"funcionario_lat"`
			}
			if err := render.DecodeJSON(r.Body, &body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, map[string]any{"error": "payload invalido"})
				return
			}
			render.JSON(w, r, body.Lat > 0)
		})
	})

	return r
}

func newTestClient(t *testing.T, handler http.Handler, store SessionStore) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, store)
}

func TestLoginStoresSession(t *testing.T) {
	exp := time.Now().Add(8 * time.Hour).Truncate(time.Second)
	token := signedToken(t, "tech@fortelyne.com.br", exp)
	store := &memStore{}
	c := newTestClient(t, fakeBackend(t, token, nil), store)

	session, err := c.Login(context.Background(), "tech@fortelyne.com.br", "s3cr3t")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if store.session == nil || store.session.Token != token {
		t.Fatal("session was not persisted")
	}
	if session.Email != "tech@fortelyne.com.br" {
		t.Errorf("email = %q", session.Email)
	}
	if !session.ExpiresAt.Equal(exp) {
		t.Errorf("expiry = %v, want %v (parsed from the JWT)", session.ExpiresAt, exp)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	token := signedToken(t, "tech@fortelyne.com.br", time.Now().Add(time.Hour))
	store := &memStore{}
	c := newTestClient(t, fakeBackend(t, token, nil), store)

	_, err := c.Login(context.Background(), "tech@fortelyne.com.br", "wrong")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v, want an APIError", err)
	}
	if apiErr.Message != "credenciais invalidas" {
		t.Errorf("message = %q, want the backend-supplied text", apiErr.Message)
	}
	if store.session != nil {
		t.Error("session stored despite failed login")
	}
}

func TestAuthenticatedCall(t *testing.T) {
	token := signedToken(t, "tech@fortelyne.com.br", time.Now().Add(time.Hour))
	store := &memStore{session: &Session{Token: token}}
	c := newTestClient(t, fakeBackend(t, token, nil), store)

	ordens, err := c.OrdensAFazer(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ordens) != 1 || ordens[0].NomeCliente != "ACME" {
		t.Errorf("ordens = %+v", ordens)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	token := signedToken(t, "tech@fortelyne.com.br", time.Now().Add(time.Hour))
	store := &memStore{session: &Session{Token: "stale-token"}}
	c := newTestClient(t, fakeBackend(t, token, nil), store)

	_, err := c.OrdensConcluidas(context.Background())

	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
	if store.session != nil || store.cleared != 1 {
		t.Error("stale session was not cleared")
	}
}

func TestNoSessionMakesNoNetworkCall(t *testing.T) {
	var requests atomic.Int32
	c := newTestClient(t, fakeBackend(t, "unused", &requests), &memStore{})

	_, err := c.OrdensAFazer(context.Background())

	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("got %v, want ErrNoSession", err)
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("%d requests went out without a session", n)
	}
}

func TestVerificarLocalizacao(t *testing.T) {
	token := signedToken(t, "tech@fortelyne.com.br", time.Now().Add(time.Hour))
	store := &memStore{session: &Session{Token: token}}
	c := newTestClient(t, fakeBackend(t, token, nil), store)

	onSite, err := c.VerificarLocalizacao(context.Background(), 7, -23.55, -46.63)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if onSite {
		t.Error("should be off site for negative latitude fixture")
	}

	onSite, err = c.VerificarLocalizacao(context.Background(), 7, 1.0, 2.0)
	if err != nil || !onSite {
		t.Errorf("on-site check = %v, %v", onSite, err)
	}
}

func TestVerificarLocalizacaoNeverFailsOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	store := &memStore{session: &Session{Token: "x"}}
	c := New(config.Config{BaseURL: srv.URL, Timeout: time.Second}, store)

	onSite, err := c.VerificarLocalizacao(context.Background(), 7, 1, 2)
	if err == nil {
		t.Fatal("expected an error")
	}
	if onSite {
		t.Fatal("gate opened despite a backend failure")
	}
}

func TestEnviarFormulario(t *testing.T) {
	token := signedToken(t, "tech@fortelyne.com.br", time.Now().Add(time.Hour))
	store := &memStore{session: &Session{Token: token}}
	c := newTestClient(t, fakeBackend(t, token, nil), store)

	texto := "replaced the panel"
	envio, err := c.EnviarFormulario(context.Background(), 7, []model.Resposta{
		{PerguntaID: 10, Tipo: model.TipoTexto, Texto: &texto},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if envio.Ordem.ID != 7 || len(envio.Respostas) != 1 {
		t.Errorf("echoed envio = %+v", envio)
	}
}

func TestEditarFormularioRejectsSignatures(t *testing.T) {
	token := signedToken(t, "tech@fortelyne.com.br", time.Now().Add(time.Hour))
	store := &memStore{session: &Session{Token: token}}
	c := newTestClient(t, fakeBackend(t, token, nil), store)

	sig := "data:image/png;base64,aGVsbG8="
	_, err := c.EditarFormulario(context.Background(), 7, []model.Resposta{
		{PerguntaID: 40, Tipo: model.TipoAssinatura, AssinaturaBase64: &sig},
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("got %v, want a 400 APIError", err)
	}
}

func TestRequestHonorsContextCancellation(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	store := &memStore{session: &Session{Token: "x"}}
	c := New(config.Config{BaseURL: srv.URL, Timeout: time.Minute}, store)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.OrdensAFazer(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
