package action

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/condyapp/portal/internal/gateway"
	"github.com/condyapp/portal/internal/model"
	"github.com/condyapp/portal/internal/session"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(gateway.NewClient(srv.URL, 5*time.Second))
}

// deadService fails the test if any network call is made.
func deadService(t *testing.T) *Service {
	t.Helper()
	return newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	})
}

func readBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func loggedInSession() *session.Session {
	return &session.Session{
		IsLoggedIn: true,
		Token:      "tok-1",
		User: &model.User{
			ID:       "u-1",
			Email:    "sindico@condy.test",
			UserType: model.UserTypeSindicoResidente,
		},
	}
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected call: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"token":"t","user":{"id":"u-9","email":"a@b.com","userType":"ADMIN_PLATAFORMA"}}}`))
	})

	res := svc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "abcdef"})
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}

	out, okCast := res.Data.(LoginOutput)
	if !okCast {
		t.Fatalf("expected LoginOutput, got %T", res.Data)
	}
	if out.Token != "t" {
		t.Errorf("expected token t, got %q", out.Token)
	}
	if out.Redirect != "/admin" {
		t.Errorf("expected /admin redirect for platform admin, got %q", out.Redirect)
	}
}

func TestLoginUpstream401ForcesLogout(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"credenciais inválidas"}`))
	})

	res := svc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "abcdef"})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Logout == nil {
		t.Fatal("401 must carry the forced-logout signal")
	}
	if res.Code != CodeSessionInvalidated {
		t.Errorf("expected session_invalidated code, got %q", res.Code)
	}
	if res.Logout.Notice == "" {
		t.Error("forced logout must carry a non-empty notice")
	}
}

func TestLoginValidation(t *testing.T) {
	svc := deadService(t)

	if res := svc.Login(context.Background(), LoginInput{Email: "", Password: "abcdef"}); res.Success || res.Code != CodeValidation {
		t.Errorf("empty email should fail validation, got %+v", res)
	}
	if res := svc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "abc"}); res.Success || res.Code != CodeValidation {
		t.Errorf("short password should fail validation, got %+v", res)
	}
}

func TestEmailMismatchWinsOverStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Email mismatch for this account"}`))
	})

	res := svc.ListTickets(context.Background(), loggedInSession(), ListTicketsInput{})
	if res.Logout == nil {
		t.Fatal("expected forced logout")
	}
	if res.Logout.Notice != "Sua conta foi acessada com um email diferente. Faça login novamente." {
		t.Errorf("email mismatch notice must win over the 401 status, got %q", res.Logout.Notice)
	}
}

func TestListTicketsNormalizesLegacyStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected session token forwarded, got %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[
			{"id":"c-1","descricao":"portão","status":"ABERTO","prioridade":"NORMAL","imovel_id":"i-1"},
			{"id":"c-2","descricao":"elevador","status":"EM_ANDAMENTO","prioridade":"EMERGENCIA","imovel_id":"i-1"}
		]}`))
	})

	res := svc.ListTickets(context.Background(), loggedInSession(), ListTicketsInput{})
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}

	tickets := res.Data.([]model.Ticket)
	if tickets[0].Status != model.TicketStatusNovo {
		t.Errorf("ABERTO should normalize to NOVO, got %q", tickets[0].Status)
	}
	if tickets[1].Status != model.TicketStatusEmAtendimento {
		t.Errorf("EM_ANDAMENTO should normalize to EM_ATENDIMENTO, got %q", tickets[1].Status)
	}
	if tickets[0].Prioridade != model.TicketPriorityBaixa {
		t.Errorf("NORMAL should normalize to BAIXA, got %q", tickets[0].Prioridade)
	}
	if tickets[1].Prioridade != model.TicketPriorityAlta {
		t.Errorf("EMERGENCIA should normalize to ALTA, got %q", tickets[1].Prioridade)
	}
}

func TestCreateTicketRequiresAssetBeforeNetwork(t *testing.T) {
	svc := deadService(t)

	res := svc.CreateTicket(context.Background(), loggedInSession(), CreateTicketInput{
		Descricao:  "vazamento na garagem",
		ImovelID:   "i-1",
		Prioridade: "MEDIA",
	})
	if res.Success {
		t.Fatal("expected local validation failure")
	}
	if res.Code != CodeValidation {
		t.Errorf("expected validation code, got %q", res.Code)
	}
}

func TestCreateTicketRejectsBothAssetFields(t *testing.T) {
	svc := deadService(t)

	res := svc.CreateTicket(context.Background(), loggedInSession(), CreateTicketInput{
		Descricao:   "vazamento",
		ImovelID:    "i-1",
		AtivoID:     "a-1",
		AtivoManual: "bomba d'água",
		Prioridade:  "MEDIA",
	})
	if res.Success || res.Code != CodeValidation {
		t.Errorf("both asset fields should fail validation, got %+v", res)
	}
}

func TestCreateTicketNormalizesPriorityAlias(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var in CreateTicketInput
		if err := readBody(r, &in); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if in.Prioridade != "MEDIA" {
			t.Errorf("URGENTE should reach upstream as MEDIA, got %q", in.Prioridade)
		}
		_, _ = w.Write([]byte(`{"data":{"id":"c-9","status":"NOVO","prioridade":"MEDIA"}}`))
	})

	res := svc.CreateTicket(context.Background(), loggedInSession(), CreateTicketInput{
		Descricao:  "vazamento",
		ImovelID:   "i-1",
		AtivoID:    "a-1",
		Prioridade: "URGENTE",
	})
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
}

func TestUpdateTicketStatusRejectsLegacyVocabulary(t *testing.T) {
	svc := deadService(t)

	res := svc.UpdateTicketStatus(context.Background(), loggedInSession(), "c-1", "ABERTO")
	if res.Success || res.Code != CodeValidation {
		t.Errorf("legacy status must be rejected at the boundary, got %+v", res)
	}
}

func TestCounterProposalApproveRequiresValue(t *testing.T) {
	svc := deadService(t)

	res := svc.DecideCounterProposal(context.Background(), loggedInSession(), DecideCounterInput{
		PropostaID: "p-1",
		Acao:       AcaoAprovar,
	})
	if res.Success {
		t.Fatal("approve without valorAcordado must fail locally")
	}
	if res.Code != CodeValidation {
		t.Errorf("expected validation code, got %q", res.Code)
	}
}

func TestCounterProposalRejectNeedsNoValue(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/propostas/p-1/contraproposta/recusar" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":{"id":"p-1","status":"RECUSADA"}}`))
	})

	res := svc.DecideCounterProposal(context.Background(), loggedInSession(), DecideCounterInput{
		PropostaID: "p-1",
		Acao:       AcaoRecusar,
	})
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
}

func TestSendProposalValidatesRange(t *testing.T) {
	svc := deadService(t)

	res := svc.SendProposal(context.Background(), loggedInSession(), SendProposalInput{
		ChamadoID:    "c-1",
		PrestadorIDs: []string{"pr-1"},
		ValorMinimo:  500,
		ValorMaximo:  100,
		PrazoDias:    5,
	})
	if res.Success || res.Code != CodeValidation {
		t.Errorf("inverted price range should fail validation, got %+v", res)
	}
}

func TestGenericUpstreamErrorPassesThrough(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"imóvel não encontrado"}`))
	})

	res := svc.GetProperty(context.Background(), loggedInSession(), "i-404")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Logout != nil {
		t.Error("422 must not force logout")
	}
	if res.Error != "imóvel não encontrado" {
		t.Errorf("expected upstream message passthrough, got %q", res.Error)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := deadService(t)

	res := svc.CreateUser(context.Background(), loggedInSession(), CreateUserInput{
		Nome:     "Novo Usuário",
		Email:    "novo@condy.test",
		UserType: "GERENTE",
		Senha:    "abcdef",
	})
	if res.Success || res.Code != CodeValidation {
		t.Errorf("unknown user type should fail validation, got %+v", res)
	}
}

func TestPlaceholdersReturnTypedNotImplemented(t *testing.T) {
	svc := deadService(t)

	for name, res := range map[string]Result{
		"SystemLogs":       svc.SystemLogs(context.Background()),
		"SystemStats":      svc.SystemStats(context.Background()),
		"AllocateProvider": svc.AllocateProvider(context.Background(), "c-1"),
	} {
		if res.Success {
			t.Errorf("%s: placeholders must not report success", name)
		}
		if res.Code != CodeNotImplemented {
			t.Errorf("%s: expected not_implemented code, got %q", name, res.Code)
		}
		if _, okCast := res.Data.(NotImplemented); !okCast {
			t.Errorf("%s: expected typed NotImplemented payload, got %T", name, res.Data)
		}
	}
}

func TestCheckCPFAvailableStripsFormatting(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("cpf"); got != "12345678901" {
			t.Errorf("expected bare digits, got %q", got)
		}
		_, _ = w.Write([]byte(`{"data":{"available":true}}`))
	})

	res := svc.CheckCPFAvailable(context.Background(), "123.456.789-01")
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
}
