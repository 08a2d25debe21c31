package action

import (
	"context"
	"net/http"
	"net/url"

	"github.com/condyapp/portal/internal/gateway"
	"github.com/condyapp/portal/internal/model"
	"github.com/condyapp/portal/internal/session"
)

// SendProposalInput is the send-proposal form payload.
type SendProposalInput struct {
	ChamadoID    string   `json:"chamado_id"`
	PrestadorIDs []string `json:"prestador_ids"`
	ValorMinimo  float64  `json:"valor_minimo"`
	ValorMaximo  float64  `json:"valor_maximo"`
	PrazoDias    int      `json:"prazo_dias"`
	Observacoes  string   `json:"observacoes,omitempty"`
}

// SendProposal sends a proposta to one or more candidate prestadores.
func (s *Service) SendProposal(ctx context.Context, sess *session.Session, in SendProposalInput) Result {
	if in.ChamadoID == "" {
		return invalid("Identificador do chamado é obrigatório.")
	}
	if len(in.PrestadorIDs) == 0 {
		return invalid("Selecione pelo menos um prestador.")
	}
	if in.ValorMinimo < 0 || in.ValorMaximo <= 0 {
		return invalid("Informe uma faixa de valores válida.")
	}
	if in.ValorMinimo > in.ValorMaximo {
		return invalid("O valor mínimo não pode ser maior que o máximo.")
	}
	if in.PrazoDias <= 0 {
		return invalid("Informe um prazo em dias maior que zero.")
	}

	var props []model.Proposal
	if err := s.gw.Do(ctx, http.MethodPost, "/propostas", in, &props, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(props, "Proposta enviada.")
}

// AcceptProposal accepts a proposta on the prestador side.
func (s *Service) AcceptProposal(ctx context.Context, sess *session.Session, proposalID string) Result {
	if proposalID == "" {
		return invalid("Identificador da proposta é obrigatório.")
	}

	var p model.Proposal
	if err := s.gw.Do(ctx, http.MethodPost, "/propostas/"+url.PathEscape(proposalID)+"/aceitar", nil, &p, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(p, "Proposta aceita.")
}

// RejectProposal rejects a proposta, optionally with a reason.
func (s *Service) RejectProposal(ctx context.Context, sess *session.Session, proposalID, motivo string) Result {
	if proposalID == "" {
		return invalid("Identificador da proposta é obrigatório.")
	}

	var body any
	if motivo != "" {
		body = map[string]string{"motivo": motivo}
	}
	var p model.Proposal
	if err := s.gw.Do(ctx, http.MethodPost, "/propostas/"+url.PathEscape(proposalID)+"/recusar", body, &p, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(p, "Proposta recusada.")
}

// Counter-proposal decisions.
const (
	AcaoAprovar = "aprovar"
	AcaoRecusar = "recusar"
)

// DecideCounterInput is the counter-proposal decision payload.
type DecideCounterInput struct {
	PropostaID    string  `json:"proposta_id"`
	Acao          string  `json:"acao"`
	ValorAcordado float64 `json:"valorAcordado,omitempty"`
}

// DecideCounterProposal approves or rejects a prestador's counter-offer.
// Approval requires the agreed value; the check is local and runs before
// the approve endpoint is ever called.
func (s *Service) DecideCounterProposal(ctx context.Context, sess *session.Session, in DecideCounterInput) Result {
	if in.PropostaID == "" {
		return invalid("Identificador da proposta é obrigatório.")
	}
	if in.Acao != AcaoAprovar && in.Acao != AcaoRecusar {
		return invalid("Ação deve ser aprovar ou recusar.")
	}
	if in.Acao == AcaoAprovar && in.ValorAcordado <= 0 {
		return invalid("Informe o valor acordado para aprovar a contraproposta.")
	}

	path := "/propostas/" + url.PathEscape(in.PropostaID) + "/contraproposta/" + in.Acao
	var body any
	if in.Acao == AcaoAprovar {
		body = map[string]float64{"valorAcordado": in.ValorAcordado}
	}

	var p model.Proposal
	if err := s.gw.Do(ctx, http.MethodPost, path, body, &p, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}

	msg := "Contraproposta recusada."
	if in.Acao == AcaoAprovar {
		msg = "Contraproposta aprovada."
	}
	return okMessage(p, msg)
}

// ListProposals lists propostas, optionally scoped to a chamado.
func (s *Service) ListProposals(ctx context.Context, sess *session.Session, chamadoID string) Result {
	path := "/propostas"
	if chamadoID != "" {
		path += "?chamado_id=" + url.QueryEscape(chamadoID)
	}

	var props []model.Proposal
	if err := s.gw.Do(ctx, http.MethodGet, path, nil, &props, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return ok(props)
}
