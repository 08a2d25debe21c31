package action

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/condyapp/portal/internal/gateway"
	"github.com/condyapp/portal/internal/model"
	"github.com/condyapp/portal/internal/session"
)

// ListTicketsInput filters the chamado listing. All fields optional.
type ListTicketsInput struct {
	Status   string `json:"status"`
	ImovelID string `json:"imovel_id"`
}

// ListTickets returns the chamados visible to the current session's role.
func (s *Service) ListTickets(ctx context.Context, sess *session.Session, in ListTicketsInput) Result {
	q := url.Values{}
	if in.Status != "" {
		st := model.NormalizeTicketStatus(in.Status)
		if !st.Valid() {
			return invalid("Status de chamado desconhecido.")
		}
		q.Set("status", string(st))
	}
	if in.ImovelID != "" {
		q.Set("imovel_id", in.ImovelID)
	}

	path := "/chamados"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var tickets []model.Ticket
	if err := s.gw.Do(ctx, http.MethodGet, path, nil, &tickets, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}

	for i := range tickets {
		tickets[i].Status = model.NormalizeTicketStatus(string(tickets[i].Status))
		tickets[i].Prioridade = model.NormalizeTicketPriority(string(tickets[i].Prioridade))
	}
	return ok(tickets)
}

// GetTicket fetches a single chamado.
func (s *Service) GetTicket(ctx context.Context, sess *session.Session, id string) Result {
	if id == "" {
		return invalid("Identificador do chamado é obrigatório.")
	}

	var t model.Ticket
	if err := s.gw.Do(ctx, http.MethodGet, "/chamados/"+url.PathEscape(id), nil, &t, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}

	t.Status = model.NormalizeTicketStatus(string(t.Status))
	t.Prioridade = model.NormalizeTicketPriority(string(t.Prioridade))
	return ok(t)
}

// CreateTicketInput is the new-chamado form payload.
type CreateTicketInput struct {
	Descricao   string `json:"descricao"`
	ImovelID    string `json:"imovel_id"`
	AtivoID     string `json:"ativo_id"`
	AtivoManual string `json:"ativo_manual"`
	Prioridade  string `json:"prioridade"`
}

// CreateTicket validates the form and creates a chamado upstream. The
// asset reference rule: exactly one of ativo_id / ativo_manual must be
// given, and the check runs before any network call.
func (s *Service) CreateTicket(ctx context.Context, sess *session.Session, in CreateTicketInput) Result {
	in.Descricao = strings.TrimSpace(in.Descricao)
	in.AtivoManual = strings.TrimSpace(in.AtivoManual)

	if in.Descricao == "" {
		return invalid("Descreva o problema.")
	}
	if in.ImovelID == "" {
		return invalid("Selecione o imóvel.")
	}
	if in.AtivoID == "" && in.AtivoManual == "" {
		return invalid("Selecione um ativo ou descreva o ativo manualmente.")
	}
	if in.AtivoID != "" && in.AtivoManual != "" {
		return invalid("Informe o ativo ou a descrição manual, não ambos.")
	}

	prio := model.NormalizeTicketPriority(in.Prioridade)
	if !prio.Valid() {
		return invalid("Prioridade desconhecida.")
	}
	in.Prioridade = string(prio)

	var t model.Ticket
	if err := s.gw.Do(ctx, http.MethodPost, "/chamados", in, &t, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(t, "Chamado aberto com sucesso.")
}

// UpdateTicketInput carries editable chamado fields. Empty fields are left
// untouched by the upstream.
type UpdateTicketInput struct {
	Descricao  string `json:"descricao,omitempty"`
	Prioridade string `json:"prioridade,omitempty"`
}

// UpdateTicket edits a chamado's description or priority.
func (s *Service) UpdateTicket(ctx context.Context, sess *session.Session, id string, in UpdateTicketInput) Result {
	if id == "" {
		return invalid("Identificador do chamado é obrigatório.")
	}
	if in.Descricao == "" && in.Prioridade == "" {
		return invalid("Nada para atualizar.")
	}
	if in.Prioridade != "" {
		prio := model.NormalizeTicketPriority(in.Prioridade)
		if !prio.Valid() {
			return invalid("Prioridade desconhecida.")
		}
		in.Prioridade = string(prio)
	}

	var t model.Ticket
	if err := s.gw.Do(ctx, http.MethodPut, "/chamados/"+url.PathEscape(id), in, &t, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(t, "Chamado atualizado.")
}

// UpdateTicketStatus moves a chamado to a new lifecycle state. Only the
// canonical vocabulary is accepted from callers.
func (s *Service) UpdateTicketStatus(ctx context.Context, sess *session.Session, id, status string) Result {
	if id == "" {
		return invalid("Identificador do chamado é obrigatório.")
	}
	st := model.TicketStatus(status)
	if !st.Valid() {
		return invalid("Status de chamado desconhecido.")
	}

	body := map[string]string{"status": string(st)}
	var t model.Ticket
	if err := s.gw.Do(ctx, http.MethodPut, "/chamados/"+url.PathEscape(id)+"/status", body, &t, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(t, "Status atualizado.")
}

// AssignProvider links a prestador to a chamado.
func (s *Service) AssignProvider(ctx context.Context, sess *session.Session, ticketID, providerID string) Result {
	if ticketID == "" {
		return invalid("Identificador do chamado é obrigatório.")
	}
	if providerID == "" {
		return invalid("Selecione o prestador.")
	}

	body := map[string]string{"prestador_id": providerID}
	var t model.Ticket
	if err := s.gw.Do(ctx, http.MethodPut, "/chamados/"+url.PathEscape(ticketID)+"/prestador", body, &t, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(t, "Prestador vinculado ao chamado.")
}
