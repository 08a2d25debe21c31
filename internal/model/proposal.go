package model

import "time"

// ProposalStatus tracks the negotiation state of a proposta.
type ProposalStatus string

const (
	ProposalStatusEnviada  ProposalStatus = "ENVIADA"
	ProposalStatusAprovada ProposalStatus = "APROVADA"
	ProposalStatusRecusada ProposalStatus = "RECUSADA"
)

// Valid reports whether s is one of the known proposal states.
func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusEnviada, ProposalStatusAprovada, ProposalStatusRecusada:
		return true
	}
	return false
}

// Proposal links a chamado to a candidate prestador with a suggested price
// range and deadline. Counter-offers reuse the same record with the
// ValorContraproposta/ValorAcordado fields set by the upstream.
type Proposal struct {
	ID                  string         `json:"id"`
	ChamadoID           string         `json:"chamado_id"`
	PrestadorID         string         `json:"prestador_id"`
	ValorMinimo         float64        `json:"valor_minimo"`
	ValorMaximo         float64        `json:"valor_maximo"`
	PrazoDias           int            `json:"prazo_dias"`
	Status              ProposalStatus `json:"status"`
	ValorContraproposta float64        `json:"valor_contraproposta,omitempty"`
	ValorAcordado       float64        `json:"valor_acordado,omitempty"`
	EnviadaEm           time.Time      `json:"enviada_em,omitempty"`
}
