package model

import "time"

// TicketStatus is the canonical chamado lifecycle state. The upstream API
// still reports the older three-state vocabulary on some endpoints
// (ABERTO/EM_ANDAMENTO/CONCLUIDO); NormalizeTicketStatus maps those onto the
// canonical four-state one at the gateway boundary.
type TicketStatus string

const (
	TicketStatusNovo          TicketStatus = "NOVO"
	TicketStatusACaminho      TicketStatus = "A_CAMINHO"
	TicketStatusEmAtendimento TicketStatus = "EM_ATENDIMENTO"
	TicketStatusConcluido     TicketStatus = "CONCLUIDO"
)

// Valid reports whether s is one of the canonical statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNovo, TicketStatusACaminho, TicketStatusEmAtendimento, TicketStatusConcluido:
		return true
	}
	return false
}

// NormalizeTicketStatus maps legacy upstream status values onto the
// canonical vocabulary. Unknown values are returned unchanged so they stay
// visible rather than being silently swallowed.
func NormalizeTicketStatus(raw string) TicketStatus {
	switch raw {
	case "ABERTO":
		return TicketStatusNovo
	case "EM_ANDAMENTO":
		return TicketStatusEmAtendimento
	default:
		return TicketStatus(raw)
	}
}

// TicketPriority is the canonical chamado priority. The upstream mixes two
// spellings per level; NormalizeTicketPriority folds the aliases.
type TicketPriority string

const (
	TicketPriorityBaixa TicketPriority = "BAIXA"
	TicketPriorityMedia TicketPriority = "MEDIA"
	TicketPriorityAlta  TicketPriority = "ALTA"
)

// Valid reports whether p is one of the canonical priorities.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityBaixa, TicketPriorityMedia, TicketPriorityAlta:
		return true
	}
	return false
}

// NormalizeTicketPriority folds upstream aliases onto the canonical levels.
func NormalizeTicketPriority(raw string) TicketPriority {
	switch raw {
	case "NORMAL":
		return TicketPriorityBaixa
	case "URGENTE":
		return TicketPriorityMedia
	case "EMERGENCIA":
		return TicketPriorityAlta
	default:
		return TicketPriority(raw)
	}
}

// Ticket mirrors the upstream chamado entity.
type Ticket struct {
	ID          string         `json:"id"`
	Numero      string         `json:"numero,omitempty"`
	Descricao   string         `json:"descricao"`
	Status      TicketStatus   `json:"status"`
	Prioridade  TicketPriority `json:"prioridade"`
	ImovelID    string         `json:"imovel_id"`
	AtivoID     string         `json:"ativo_id,omitempty"`
	AtivoManual string         `json:"ativo_manual,omitempty"`
	PrestadorID string         `json:"prestador_id,omitempty"`
	CriadoEm    time.Time      `json:"criado_em,omitempty"`
}

// Property mirrors the upstream imóvel entity.
type Property struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Endereco string `json:"endereco,omitempty"`
	Cidade   string `json:"cidade,omitempty"`
	UF       string `json:"uf,omitempty"`
}

// Asset mirrors the upstream ativo entity (elevator, gate, pump, ...).
type Asset struct {
	ID       string `json:"id"`
	ImovelID string `json:"imovel_id"`
	Nome     string `json:"nome"`
	Tipo     string `json:"tipo,omitempty"`
	Local    string `json:"local,omitempty"`
}

// Provider mirrors the upstream prestador entity.
type Provider struct {
	ID            string   `json:"id"`
	Nome          string   `json:"nome"`
	Especialidade string   `json:"especialidade,omitempty"`
	Cidades       []string `json:"cidades,omitempty"`
}
