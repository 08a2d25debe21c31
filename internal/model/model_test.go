package model

import "testing"

func TestNormalizeTicketStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want TicketStatus
	}{
		{"ABERTO", TicketStatusNovo},
		{"EM_ANDAMENTO", TicketStatusEmAtendimento},
		{"CONCLUIDO", TicketStatusConcluido},
		{"NOVO", TicketStatusNovo},
		{"A_CAMINHO", TicketStatusACaminho},
		{"EM_ATENDIMENTO", TicketStatusEmAtendimento},
		{"QUALQUER_COISA", TicketStatus("QUALQUER_COISA")},
	}
	for _, c := range cases {
		if got := NormalizeTicketStatus(c.raw); got != c.want {
			t.Errorf("NormalizeTicketStatus(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestNormalizeTicketPriority(t *testing.T) {
	cases := []struct {
		raw  string
		want TicketPriority
	}{
		{"NORMAL", TicketPriorityBaixa},
		{"URGENTE", TicketPriorityMedia},
		{"EMERGENCIA", TicketPriorityAlta},
		{"BAIXA", TicketPriorityBaixa},
		{"ALTA", TicketPriorityAlta},
	}
	for _, c := range cases {
		if got := NormalizeTicketPriority(c.raw); got != c.want {
			t.Errorf("NormalizeTicketPriority(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestUserTypeHomePath(t *testing.T) {
	cases := []struct {
		ut   UserType
		want string
	}{
		{UserTypeAdminPlataforma, "/admin"},
		{UserTypePrestador, "/prestador"},
		{UserTypeSindicoResidente, "/sindico"},
		{UserTypeSindicoProfissional, "/sindico"},
		{UserTypeEmpresa, "/sindico"},
		{UserType("DESCONHECIDO"), "/login"},
	}
	for _, c := range cases {
		if got := c.ut.HomePath(); got != c.want {
			t.Errorf("%s.HomePath() = %q, want %q", c.ut, got, c.want)
		}
	}
}

func TestTicketStatusValid(t *testing.T) {
	if !TicketStatusACaminho.Valid() {
		t.Error("A_CAMINHO should be valid")
	}
	if TicketStatus("ABERTO").Valid() {
		t.Error("legacy ABERTO should not be a valid canonical status")
	}
}
