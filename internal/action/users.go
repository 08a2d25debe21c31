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

// ListUsers lists platform users (admin area).
func (s *Service) ListUsers(ctx context.Context, sess *session.Session, userType string) Result {
	path := "/usuarios"
	if userType != "" {
		if !model.UserType(userType).Valid() {
			return invalid("Tipo de usuário desconhecido.")
		}
		path += "?userType=" + url.QueryEscape(userType)
	}

	var users []model.User
	if err := s.gw.Do(ctx, http.MethodGet, path, nil, &users, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return ok(users)
}

// GetUser fetches a single user.
func (s *Service) GetUser(ctx context.Context, sess *session.Session, id string) Result {
	if id == "" {
		return invalid("Identificador do usuário é obrigatório.")
	}

	var u model.User
	if err := s.gw.Do(ctx, http.MethodGet, "/usuarios/"+url.PathEscape(id), nil, &u, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return ok(u)
}

// CreateUserInput is the new-user form payload (admin area).
type CreateUserInput struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	CPF      string `json:"cpf"`
	Telefone string `json:"telefone,omitempty"`
	UserType string `json:"userType"`
	Senha    string `json:"senha"`
}

// CreateUser registers a new platform user upstream.
func (s *Service) CreateUser(ctx context.Context, sess *session.Session, in CreateUserInput) Result {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Email = strings.TrimSpace(in.Email)

	if in.Nome == "" {
		return invalid("Informe o nome.")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return invalid("Informe um email válido.")
	}
	if !model.UserType(in.UserType).Valid() {
		return invalid("Tipo de usuário desconhecido.")
	}
	if len(in.Senha) < 6 {
		return invalid("A senha deve ter pelo menos 6 caracteres.")
	}

	var u model.User
	if err := s.gw.Do(ctx, http.MethodPost, "/usuarios", in, &u, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(u, "Usuário criado.")
}

// UpdateUserInput carries editable user fields.
type UpdateUserInput struct {
	Nome     string `json:"nome,omitempty"`
	Telefone string `json:"telefone,omitempty"`
}

// UpdateUser edits a user's profile fields.
func (s *Service) UpdateUser(ctx context.Context, sess *session.Session, id string, in UpdateUserInput) Result {
	if id == "" {
		return invalid("Identificador do usuário é obrigatório.")
	}
	if in.Nome == "" && in.Telefone == "" {
		return invalid("Nada para atualizar.")
	}

	var u model.User
	if err := s.gw.Do(ctx, http.MethodPut, "/usuarios/"+url.PathEscape(id), in, &u, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(u, "Usuário atualizado.")
}

// UpdateUserStatus changes a user's account state (activate, block, ...).
func (s *Service) UpdateUserStatus(ctx context.Context, sess *session.Session, id, status string) Result {
	if id == "" {
		return invalid("Identificador do usuário é obrigatório.")
	}
	if !model.UserStatus(status).Valid() {
		return invalid("Status de usuário desconhecido.")
	}

	body := map[string]string{"status": status}
	var u model.User
	if err := s.gw.Do(ctx, http.MethodPut, "/usuarios/"+url.PathEscape(id)+"/status", body, &u, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(u, "Status do usuário atualizado.")
}

// DeleteUser removes a user.
func (s *Service) DeleteUser(ctx context.Context, sess *session.Session, id string) Result {
	if id == "" {
		return invalid("Identificador do usuário é obrigatório.")
	}

	if err := s.gw.Do(ctx, http.MethodDelete, "/usuarios/"+url.PathEscape(id), nil, nil, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return okMessage(nil, "Usuário removido.")
}
