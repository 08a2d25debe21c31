package action

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/condyapp/portal/internal/model"
)

// LoginInput is the credentials form payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginOutput carries everything the web layer needs to establish the
// session and send the user to the right dashboard.
type LoginOutput struct {
	Token    string      `json:"-"`
	User     *model.User `json:"user"`
	Redirect string      `json:"redirect"`
}

// Login authenticates against the upstream API. The caller (web layer)
// creates the session cookie from the returned token and user.
func (s *Service) Login(ctx context.Context, in LoginInput) Result {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return invalid("Informe um email válido.")
	}
	if len(in.Password) < 6 {
		return invalid("A senha deve ter pelo menos 6 caracteres.")
	}

	var out struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	if err := s.gw.Do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return failure(err)
	}
	if out.Token == "" || out.User == nil {
		return Result{Success: false, Error: "Resposta inesperada do servidor.", Code: CodeUnknown}
	}

	return ok(LoginOutput{
		Token:    out.Token,
		User:     out.User,
		Redirect: out.User.UserType.HomePath(),
	})
}

// CheckEmailAvailable asks the upstream whether an email is free to
// register.
func (s *Service) CheckEmailAvailable(ctx context.Context, email string) Result {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return invalid("Informe um email válido.")
	}

	var out struct {
		Available bool `json:"available"`
	}
	path := "/auth/email-disponivel?email=" + url.QueryEscape(email)
	if err := s.gw.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return failure(err)
	}
	return ok(out)
}

// CheckCPFAvailable asks the upstream whether a CPF is free to register.
// Only shape is validated here; digit verification is the upstream's call.
func (s *Service) CheckCPFAvailable(ctx context.Context, cpf string) Result {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cpf)
	if len(digits) != 11 {
		return invalid("CPF deve conter 11 dígitos.")
	}

	var out struct {
		Available bool `json:"available"`
	}
	path := "/auth/cpf-disponivel?cpf=" + url.QueryEscape(digits)
	if err := s.gw.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return failure(err)
	}
	return ok(out)
}
