package action

import (
	"context"
	"net/http"
	"net/url"

	"github.com/condyapp/portal/internal/gateway"
	"github.com/condyapp/portal/internal/model"
	"github.com/condyapp/portal/internal/session"
)

// ListProperties lists the imóveis visible to the current session.
func (s *Service) ListProperties(ctx context.Context, sess *session.Session) Result {
	var props []model.Property
	if err := s.gw.Do(ctx, http.MethodGet, "/imoveis", nil, &props, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return ok(props)
}

// GetProperty fetches a single imóvel.
func (s *Service) GetProperty(ctx context.Context, sess *session.Session, id string) Result {
	if id == "" {
		return invalid("Identificador do imóvel é obrigatório.")
	}

	var p model.Property
	if err := s.gw.Do(ctx, http.MethodGet, "/imoveis/"+url.PathEscape(id), nil, &p, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return ok(p)
}

// ListAssets lists the ativos of an imóvel.
func (s *Service) ListAssets(ctx context.Context, sess *session.Session, imovelID string) Result {
	if imovelID == "" {
		return invalid("Identificador do imóvel é obrigatório.")
	}

	path := "/imoveis/" + url.PathEscape(imovelID) + "/ativos"
	var assets []model.Asset
	if err := s.gw.Do(ctx, http.MethodGet, path, nil, &assets, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return ok(assets)
}

// ListProviders lists prestadores, optionally filtered by especialidade.
func (s *Service) ListProviders(ctx context.Context, sess *session.Session, especialidade string) Result {
	path := "/prestadores"
	if especialidade != "" {
		path += "?especialidade=" + url.QueryEscape(especialidade)
	}

	var providers []model.Provider
	if err := s.gw.Do(ctx, http.MethodGet, path, nil, &providers, gateway.WithToken(sess.Token)); err != nil {
		return failure(err)
	}
	return ok(providers)
}
