package action

import "context"

// The upstream has not shipped these endpoints yet. The portal's previous
// incarnation faked them with hardcoded or random data; here they answer
// with an explicit typed NotImplemented result instead.

// SystemLogs would return platform-wide operation logs (admin area).
func (s *Service) SystemLogs(ctx context.Context) Result {
	return notImplemented("Logs do sistema")
}

// SystemStats would return platform-wide usage statistics (admin area).
func (s *Service) SystemStats(ctx context.Context) Result {
	return notImplemented("Estatísticas do sistema")
}

// AllocateProvider would automatically pick the best prestador for a
// chamado.
func (s *Service) AllocateProvider(ctx context.Context, chamadoID string) Result {
	if chamadoID == "" {
		return invalid("Identificador do chamado é obrigatório.")
	}
	return notImplemented("Alocação automática de prestador")
}
