package model

// UserType identifies the role a user holds on the platform.
type UserType string

const (
	UserTypeSindicoResidente    UserType = "SINDICO_RESIDENTE"
	UserTypeSindicoProfissional UserType = "SINDICO_PROFISSIONAL"
	UserTypeEmpresa             UserType = "EMPRESA"
	UserTypePrestador           UserType = "PRESTADOR"
	UserTypeAdminPlataforma     UserType = "ADMIN_PLATAFORMA"
)

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeSindicoResidente, UserTypeSindicoProfissional,
		UserTypeEmpresa, UserTypePrestador, UserTypeAdminPlataforma:
		return true
	}
	return false
}

// IsSindico reports whether the type is one of the building-manager roles.
func (t UserType) IsSindico() bool {
	return t == UserTypeSindicoResidente || t == UserTypeSindicoProfissional || t == UserTypeEmpresa
}

// HomePath returns the dashboard area for the role.
func (t UserType) HomePath() string {
	switch {
	case t == UserTypeAdminPlataforma:
		return "/admin"
	case t == UserTypePrestador:
		return "/prestador"
	case t.IsSindico():
		return "/sindico"
	}
	return "/login"
}

// UserStatus is the account state as reported by the upstream API.
type UserStatus string

const (
	UserStatusAtivo               UserStatus = "ATIVO"
	UserStatusInativo             UserStatus = "INATIVO"
	UserStatusBloqueado           UserStatus = "BLOQUEADO"
	UserStatusPendente            UserStatus = "PENDENTE"
	UserStatusDocumentosPendentes UserStatus = "DOCUMENTOS_PENDENTES"
)

// Valid reports whether s is one of the known account states.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusAtivo, UserStatusInativo, UserStatusBloqueado,
		UserStatusPendente, UserStatusDocumentosPendentes:
		return true
	}
	return false
}

// User mirrors the upstream user entity. The upstream API owns the record;
// the portal only reads and forwards it.
type User struct {
	ID       string     `json:"id"`
	Nome     string     `json:"nome"`
	Email    string     `json:"email"`
	CPF      string     `json:"cpf,omitempty"`
	Telefone string     `json:"telefone,omitempty"`
	UserType UserType   `json:"userType"`
	Status   UserStatus `json:"status,omitempty"`
}
