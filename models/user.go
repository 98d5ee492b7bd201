package models

import "time"

// Role distingue o escopo de um perfil: admin enxerga tudo, líder somente a
// própria célula.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleLider Role = "lider"
)

// User é o perfil autenticado do sistema. CelulaID fica nulo até o usuário
// resgatar uma chave de ativação.
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(150);uniqueIndex;not null"`
	SenhaHash    string     `gorm:"type:varchar(255);not null"`
	NomeCompleto string     `gorm:"type:varchar(150)"`
	Telefone     string     `gorm:"type:varchar(20)"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'lider';index"`
	CelulaID     *uint      `gorm:"index"`
	Ativo        bool       `gorm:"default:true"`
	LastSignInAt *time.Time

	Celula *Celula `gorm:"foreignKey:CelulaID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// IsAdmin reporta se o perfil tem escopo global.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
