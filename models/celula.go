package models

// Celula é a unidade organizacional primária: membros, visitantes, reuniões
// e chaves de ativação pertencem a exatamente uma célula.
type Celula struct {
	BaseModel
	Nome           string `gorm:"type:varchar(150);uniqueIndex;not null"`
	LiderPrincipal string `gorm:"type:varchar(150)"`
	Endereco       string `gorm:"type:varchar(255)"`

	Membros    []Membro        `gorm:"foreignKey:CelulaID"`
	Visitantes []Visitante     `gorm:"foreignKey:CelulaID"`
	Reunioes   []Reuniao       `gorm:"foreignKey:CelulaID"`
	Chaves     []ChaveAtivacao `gorm:"foreignKey:CelulaID"`
}
