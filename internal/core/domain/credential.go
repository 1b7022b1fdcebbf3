// internal/core/domain/credential.go
package domain

import (
	"fmt"

	"credprobe/internal/platform/logx"
)

// Credential es un par (username, password). Inmutable; proviene de la
// lista de usuarios y del diccionario de passwords.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// String retorna una representación con el password enmascarado. La
// credencial en claro solo aparece en el reporte final, nunca en logs.
func (c Credential) String() string {
	return fmt.Sprintf("%s:%s", c.Username, logx.Mask(c.Password))
}
