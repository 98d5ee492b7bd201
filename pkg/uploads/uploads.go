package uploads

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"celulas.app/configs"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrFormatoInvalido rejeita comprovantes fora dos formatos aceitos.
var ErrFormatoInvalido = errors.New("o comprovante deve ser JPG, PNG ou PDF")

// MaxComprovanteBytes limita o tamanho do arquivo enviado (5 MB).
const MaxComprovanteBytes = 5 << 20

var extensoesAceitas = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// SalvarComprovante grava o arquivo enviado com nome aleatório dentro do
// diretório de uploads e devolve o caminho relativo persistido na inscrição.
func SalvarComprovante(c *fiber.Ctx, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !extensoesAceitas[ext] {
		return "", ErrFormatoInvalido
	}
	if fh.Size > MaxComprovanteBytes {
		return "", errors.New("o comprovante não pode passar de 5 MB")
	}

	dir := filepath.Join(configs.UploadDir(), "comprovantes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	destino := filepath.Join(dir, uuid.NewString()+ext)
	if err := c.SaveFile(fh, destino); err != nil {
		return "", err
	}
	return destino, nil
}
