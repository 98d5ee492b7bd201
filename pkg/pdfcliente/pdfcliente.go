package pdfcliente

import (
	"errors"
	"fmt"
	"time"

	"celulas.app/configs/configslog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrServicoPDF é a falha visível ao usuário quando o renderizador externo
// não responde ou responde com erro. Sem retry e sem fallback silencioso.
var ErrServicoPDF = errors.New("não foi possível gerar o relatório em PDF")

// Payload é o contrato do renderizador: título + conteúdo estruturado.
type Payload struct {
	ReportType string `json:"report_type"`
	Title      string `json:"title"`
	Content    any    `json:"content"`
}

// IPDFCliente abstrai o colaborador externo de PDF.
type IPDFCliente interface {
	Gerar(payload Payload) ([]byte, error)
}

// PDFCliente chama o serviço HTTP de renderização.
type PDFCliente struct {
	url     string
	timeout time.Duration
}

// NewPDFCliente cria um cliente apontando para url.
func NewPDFCliente(url string) *PDFCliente {
	return &PDFCliente{url: url, timeout: 30 * time.Second}
}

// Gerar envia o payload e devolve os bytes do PDF. Qualquer falha de
// transporte ou status != 200 vira ErrServicoPDF.
func (c *PDFCliente) Gerar(payload Payload) ([]byte, error) {
	agent := fiber.AcquireAgent()
	defer fiber.ReleaseAgent(agent)

	req := agent.Request()
	req.Header.SetMethod(fiber.MethodPost)
	req.SetRequestURI(c.url)
	agent.Timeout(c.timeout)
	agent.JSON(payload)

	if err := agent.Parse(); err != nil {
		configslog.Log.Error("PDFCliente: requisição inválida", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrServicoPDF, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		configslog.Log.Error("PDFCliente: falha de transporte", zap.String("url", c.url), zap.Errors("errs", errs))
		return nil, fmt.Errorf("%w: %v", ErrServicoPDF, errs[0])
	}
	if code != fiber.StatusOK {
		configslog.Log.Error("PDFCliente: serviço respondeu com erro", zap.Int("status", code))
		return nil, fmt.Errorf("%w: serviço respondeu %d", ErrServicoPDF, code)
	}
	return body, nil
}

var _ IPDFCliente = (*PDFCliente)(nil)
