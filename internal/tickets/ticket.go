// Package tickets renders plain-text counter tickets for finalized sales.
package tickets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/sales"
)

const ticketTemplate = `        CUERAMARO PRIME
      Carnes y Abarrotes
--------------------------------
Folio:  {{.Folio}}
Fecha:  {{.CreatedAt.Format "02/01/2006 15:04"}}
--------------------------------
{{range .Lines}}{{printf "%-20.20s" .ProductName}}
  {{printf "%8.3f" .Quantity}} x {{printf "%8.2f" .UnitPrice}}{{if gt .Discount 0.0}}  -{{printf "%.2f" .Discount}}{{end}} = {{printf "%9.2f" .LineTotal}}
{{end}}--------------------------------
TOTAL:       {{printf "%12.2f" .Total}}
Metodo:      {{.PaymentMethod}}
Pagado:      {{printf "%12.2f" .PaidAmount}}
{{if .CreditDueDate}}Vence:       {{.CreditDueDate.Format "02/01/2006"}}
{{end}}{{if .Notes}}Nota: {{.Notes}}
{{end}}--------------------------------
     GRACIAS POR SU COMPRA
`

// Renderer writes one .txt file per sale into the ticket directory.
type Renderer struct {
	dir  string
	tmpl *template.Template
}

// NewRenderer builds a Renderer, creating the directory when needed.
func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tickets: create dir: %w", err)
	}
	tmpl, err := template.New("ticket").Parse(ticketTemplate)
	if err != nil {
		return nil, fmt.Errorf("tickets: parse template: %w", err)
	}
	return &Renderer{dir: dir, tmpl: tmpl}, nil
}

// Render produces the ticket file and returns its path.
func (r *Renderer) Render(sale sales.Sale) (string, error) {
	var buf strings.Builder
	if err := r.tmpl.Execute(&buf, sale); err != nil {
		return "", fmt.Errorf("tickets: render %s: %w", sale.Folio, err)
	}
	path := filepath.Join(r.dir, sale.Folio+".txt")
	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return "", fmt.Errorf("tickets: write %s: %w", path, err)
	}
	return path, nil
}
