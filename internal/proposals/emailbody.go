package proposals

import (
	"bytes"
	"html/template"
)

var proposalEmailTmpl = template.Must(template.New("proposal").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 640px;">
  <h2>{{.Title}}</h2>
  <p>Dear {{.RecipientName}},</p>
  <p>Please find our proposal for {{.BusinessName}} below.</p>
  <table style="width: 100%; border-collapse: collapse;">
    <thead>
      <tr>
        <th style="text-align: left; border-bottom: 1px solid #ddd; padding: 8px;">Item</th>
        <th style="text-align: right; border-bottom: 1px solid #ddd; padding: 8px;">Qty</th>
        <th style="text-align: right; border-bottom: 1px solid #ddd; padding: 8px;">Unit price</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td style="padding: 8px;">{{.Description}}</td>
        <td style="text-align: right; padding: 8px;">{{.Quantity}}</td>
        <td style="text-align: right; padding: 8px;">${{printf "%.2f" .UnitPrice}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <p style="text-align: right;">
    Subtotal: ${{printf "%.2f" .Totals.Subtotal}}<br>
    {{if gt .Totals.Discount 0.0}}Discount: -${{printf "%.2f" .Totals.Discount}}<br>{{end}}
    <strong>Total: ${{printf "%.2f" .Totals.Total}}</strong>
  </p>
  {{if .ValidUntil}}<p>This proposal is valid until {{.ValidUntil}}.</p>{{end}}
  <p>We look forward to working with you.</p>
</div>
`))

type emailBodyData struct {
	Title         string
	RecipientName string
	BusinessName  string
	Items         []LineItem
	Totals        Totals
	ValidUntil    string
}

func renderProposalEmail(data emailBodyData) (string, error) {
	var buf bytes.Buffer
	if err := proposalEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
