package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/JTTomasCH/Logicoders/model"
)

// FormatCOP renders a whole-peso amount the way the frontend shows it:
// "$ 1.234.567" with dot thousand separators, no decimals.
func FormatCOP(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var sb strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(c)
	}
	if neg {
		return "$ -" + sb.String()
	}
	return "$ " + sb.String()
}

// FechaCorta turns a stored timestamp into the short display form used on
// the receipt. Unparseable input is shown as-is.
func FechaCorta(ts string) string {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("02/01/2006 15:04")
		}
	}
	return ts
}

func declaredValue(det *model.RecoleccionDetail) int64 {
	if det.DeclaredValue.Valid {
		return det.DeclaredValue.Int64
	}
	return 0
}

// ReceiptHTML builds the full comprobante page for a committed shipment.
// The same markup backs the online view and the PDF capture.
func ReceiptHTML(det *model.RecoleccionDetail) string {
	guia := det.NumeroGuia
	if guia == "" {
		guia = fmt.Sprintf("REC-%d", det.ID)
	}

	var sb strings.Builder

	sb.WriteString(`<!doctype html>
<html lang="es">
<head>
<meta charset="utf-8">
`)
	sb.WriteString(fmt.Sprintf("<title>Comprobante %s</title>\n", html.EscapeString(guia)))
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1" />
<style>
  :root{ --brand:#d89d13; --line:#e6ebf3; --text:#1f2937; --muted:#6b7280; }
  *{ box-sizing:border-box }
  body{ margin:0; font-family:system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif; background:#f6f8fb; color:var(--text) }
  .wrap{ max-width:840px; margin:24px auto; padding:0 16px }
  .card{ background:#fff; border-radius:16px; padding:18px 20px; box-shadow:0 10px 30px rgba(2,8,20,.06) }
  h1{ margin:6px 0 12px; font-size:22px }
  .row{ display:grid; grid-template-columns:1fr 1fr; gap:14px }
  .k{ color:var(--muted); font-size:.9rem }
  .v{ font-weight:700 }
  .badge{ display:inline-block; background:#fff7e6; border:1px solid #f3d19a; color:#a66400; border-radius:999px; padding:4px 10px; font-weight:700; font-size:.85rem }
  hr{ border:none; border-top:1px solid var(--line); margin:14px 0 }
  .actions{ display:flex; gap:10px; flex-wrap:wrap; margin-top:12px }
  .btn{ background:var(--brand); color:#fff; border:none; padding:10px 14px; border-radius:10px; text-decoration:none; font-weight:700; }
  .muted{ color:var(--muted) }
  .grid-3{ display:grid; grid-template-columns:1fr 1fr 1fr; gap:12px }
  @media (max-width:820px){ .row, .grid-3{ grid-template-columns:1fr } }
</style>
</head>
<body>
  <div class="wrap">
    <div class="card">
      <h1>Comprobante de solicitud</h1>
`)

	sb.WriteString(`      <div class="row">` + "\n")
	writeKV(&sb, "Número de guía", guia)
	writeKV(&sb, "Fecha de creación", FechaCorta(det.CreatedAt))
	writeKV(&sb, "Forma de pago", det.PaymentMethod)
	writeKV(&sb, "Valor estimado", FormatCOP(int64(det.PriceCop)))
	sb.WriteString(`      </div>
      <hr>
      <div class="grid-3">` + "\n")
	writeKV(&sb, "Producto", det.ProductType)
	writeKV(&sb, "Tiempo", det.DeliveryTime)
	writeKV(&sb, "Valor declarado", FormatCOP(declaredValue(det)))
	sb.WriteString(`      </div>
      <hr>
      <div class="row">
`)

	sb.WriteString(`        <div>
          <div class="k">Remitente</div>
`)
	sb.WriteString(fmt.Sprintf(`          <div class="v">%s <span class="muted">(%s)</span></div>`+"\n",
		html.EscapeString(det.RemNombre), html.EscapeString(det.RemTel)))
	sb.WriteString(fmt.Sprintf(`          <div class="muted">%s · %s</div>`+"\n",
		html.EscapeString(det.RemDir), html.EscapeString(det.CityFromLabel)))
	sb.WriteString(`        </div>
        <div>
          <div class="k">Destinatario</div>
`)
	sb.WriteString(fmt.Sprintf(`          <div class="v">%s <span class="muted">(%s)</span></div>`+"\n",
		html.EscapeString(det.DestNombre), html.EscapeString(det.DestTel)))
	sb.WriteString(fmt.Sprintf(`          <div class="muted">%s · <span class="badge">%s</span></div>`+"\n",
		html.EscapeString(det.DestDir), html.EscapeString(det.CityToLabel)))
	sb.WriteString(`        </div>
      </div>
      <hr>
      <div class="row">` + "\n")
	writeKV(&sb, "Programación", fmt.Sprintf("%s %s", det.PickupDate, shortHour(det.PickupHour)))
	writeKV(&sb, "Transporte", det.TransportType)
	sb.WriteString(`      </div>` + "\n")

	if det.Notes.Valid && det.Notes.String != "" {
		sb.WriteString(`      <hr>
      <div>
        <div class="k">Observaciones</div>
`)
		sb.WriteString(fmt.Sprintf(`        <div class="v">%s</div>`+"\n", html.EscapeString(det.Notes.String)))
		sb.WriteString(`      </div>` + "\n")
	}

	sb.WriteString(fmt.Sprintf(`      <div class="actions">
        <a class="btn" href="/api/recolecciones/%d/comprobante.pdf?download=1">Descargar PDF</a>
        <a class="btn" href="/panelRemitente.html">Volver al panel</a>
      </div>
    </div>
  </div>
</body>
</html>
`, det.ID))

	return sb.String()
}

// ReceiptMailHTML is the short mail body that accompanies the attached PDF.
func ReceiptMailHTML(det *model.RecoleccionDetail, viewURL string) string {
	guia := det.NumeroGuia
	if guia == "" {
		guia = fmt.Sprintf("REC-%d", det.ID)
	}

	var sb strings.Builder
	sb.WriteString(`<div style="font-family:Segoe UI,Roboto,Helvetica,Arial,sans-serif">` + "\n")
	sb.WriteString(`  <h2 style="margin:0 0 8px">Comprobante de solicitud</h2>` + "\n")
	sb.WriteString(fmt.Sprintf(`  <p style="margin:0 0 8px">Guía: <b>%s</b></p>`+"\n", html.EscapeString(guia)))
	sb.WriteString(fmt.Sprintf(`  <p style="margin:0 0 8px">Destinatario: <b>%s</b> · %s · %s</p>`+"\n",
		html.EscapeString(det.DestNombre), html.EscapeString(det.DestDir), html.EscapeString(det.CityToLabel)))
	sb.WriteString(fmt.Sprintf(`  <p style="margin:0 0 12px">Valor declarado: <b>%s</b></p>`+"\n", FormatCOP(declaredValue(det))))
	sb.WriteString(fmt.Sprintf(`  <p style="margin:0 0 16px">Puedes <a href="%s">ver el comprobante en línea</a> o revisar el PDF adjunto.</p>`+"\n", viewURL))
	sb.WriteString(`</div>` + "\n")
	return sb.String()
}

func writeKV(sb *strings.Builder, k, v string) {
	sb.WriteString(`        <div>` + "\n")
	sb.WriteString(fmt.Sprintf(`          <div class="k">%s</div>`+"\n", html.EscapeString(k)))
	sb.WriteString(fmt.Sprintf(`          <div class="v">%s</div>`+"\n", html.EscapeString(v)))
	sb.WriteString(`        </div>` + "\n")
}

func shortHour(h string) string {
	if len(h) >= 5 {
		return h[:5]
	}
	return h
}
