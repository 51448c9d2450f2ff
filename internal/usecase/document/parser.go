package document

import (
	"regexp"
	"strconv"
	"strings"

	docDomain "crediflow-backend/internal/domain/document"
)

// Pattern rules keyed by document type. Label matching is case-insensitive
// and tolerates plural forms; when a pattern matches more than once the
// first match in document order wins.
var (
	reDNINumero    = regexp.MustCompile(`\b(\d{1,2}\.\d{3}\.\d{3}|\d{7,8})\b`)
	reApellido     = regexp.MustCompile(`(?i)^\s*apellidos?\b[.:\s]*(.*)$`)
	reNombre       = regexp.MustCompile(`(?i)^\s*nombres?\b[.:\s]*(.*)$`)
	reCUIT         = regexp.MustCompile(`(?i)\bc\.?u\.?i\.?t\.?\b[.:\s]*(\d{2}-\d{8}-\d)`)
	reTitular      = regexp.MustCompile(`(?i)^\s*(?:clientes?|titulares?)\b[.:\s]*(.*)$`)
	reTotalActivo  = regexp.MustCompile(`(?i)total\s+activos?\b[.:\s]*\$?\s*([\d.,]+)`)
	rePeriodo      = regexp.MustCompile(`(?i)^\s*per[ií]odos?\b[.:\s]*(.*)$`)
	reFailureText  = regexp.MustCompile(`(?i)^error\b`)
)

// ParseFields applies the pattern table for tipo to extracted text. It is a
// pure function: no I/O, deterministic. It returns nil -- never an empty
// map -- when the text is unusable or no field matched, so callers can tell
// "found nothing" apart from "found an empty record".
func ParseFields(tipo docDomain.Type, text string) docDomain.ExtractedFields {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || reFailureText.MatchString(trimmed) {
		return nil
	}

	fields := docDomain.ExtractedFields{}
	lines := splitLines(trimmed)

	switch tipo {
	case docDomain.TypeDNI:
		if m := reDNINumero.FindString(trimmed); m != "" {
			fields["numero_documento"] = strings.ReplaceAll(m, ".", "")
		}
		if v := labelValue(lines, reApellido); v != "" {
			fields["apellido"] = v
		}
		if v := labelValue(lines, reNombre); v != "" {
			fields["nombre"] = v
		}

	case docDomain.TypeCUIT:
		if m := reCUIT.FindStringSubmatch(trimmed); m != nil {
			fields["cuit"] = m[1]
		}

	case docDomain.TypeComprobanteDomicilio:
		if v := labelValue(lines, reTitular); v != "" {
			fields["titular"] = v
		}

	case docDomain.TypeBalanceContable:
		if m := reTotalActivo.FindStringSubmatch(trimmed); m != nil {
			if monto, ok := parseMonto(m[1]); ok {
				fields["total_activo"] = monto
			}
		}

	case docDomain.TypeDeclaracionImpuestos:
		if v := labelValue(lines, rePeriodo); v != "" {
			fields["periodo"] = v
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// labelValue finds the first line matching the label pattern and returns the
// capture on the same line, or, when the label stands alone, the next
// non-empty line.
func labelValue(lines []string, re *regexp.Regexp) string {
	for i, line := range lines {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
		for _, next := range lines[i+1:] {
			if v := strings.TrimSpace(next); v != "" {
				return v
			}
		}
		return ""
	}
	return ""
}

// parseMonto reads currency amounts in local formatting: dots as thousands
// separators, comma as the decimal mark ("1.234.567,00" -> 1234567.00).
// Amounts without a comma keep a single dot as the decimal mark.
func parseMonto(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, ".,")
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
