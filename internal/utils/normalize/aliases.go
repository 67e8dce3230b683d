package normalize

import (
	"sort"
	"strings"
)

// Canonical field names.
const (
	fieldNumber        = "transaction_number"
	fieldDate          = "transaction_date"
	fieldCounterparty  = "counterparty"
	fieldDescription   = "description"
	fieldQuantity      = "quantity"
	fieldUnitPrice     = "unit_price"
	fieldSubtotal      = "subtotal"
	fieldTax           = "tax_amount"
	fieldTotal         = "amount"
	fieldCategory      = "category"
	fieldStatus        = "status"
	fieldPaymentMethod = "payment_method"
)

// columnAliases maps normalized source headers onto canonical fields.
var columnAliases = map[string]string{
	"factura":            fieldNumber,
	"numero factura":     fieldNumber,
	"número factura":     fieldNumber,
	"no. factura":        fieldNumber,
	"invoice":            fieldNumber,
	"invoice number":     fieldNumber,
	"number":             fieldNumber,
	"transaction_number": fieldNumber,

	"fecha":            fieldDate,
	"date":             fieldDate,
	"transaction_date": fieldDate,

	"cliente":      fieldCounterparty,
	"customer":     fieldCounterparty,
	"client":       fieldCounterparty,
	"proveedor":    fieldCounterparty,
	"supplier":     fieldCounterparty,
	"vendor":       fieldCounterparty,
	"counterparty": fieldCounterparty,

	"producto":    fieldDescription,
	"descripcion": fieldDescription,
	"descripción": fieldDescription,
	"product":     fieldDescription,
	"description": fieldDescription,

	"cantidad": fieldQuantity,
	"quantity": fieldQuantity,
	"qty":      fieldQuantity,

	"precio unitario": fieldUnitPrice,
	"precio":          fieldUnitPrice,
	"unit price":      fieldUnitPrice,
	"unit_price":      fieldUnitPrice,
	"price":           fieldUnitPrice,

	"subtotal": fieldSubtotal,

	"iva":        fieldTax,
	"impuesto":   fieldTax,
	"tax":        fieldTax,
	"vat":        fieldTax,
	"tax_amount": fieldTax,

	"total":  fieldTotal,
	"amount": fieldTotal,
	"monto":  fieldTotal,

	"categoria": fieldCategory,
	"categoría": fieldCategory,
	"category":  fieldCategory,

	"estado": fieldStatus,
	"status": fieldStatus,

	"forma de pago":  fieldPaymentMethod,
	"metodo de pago": fieldPaymentMethod,
	"método de pago": fieldPaymentMethod,
	"payment method": fieldPaymentMethod,
	"payment_method": fieldPaymentMethod,
}

// customerColumns mark a batch as sales.
var customerColumns = map[string]bool{
	"cliente":  true,
	"customer": true,
	"client":   true,
}

var statusAliases = map[string]string{
	"pending":    "pending",
	"pendiente":  "pending",
	"por cobrar": "pending",
	"unpaid":     "pending",
	"completed":  "completed",
	"completado": "completed",
	"pagada":     "completed",
	"pagado":     "completed",
	"paid":       "completed",
}

// normalizeHeader lower-cases a header, trims it and collapses inner whitespace.
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// canonicalize maps a raw row onto canonical field names. Headers are visited
// in sorted order and the first non-blank value for a field wins; unknown
// columns are dropped.
func canonicalize(row map[string]any) (map[string]any, []string) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(row))
	headers := make([]string, 0, len(row))
	for _, raw := range keys {
		v := row[raw]
		h := normalizeHeader(raw)
		headers = append(headers, h)
		field, ok := columnAliases[h]
		if !ok {
			continue
		}
		if existing, seen := out[field]; seen && !isBlank(existing) {
			continue
		}
		out[field] = v
	}
	return out, headers
}
