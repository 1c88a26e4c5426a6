package checkout

// Payment and order statuses are free-form strings driven by the gateway;
// the constants below are the values it is known to report. No transition
// table is enforced: the reconciler propagates whatever verdict arrives.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusDeclined = "DECLINED"
	StatusError    = "ERROR"
	StatusVoided   = "VOIDED"
)

const PaymentMethodCard = "CARD"

var statusMessages = map[string]string{
	StatusApproved: "Transacción aprobada",
	StatusDeclined: "Transacción rechazada",
	StatusPending:  "Transacción pendiente",
	StatusError:    "Error procesando la transacción",
	StatusVoided:   "Error desconocido",
}

// StatusMessage returns the display message for a known status, or the
// status itself when the gateway reports something new.
func StatusMessage(status string) string {
	if m, ok := statusMessages[status]; ok {
		return m
	}
	return status
}
