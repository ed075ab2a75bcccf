package order

// forward is the fulfilment pipeline. Each status may only advance to the
// next one; CANCELLED is reachable from any non-terminal status.
var forward = map[Status]Status{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusDelivered,
}

func IsTerminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to
// another. Staying put is always allowed so partial admin updates that
// repeat the current status are not rejected.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	if IsTerminal(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return forward[from] == to
}

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// CanChangePayment rejects moving a settled payment back to PENDING.
// Everything else is an operator call (refunds, marking cash as paid).
func CanChangePayment(from, to PaymentStatus) bool {
	if from == to {
		return true
	}
	return !(from == PaymentPaid && to == PaymentPending)
}
