package capacity

// Servicio de dominio para la aritmética de ocupación de slots.
// "occupied" siempre es la capacidad ocupada del slot; "total" su capacidad definida.

// ValidQuantity true si q es un entero estrictamente positivo.
func ValidQuantity(q int) bool {
	return q > 0
}

// CanReserve indica si caben q unidades más en un slot: occupied + q <= total.
func CanReserve(total, occupied, q int) bool {
	if q < 0 || occupied < 0 {
		return false
	}
	return total-occupied >= q
}

// Reserve devuelve la nueva ocupación tras ubicar q unidades (el llamador ya validó con CanReserve).
func Reserve(occupied, q int) int {
	return occupied + q
}

// Release devuelve la nueva ocupación tras liberar q unidades. Nunca baja de cero:
// si q supera la ocupación registrada se devuelve 0 y drift con el excedente.
func Release(occupied, q int) (next int, drift int) {
	next = occupied - q
	if next < 0 {
		return 0, -next
	}
	return next, 0
}
