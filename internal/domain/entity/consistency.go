package entity

// SlotConsistency compara el contador de ocupación de un slot con la suma de sus ubicaciones.
type SlotConsistency struct {
	SlotID          string
	RackID          string
	Label           string
	SlotCapacity    int
	CurrentCapacity int
	PlacedQuantity  int
	Drift           int // CurrentCapacity - PlacedQuantity
}

// Consistent true si el contador coincide con la suma de ubicaciones.
func (c SlotConsistency) Consistent() bool {
	return c.Drift == 0
}
