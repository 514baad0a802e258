package fit

// CmToMm converts centimetres to millimetres.
func CmToMm(cm float64) float64 {
	return cm * 10
}

// MmToCm converts millimetres to centimetres.
func MmToCm(mm float64) float64 {
	return mm / 10
}

// Mm marks a value as already being in millimetres.
func Mm(value float64) float64 {
	return value
}
