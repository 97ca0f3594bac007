package repository

import "strings"

// isUniqueViolation checks if the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "23505") ||
		strings.Contains(errMsg, "unique") ||
		strings.Contains(errMsg, "duplicate key")
}

// toVector converts a float64 embedding to pgvector's float32 storage
func toVectorFloats(embedding []float64) []float32 {
	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}
	return floats
}

// fromVectorFloats converts pgvector's float32 storage back to float64
func fromVectorFloats(floats []float32) []float64 {
	embedding := make([]float64, len(floats))
	for i, v := range floats {
		embedding[i] = float64(v)
	}
	return embedding
}
