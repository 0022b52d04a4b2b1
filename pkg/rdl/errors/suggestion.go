package errors

import (
	"fmt"
	"strings"
)

// SuggestKeySet suggests the registered key-set closest to the keys written.
// Distance is measured between the sorted, comma-joined key lists.
func SuggestKeySet(keys []string, valid [][]string) string {
	if len(valid) == 0 {
		return ""
	}

	written := strings.Join(keys, ",")
	minDistance := 1000
	var best []string

	for _, candidate := range valid {
		dist := levenshteinDistance(written, strings.Join(candidate, ","))
		if dist < minDistance {
			minDistance = dist
			best = candidate
		}
	}

	if minDistance < 5 {
		return fmt.Sprintf("Did you mean {%s}?", strings.Join(best, ", "))
	}

	forms := make([]string, len(valid))
	for i, candidate := range valid {
		forms[i] = "{" + strings.Join(candidate, ", ") + "}"
	}
	return fmt.Sprintf("Valid forms: %s", strings.Join(forms, ", "))
}

// SuggestFieldName suggests the closest valid field name for an unknown one.
func SuggestFieldName(unknown string, validFields []string) string {
	if len(validFields) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string

	for _, field := range validFields {
		dist := levenshteinDistance(unknown, field)
		if dist < minDistance {
			minDistance = dist
			bestMatch = field
		}
	}

	if minDistance < 5 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}
	return fmt.Sprintf("Valid fields: %s", strings.Join(validFields, ", "))
}

// SuggestMissingField suggests adding a required field.
func SuggestMissingField(fieldName string, exampleValue string) string {
	if exampleValue != "" {
		return fmt.Sprintf("Add '%s: %s' to the definition", fieldName, exampleValue)
	}
	return fmt.Sprintf("Add '%s' to the definition", fieldName)
}

func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
