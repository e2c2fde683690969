// Package lox complements samber/lo with error-aware helpers.
package lox

// MapErr stops at the first failing element.
func MapErr[T, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	result := make([]R, len(collection))

	for i, item := range collection {
		r, err := iteratee(item)
		if err != nil {
			return nil, err
		}

		result[i] = r
	}

	return result, nil
}
