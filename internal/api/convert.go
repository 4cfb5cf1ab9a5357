package api

// Convertible is implemented by wrapped domain types that can be exposed through the API.
type Convertible[T any] interface {
	// ToAPIType converts the wrapped value to its API-safe representation.
	ToAPIType() (T, error)
}
