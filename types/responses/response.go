package responses

type Response[T any] struct {
	Status string `json:"status,omitempty"`
	Data   T      `json:"data"`
}
