package admin

// StatusRequest es el body de PATCH /admin/members/{id}/status.
type StatusRequest struct {
	Active *bool `json:"active"`
}

// StatusResponse devuelve el estado resultante.
type StatusResponse struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}
