package health

// HealthResponse es la respuesta de /healthz y /readyz.
type HealthResponse struct {
	Status string            `json:"status"` // "ok" | "degraded"
	Checks map[string]string `json:"checks,omitempty"`
}
