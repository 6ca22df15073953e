package oauth

// CallbackRequest es el body de POST /oauth/{provider}/callback.
// State solo lo exigen los providers que lo usan (naver).
type CallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state,omitempty"`
}
