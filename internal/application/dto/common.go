package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// DeletedResponse confirmación de borrado masivo.
type DeletedResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}
