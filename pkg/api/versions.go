// Package api содержит типы HTTP API сервера версий, общие для клиента и сервера
package api

// IdentityHeader carries the identity the client expects to sync as.
// The server rejects requests where it differs from the token's identity.
const IdentityHeader = "X-Gophtask-Identity"

// VersionsResponse представляет ответ на GET /api/v1/versions
type VersionsResponse struct {
	Versions [][]byte `json:"versions"` // версии в порядке возрастания номера (base64 в JSON)
	Latest   uint64   `json:"latest"`   // номер последней версии на сервере
}

// AddVersionResponse представляет ответ на POST /api/v1/versions/{version}
type AddVersionResponse struct {
	Version uint64 `json:"version"` // номер принятой версии
	Latest  uint64 `json:"latest"`  // номер последней версии на сервере
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
	Latest  uint64 `json:"latest,omitempty"`  // последняя версия сервера при конфликте
}
