// Package embedapi holds the JSON payloads of the embedding service, shared by
// the server and its clients.
package embedapi

// Error types reported in FieldError.Type.
const (
	ErrTypeMissing     = "missing"
	ErrTypeStringType  = "string_type"
	ErrTypeJSONInvalid = "json_invalid"
	ErrTypeModelType   = "model_type"
	ErrTypeTooLarge    = "too_large"
)

// Messages reported in FieldError.Msg.
const (
	MsgMissing     = "Field required"
	MsgStringType  = "Input should be a valid string"
	MsgJSONInvalid = "JSON decode error"
	MsgModelType   = "Input should be a valid dictionary"
)

// Request is the body of POST /embed.
type Request struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
	Text     string `json:"text"`
}

// Response is the body of a successful POST /embed.
type Response struct {
	Embedding []float64 `json:"embedding"`
}

// FieldError describes one failed check on the request body.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationResponse is the body of a 422 response.
type ValidationResponse struct {
	Detail []FieldError `json:"detail"`
}

// BodyField builds a FieldError located at body.<name>.
func BodyField(name, msg, typ string) FieldError {
	return FieldError{Loc: []string{"body", name}, Msg: msg, Type: typ}
}

// BodyError builds a FieldError about the body as a whole.
func BodyError(msg, typ string) FieldError {
	return FieldError{Loc: []string{"body"}, Msg: msg, Type: typ}
}
