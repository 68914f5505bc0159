package session

import "encoding/json"

// Codec serializa los valores compuestos de la sesión.
// Debe ser sin pérdida: Decode(Encode(v)) == v.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

// JSONCodec es el codec por defecto.
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Decode(data []byte, out any) error { return json.Unmarshal(data, out) }
