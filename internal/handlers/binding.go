package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat binds a JSON body that is either wrapped under key or
// sent flat. The school backend posts payment records both as
// {"payment": {...}} and as the bare record, so receipt and fee payment
// endpoints accept either shape. An invalid nested object is an error; it
// does not fall back to the flat body.
func BindNestedOrFlat(c *gin.Context, key string, obj any) error {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
	}
	// Later binds read the body again.
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	// {"payment": {...}}
	var nestedMap map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &nestedMap); err == nil {
		if val, ok := nestedMap[key]; ok {
			return json.Unmarshal(val, obj)
		}
	}

	// Bare record
	return json.Unmarshal(bodyBytes, obj)
}
