package consumer

import (
	"encoding/json"
	"net/http"
)

// writeBody JSON-encodes a compiled example body onto the response. Pact
// examples are always plain JSON-able values (matchers compile down to
// scalars/maps/slices), so a single json.Marshal covers every interaction.
func writeBody(w http.ResponseWriter, body any) {
	enc := json.NewEncoder(w)
	_ = enc.Encode(body)
}
