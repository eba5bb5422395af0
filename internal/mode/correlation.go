package mode

import (
	"encoding/json"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Correlation is stored in CompletionItem.Data so that a later resolve
// can find the entry again.
type Correlation struct {
	LanguageID string               `json:"languageId"`
	URI        protocol.DocumentUri `json:"uri"`
	Offset     int                  `json:"offset"`
}

// DecodeCorrelation reads a Correlation back from completion item data. The
// data is either the value DoComplete stored or its JSON object form after
// a round trip through the client.
func DecodeCorrelation(data any) (Correlation, bool) {
	switch v := data.(type) {
	case nil:
		return Correlation{}, false
	case Correlation:
		return v, true
	case *Correlation:
		if v == nil {
			return Correlation{}, false
		}
		return *v, true
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return Correlation{}, false
	}
	var c Correlation
	if err := json.Unmarshal(raw, &c); err != nil || c.URI == "" {
		return Correlation{}, false
	}
	return c, true
}
