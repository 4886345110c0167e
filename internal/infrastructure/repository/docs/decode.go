package docs

import (
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/document"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

// decodeDocument decodes doc into out, taking the id from the document path
// when the payload does not carry one.
func decodeDocument(doc docstore.Document, out any) error {
	data := doc.Data
	if _, ok := data["id"]; !ok && data != nil {
		data = make(map[string]any, len(doc.Data)+1)
		for k, v := range doc.Data {
			data[k] = v
		}
		data["id"] = doc.ID
	}
	return document.Decode(data, out)
}

// decodeSnapshot converts every well-formed document in snap. Malformed
// documents are logged and left out so one bad record cannot hide the rest.
func decodeSnapshot[R any, T any](logger *logging.Logger, snap docstore.Snapshot, convert func(R) T) []T {
	out := make([]T, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		var rec R
		if err := decodeDocument(doc, &rec); err != nil {
			logger.Warn("skipping malformed document", "path", doc.Path, "error", err)
			continue
		}
		out = append(out, convert(rec))
	}
	return out
}
