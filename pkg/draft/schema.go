package draft

import "github.com/goliatone/go-changenotice/pkg/apidoc"

// checkSchema validates a raw payload against the Draft schema published in
// the API document.
func checkSchema(payload []byte) error {
	return apidoc.ValidateDraft(payload)
}
