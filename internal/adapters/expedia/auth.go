package expedia

import (
	"encoding/base64"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

// BasicAuth builds the Authorization header line for one generation's
// key/secret pair.
func BasicAuth(c domain.Credentials) string {
	return "Authorization: Basic " + base64.StdEncoding.EncodeToString([]byte(c.Key+":"+c.Secret))
}
