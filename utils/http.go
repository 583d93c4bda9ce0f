// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by the outbound REST clients (Cloudinary uploads, the
// auth service). Proof uploads are bounded by the caller's context as well.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}
